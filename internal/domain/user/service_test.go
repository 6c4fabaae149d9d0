package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/marketplace/internal/auth"
	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/model"
)

func newTestService() *Service {
	return NewService(store.NewMemoryStore())
}

// ============================================
// Register Tests
// ============================================

func TestService_Register_Success(t *testing.T) {
	svc := newTestService()

	u, err := svc.Register(context.Background(), "Jane Doe", "jane@example.com", "password123", model.RoleCustomer)

	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Jane Doe", u.FullName)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, model.RoleCustomer, u.Role)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, auth.CheckPassword("password123", u.PasswordHash))
}

func TestService_Register_MissingFields(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name     string
		fullName string
		email    string
		password string
	}{
		{"no name", "", "a@example.com", "password123"},
		{"no email", "Jane Doe", "", "password123"},
		{"no password", "Jane Doe", "a@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.Register(context.Background(), tt.fullName, tt.email, tt.password, model.RoleCustomer)
			assert.ErrorIs(t, err, ErrMissingField)
			assert.Nil(t, u)
		})
	}
}

func TestService_Register_InvalidRole(t *testing.T) {
	svc := newTestService()

	u, err := svc.Register(context.Background(), "Jane Doe", "jane@example.com", "password123", model.Role("superuser"))

	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Nil(t, u)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), "Jane Doe", "jane@example.com", "password123", model.RoleCustomer)
	require.NoError(t, err)

	u, err := svc.Register(context.Background(), "Other Jane", "jane@example.com", "password456", model.RoleAdmin)

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, u)
}

func TestService_Register_ShortPassword(t *testing.T) {
	svc := newTestService()

	u, err := svc.Register(context.Background(), "Jane Doe", "jane@example.com", "short", model.RoleCustomer)

	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
	assert.Nil(t, u)
}

// ============================================
// Authenticate Tests
// ============================================

func TestService_Authenticate_Success(t *testing.T) {
	svc := newTestService()

	registered, err := svc.Register(context.Background(), "Jane Doe", "jane@example.com", "password123", model.RoleCustomer)
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "jane@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), "Jane Doe", "jane@example.com", "password123", model.RoleCustomer)
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "jane@example.com", "wrong-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, u)
}

func TestService_Authenticate_UnknownEmail(t *testing.T) {
	svc := newTestService()

	u, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")

	// Indistinguishable from a wrong password
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, u)
}

// ============================================
// Profile Tests
// ============================================

func TestService_Profile_Success(t *testing.T) {
	svc := newTestService()

	registered, err := svc.Register(context.Background(), "Jane Doe", "jane@example.com", "password123", model.RoleAdmin)
	require.NoError(t, err)

	u, err := svc.Profile(context.Background(), registered.ID)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", u.FullName)
	assert.Equal(t, model.RoleAdmin, u.Role)
}

func TestService_Profile_NotFound(t *testing.T) {
	svc := newTestService()

	u, err := svc.Profile(context.Background(), "no-such-user")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, u)
}
