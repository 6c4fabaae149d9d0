package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/marketplace/internal/model"
)

func newTestJWTService() *JWTService {
	return NewJWTService("test-secret-key-for-testing-purposes", time.Hour)
}

func TestNewJWTService(t *testing.T) {
	service := newTestJWTService()
	assert.NotNil(t, service)
	assert.Equal(t, time.Hour, service.TokenTTL())
}

func TestJWTService_Issue_Success(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.Issue("user-123", "test@example.com", model.RoleCustomer)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(61*time.Minute)))
}

func TestJWTService_Verify_Valid(t *testing.T) {
	service := newTestJWTService()

	token, _, err := service.Issue("user-456", "admin@example.com", model.RoleAdmin)
	require.NoError(t, err)

	claims, err := service.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, "user-456", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "user-456", claims.Subject)
}

func TestJWTService_Verify_Expired(t *testing.T) {
	// Service with a very short lifetime
	service := NewJWTService("test-secret", 1*time.Millisecond)

	token, _, err := service.Issue("user-123", "test@example.com", model.RoleCustomer)
	require.NoError(t, err)

	// Wait for the token to expire
	time.Sleep(10 * time.Millisecond)

	claims, err := service.Verify(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestJWTService_Verify_Invalid(t *testing.T) {
	service := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_Verify_WrongSignature(t *testing.T) {
	service1 := NewJWTService("secret-key-1", time.Hour)
	service2 := NewJWTService("secret-key-2", time.Hour)

	token, _, err := service1.Issue("user-123", "test@example.com", model.RoleCustomer)
	require.NoError(t, err)

	// Verify with the other secret
	claims, err := service2.Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_Verify_WrongAlgorithm(t *testing.T) {
	service := newTestJWTService()

	// Token signed with "none" must be rejected
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user-123",
		Email:  "test@example.com",
		Role:   model.RoleCustomer,
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := service.Verify(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_Verify_IsPure(t *testing.T) {
	service := newTestJWTService()

	token, _, err := service.Issue("user-123", "test@example.com", model.RoleCustomer)
	require.NoError(t, err)

	// Repeated verification of the same token yields the same claims
	first, err := service.Verify(token)
	require.NoError(t, err)
	second, err := service.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
