package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/marketplace/internal/auth"
	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/model"
)

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingField       = errors.New("missing required field")
)

// Service owns identity registration and credential verification.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Register creates a new identity. Role is immutable after creation and
// must be admin or customer; email must be unique.
func (s *Service) Register(ctx context.Context, fullName, email, password string, role model.Role) (*model.User, error) {
	if fullName == "" || email == "" || password == "" {
		return nil, ErrMissingField
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &model.User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.InsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials and returns the matching identity.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Profile returns an identity by id.
func (s *Service) Profile(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
