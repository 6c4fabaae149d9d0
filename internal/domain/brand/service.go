package brand

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/model"
)

var (
	ErrNameRequired  = errors.New("brand name is required")
	ErrBrandExists   = errors.New("brand already exists")
	ErrBrandNotFound = errors.New("brand not found")
)

// Service owns the brand catalog. Brand names are unique
// case-insensitively, checked on create and rename.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) List(ctx context.Context) ([]*model.Brand, error) {
	return s.store.ListBrands(ctx)
}

func (s *Service) Create(ctx context.Context, name string) (*model.Brand, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	if _, err := s.store.FindBrandByName(ctx, name); err == nil {
		return nil, ErrBrandExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	b := &model.Brand{
		ID:        uuid.New().String(),
		BrandName: name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Rename(ctx context.Context, id, name string) (*model.Brand, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	b, err := s.store.FindBrandByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}

	// Another brand may already hold the new name (case-insensitive).
	if existing, err := s.store.FindBrandByName(ctx, name); err == nil {
		if existing.ID != id {
			return nil, ErrBrandExists
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	b.BrandName = name
	b.UpdatedAt = time.Now()
	if err := s.store.UpdateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a brand. Products referencing it are left untouched;
// the brand reference is only checked at product creation time.
func (s *Service) Delete(ctx context.Context, id string) (*model.Brand, error) {
	b, err := s.store.FindBrandByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}

	if err := s.store.DeleteBrand(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}
