package product

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/model"
)

// MaxPageLimit caps how many products one page may request.
const MaxPageLimit = 10

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidBrand    = errors.New("invalid brand id")
	ErrProductNotFound = errors.New("product not found")
	ErrBrandNotFound   = errors.New("brand not found")
	ErrInvalidPage     = errors.New("invalid page number")
	ErrInvalidLimit    = errors.New("invalid limit")
)

// View is a product enriched with display fields resolved at read time.
type View struct {
	model.Product
	OwnerName string `json:"ownerName,omitempty"`
	BrandName string `json:"brandName,omitempty"`
}

// Page is one page of a brand's products plus pagination metadata.
type Page struct {
	Products      []*View `json:"products"`
	TotalProducts int     `json:"totalProducts"`
	TotalPages    int     `json:"totalPages"`
	CurrentPage   int     `json:"currentPage"`
	HasNextPage   bool    `json:"hasNextPage"`
	HasPrevPage   bool    `json:"hasPrevPage"`
	NextPage      *int    `json:"nextPage"`
	PrevPage      *int    `json:"prevPage"`
	Limit         int     `json:"limit"`
}

// Service owns the product catalog.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Create adds a product owned by the creating admin. The brand reference
// must resolve at creation time; there is no standing referential
// integrity afterwards.
func (s *Service) Create(ctx context.Context, ownerID, name, brandID string, cost float64, images []string, description, stockStatus string) (*View, error) {
	if brandID == "" {
		return nil, ErrMissingField
	}
	if name == "" || description == "" || stockStatus == "" {
		return nil, ErrMissingField
	}

	b, err := s.store.FindBrandByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidBrand
		}
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		ID:            uuid.New().String(),
		ProductName:   name,
		OwnerID:       ownerID,
		BrandID:       brandID,
		Cost:          cost,
		ProductImages: images,
		Description:   description,
		StockStatus:   stockStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.InsertProduct(ctx, p); err != nil {
		return nil, err
	}

	view := &View{Product: *p, BrandName: b.BrandName}
	if owner, err := s.store.FindUserByID(ctx, ownerID); err == nil {
		view.OwnerName = owner.FullName
	}
	return view, nil
}

// List returns all products with owner and brand display names resolved.
func (s *Service) List(ctx context.Context) ([]*View, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, products), nil
}

// ListByBrand returns one page of a brand's products. Pages are 1-based
// and the limit must be between 1 and MaxPageLimit.
func (s *Service) ListByBrand(ctx context.Context, brandID string, page, limit int) (*Page, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if limit < 1 || limit > MaxPageLimit {
		return nil, ErrInvalidLimit
	}

	if _, err := s.store.FindBrandByID(ctx, brandID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}

	offset := (page - 1) * limit
	products, total, err := s.store.ListProductsByBrand(ctx, brandID, offset, limit)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	result := &Page{
		Products:      s.resolve(ctx, products),
		TotalProducts: total,
		TotalPages:    totalPages,
		CurrentPage:   page,
		HasNextPage:   page < totalPages,
		HasPrevPage:   page > 1,
		Limit:         limit,
	}
	if result.HasNextPage {
		next := page + 1
		result.NextPage = &next
	}
	if result.HasPrevPage {
		prev := page - 1
		result.PrevPage = &prev
	}
	return result, nil
}

// Delete removes a product and returns the deleted document.
func (s *Service) Delete(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.store.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// resolve attaches display names with one batch of reference lookups.
// Missing references leave the display fields empty; persisted ids are
// never touched.
func (s *Service) resolve(ctx context.Context, products []*model.Product) []*View {
	owners := make(map[string]string)
	brands := make(map[string]string)

	views := make([]*View, 0, len(products))
	for _, p := range products {
		view := &View{Product: *p}

		if name, ok := owners[p.OwnerID]; ok {
			view.OwnerName = name
		} else if owner, err := s.store.FindUserByID(ctx, p.OwnerID); err == nil {
			owners[p.OwnerID] = owner.FullName
			view.OwnerName = owner.FullName
		}

		if name, ok := brands[p.BrandID]; ok {
			view.BrandName = name
		} else if b, err := s.store.FindBrandByID(ctx, p.BrandID); err == nil {
			brands[p.BrandID] = b.BrandName
			view.BrandName = b.BrandName
		}

		views = append(views, view)
	}
	return views
}
