package store

import (
	"context"
	"errors"

	"github.com/example/marketplace/internal/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is a generic document store over the catalog collections. Each
// write is a single atomic operation; there are no cross-document
// transactions.
type Store interface {
	// Users
	InsertUser(ctx context.Context, u *model.User) error
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Brands
	InsertBrand(ctx context.Context, b *model.Brand) error
	FindBrandByID(ctx context.Context, id string) (*model.Brand, error)
	// FindBrandByName matches case-insensitively.
	FindBrandByName(ctx context.Context, name string) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]*model.Brand, error)
	UpdateBrand(ctx context.Context, b *model.Brand) error
	DeleteBrand(ctx context.Context, id string) error

	// Products
	InsertProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]*model.Product, error)
	// ListProductsByBrand returns one page of a brand's products, newest
	// first, plus the total count for that brand.
	ListProductsByBrand(ctx context.Context, brandID string, offset, limit int) ([]*model.Product, int, error)
	DeleteProduct(ctx context.Context, id string) error

	// Orders
	InsertOrder(ctx context.Context, o *model.Order) error
	FindOrderByID(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]*model.Order, error)
	UpdateOrder(ctx context.Context, o *model.Order) error
}
