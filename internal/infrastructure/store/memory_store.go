package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/marketplace/internal/model"
)

// MemoryStore is an in-memory document store. It is used in tests and for
// local development without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	brands   map[string]*model.Brand
	products map[string]*model.Product
	orders   map[string]*model.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*model.User),
		brands:   make(map[string]*model.Brand),
		products: make(map[string]*model.Product),
		orders:   make(map[string]*model.Order),
	}
}

// Users

func (ms *MemoryStore) InsertUser(ctx context.Context, u *model.User) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cp := *u
	ms.users[u.ID] = &cp
	return nil
}

func (ms *MemoryStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	u, ok := ms.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (ms *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, u := range ms.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Brands

func (ms *MemoryStore) InsertBrand(ctx context.Context, b *model.Brand) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cp := *b
	ms.brands[b.ID] = &cp
	return nil
}

func (ms *MemoryStore) FindBrandByID(ctx context.Context, id string) (*model.Brand, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	b, ok := ms.brands[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (ms *MemoryStore) FindBrandByName(ctx context.Context, name string) (*model.Brand, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, b := range ms.brands {
		if strings.EqualFold(b.BrandName, name) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (ms *MemoryStore) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	brands := make([]*model.Brand, 0, len(ms.brands))
	for _, b := range ms.brands {
		cp := *b
		brands = append(brands, &cp)
	}
	sort.Slice(brands, func(i, j int) bool {
		return brands[i].CreatedAt.After(brands[j].CreatedAt)
	})
	return brands, nil
}

func (ms *MemoryStore) UpdateBrand(ctx context.Context, b *model.Brand) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.brands[b.ID]; !ok {
		return ErrNotFound
	}
	cp := *b
	ms.brands[b.ID] = &cp
	return nil
}

func (ms *MemoryStore) DeleteBrand(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.brands[id]; !ok {
		return ErrNotFound
	}
	delete(ms.brands, id)
	return nil
}

// Products

func (ms *MemoryStore) InsertProduct(ctx context.Context, p *model.Product) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cp := *p
	ms.products[p.ID] = &cp
	return nil
}

func (ms *MemoryStore) FindProductByID(ctx context.Context, id string) (*model.Product, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	p, ok := ms.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (ms *MemoryStore) ListProducts(ctx context.Context) ([]*model.Product, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	products := make([]*model.Product, 0, len(ms.products))
	for _, p := range ms.products {
		cp := *p
		products = append(products, &cp)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (ms *MemoryStore) ListProductsByBrand(ctx context.Context, brandID string, offset, limit int) ([]*model.Product, int, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var matched []*model.Product
	for _, p := range ms.products {
		if p.BrandID == brandID {
			cp := *p
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []*model.Product{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (ms *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.products[id]; !ok {
		return ErrNotFound
	}
	delete(ms.products, id)
	return nil
}

// Orders

func (ms *MemoryStore) InsertOrder(ctx context.Context, o *model.Order) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	ms.orders[o.ID] = &cp
	return nil
}

func (ms *MemoryStore) FindOrderByID(ctx context.Context, id string) (*model.Order, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	o, ok := ms.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (ms *MemoryStore) ListOrders(ctx context.Context) ([]*model.Order, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	orders := make([]*model.Order, 0, len(ms.orders))
	for _, o := range ms.orders {
		cp := *o
		cp.Items = append([]model.OrderItem(nil), o.Items...)
		orders = append(orders, &cp)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (ms *MemoryStore) UpdateOrder(ctx context.Context, o *model.Order) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.orders[o.ID]; !ok {
		return ErrNotFound
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	ms.orders[o.ID] = &cp
	return nil
}
