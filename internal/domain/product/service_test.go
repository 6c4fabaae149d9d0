package product

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/model"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewService(st), st
}

func seedBrand(t *testing.T, st *store.MemoryStore, name string) *model.Brand {
	t.Helper()
	b := &model.Brand{
		ID:        uuid.New().String(),
		BrandName: name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, st.InsertBrand(context.Background(), b))
	return b
}

func seedUser(t *testing.T, st *store.MemoryStore, fullName string) *model.User {
	t.Helper()
	u := &model.User{
		ID:        uuid.New().String(),
		FullName:  fullName,
		Email:     fullName + "@example.com",
		Role:      model.RoleAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, st.InsertUser(context.Background(), u))
	return u
}

// ============================================
// Create Tests
// ============================================

func TestService_Create_Success(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")
	owner := seedUser(t, st, "admin")

	view, err := svc.Create(context.Background(), owner.ID, "Widget", b.ID,
		19.99, []string{"widget.png"}, "A widget", "in_stock")

	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Widget", view.ProductName)
	assert.Equal(t, b.ID, view.BrandID)
	assert.Equal(t, owner.ID, view.OwnerID)
	assert.Equal(t, 19.99, view.Cost)
	assert.Equal(t, "Acme", view.BrandName)
	assert.Equal(t, "admin", view.OwnerName)
}

func TestService_Create_MissingFields(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")

	tests := []struct {
		name        string
		productName string
		brandID     string
		description string
		stockStatus string
	}{
		{"no product name", "", b.ID, "desc", "in_stock"},
		{"no brand", "Widget", "", "desc", "in_stock"},
		{"no description", "Widget", b.ID, "", "in_stock"},
		{"no stock status", "Widget", b.ID, "desc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.Create(context.Background(), "owner-1", tt.productName, tt.brandID,
				10, nil, tt.description, tt.stockStatus)
			assert.ErrorIs(t, err, ErrMissingField)
			assert.Nil(t, view)
		})
	}
}

func TestService_Create_UnknownBrand(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.Create(context.Background(), "owner-1", "Widget", "no-such-brand",
		10, nil, "desc", "in_stock")

	assert.ErrorIs(t, err, ErrInvalidBrand)
	assert.Nil(t, view)
}

// ============================================
// List Tests
// ============================================

func TestService_List_ResolvesReferences(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")
	owner := seedUser(t, st, "admin")

	_, err := svc.Create(context.Background(), owner.ID, "Widget", b.ID, 10, nil, "desc", "in_stock")
	require.NoError(t, err)

	views, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Acme", views[0].BrandName)
	assert.Equal(t, "admin", views[0].OwnerName)
}

func TestService_List_DanglingReferences(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")

	_, err := svc.Create(context.Background(), "gone-owner", "Widget", b.ID, 10, nil, "desc", "in_stock")
	require.NoError(t, err)

	// Deleting the brand afterwards leaves the product's reference dangling
	require.NoError(t, st.DeleteBrand(context.Background(), b.ID))

	views, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, b.ID, views[0].BrandID)
	assert.Empty(t, views[0].BrandName)
	assert.Empty(t, views[0].OwnerName)
}

// ============================================
// ListByBrand Tests
// ============================================

func seedProducts(t *testing.T, svc *Service, brandID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), "owner-1", fmt.Sprintf("Widget %d", i), brandID,
			float64(i), nil, "desc", "in_stock")
		require.NoError(t, err)
	}
}

func TestService_ListByBrand_Pagination(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")
	seedProducts(t, svc, b.ID, 25)

	page, err := svc.ListByBrand(context.Background(), b.ID, 2, 10)

	require.NoError(t, err)
	assert.Len(t, page.Products, 10)
	assert.Equal(t, 25, page.TotalProducts)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)
	require.NotNil(t, page.NextPage)
	assert.Equal(t, 3, *page.NextPage)
	require.NotNil(t, page.PrevPage)
	assert.Equal(t, 1, *page.PrevPage)
	assert.Equal(t, 10, page.Limit)
}

func TestService_ListByBrand_LastPage(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")
	seedProducts(t, svc, b.ID, 25)

	page, err := svc.ListByBrand(context.Background(), b.ID, 3, 10)

	require.NoError(t, err)
	assert.Len(t, page.Products, 5)
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.NextPage)
	assert.True(t, page.HasPrevPage)
}

func TestService_ListByBrand_FirstPage(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")
	seedProducts(t, svc, b.ID, 5)

	page, err := svc.ListByBrand(context.Background(), b.ID, 1, 10)

	require.NoError(t, err)
	assert.Len(t, page.Products, 5)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)
	assert.Nil(t, page.NextPage)
	assert.Nil(t, page.PrevPage)
}

func TestService_ListByBrand_EmptyBrand(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")

	page, err := svc.ListByBrand(context.Background(), b.ID, 1, 10)

	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 0, page.TotalProducts)
	assert.Equal(t, 0, page.TotalPages)
}

func TestService_ListByBrand_InvalidPage(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")

	for _, page := range []int{0, -1} {
		result, err := svc.ListByBrand(context.Background(), b.ID, page, 10)
		assert.ErrorIs(t, err, ErrInvalidPage)
		assert.Nil(t, result)
	}
}

func TestService_ListByBrand_InvalidLimit(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")

	for _, limit := range []int{0, -1, 11, 100} {
		result, err := svc.ListByBrand(context.Background(), b.ID, 1, limit)
		assert.ErrorIs(t, err, ErrInvalidLimit)
		assert.Nil(t, result)
	}
}

func TestService_ListByBrand_UnknownBrand(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.ListByBrand(context.Background(), "no-such-brand", 1, 10)

	assert.ErrorIs(t, err, ErrBrandNotFound)
	assert.Nil(t, result)
}

// ============================================
// Delete Tests
// ============================================

func TestService_Delete_Success(t *testing.T) {
	svc, st := newTestService(t)
	b := seedBrand(t, st, "Acme")

	view, err := svc.Create(context.Background(), "owner-1", "Widget", b.ID, 10, nil, "desc", "in_stock")
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), view.ID)

	require.NoError(t, err)
	assert.Equal(t, view.ID, deleted.ID)

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	deleted, err := svc.Delete(context.Background(), "no-such-product")

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, deleted)
}
