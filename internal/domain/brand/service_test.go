package brand

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/marketplace/internal/infrastructure/store"
)

func newTestService() *Service {
	return NewService(store.NewMemoryStore())
}

func TestService_Create_Success(t *testing.T) {
	svc := newTestService()

	b, err := svc.Create(context.Background(), "Acme")

	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Acme", b.BrandName)
}

func TestService_Create_EmptyName(t *testing.T) {
	svc := newTestService()

	b, err := svc.Create(context.Background(), "")

	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Nil(t, b)
}

func TestService_Create_DuplicateName_CaseInsensitive(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "Acme")
	require.NoError(t, err)

	tests := []string{"Acme", "acme", "ACME", "aCmE"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := svc.Create(context.Background(), name)
			assert.ErrorIs(t, err, ErrBrandExists)
			assert.Nil(t, b)
		})
	}
}

func TestService_List(t *testing.T) {
	svc := newTestService()

	brands, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, brands)

	_, err = svc.Create(context.Background(), "Acme")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "Globex")
	require.NoError(t, err)

	brands, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 2)
}

func TestService_Rename_Success(t *testing.T) {
	svc := newTestService()

	b, err := svc.Create(context.Background(), "Acme")
	require.NoError(t, err)

	renamed, err := svc.Rename(context.Background(), b.ID, "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, b.ID, renamed.ID)
	assert.Equal(t, "Acme Corp", renamed.BrandName)
}

func TestService_Rename_KeepOwnName(t *testing.T) {
	svc := newTestService()

	b, err := svc.Create(context.Background(), "Acme")
	require.NoError(t, err)

	// Renaming a brand to a casing of its own name is allowed
	renamed, err := svc.Rename(context.Background(), b.ID, "ACME")

	require.NoError(t, err)
	assert.Equal(t, "ACME", renamed.BrandName)
}

func TestService_Rename_NameTaken(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "Acme")
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), "Globex")
	require.NoError(t, err)

	renamed, err := svc.Rename(context.Background(), other.ID, "acme")

	assert.ErrorIs(t, err, ErrBrandExists)
	assert.Nil(t, renamed)
}

func TestService_Rename_NotFound(t *testing.T) {
	svc := newTestService()

	renamed, err := svc.Rename(context.Background(), "no-such-brand", "Acme")

	assert.ErrorIs(t, err, ErrBrandNotFound)
	assert.Nil(t, renamed)
}

func TestService_Delete_Success(t *testing.T) {
	svc := newTestService()

	b, err := svc.Create(context.Background(), "Acme")
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), b.ID)

	require.NoError(t, err)
	assert.Equal(t, b.ID, deleted.ID)

	brands, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, brands)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := newTestService()

	deleted, err := svc.Delete(context.Background(), "no-such-brand")

	assert.ErrorIs(t, err, ErrBrandNotFound)
	assert.Nil(t, deleted)
}

func TestService_Delete_FreesName(t *testing.T) {
	svc := newTestService()

	b, err := svc.Create(context.Background(), "Acme")
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), b.ID)
	require.NoError(t, err)

	// Name becomes available again after deletion
	_, err = svc.Create(context.Background(), "acme")
	assert.NoError(t, err)
}
