//go:build integration

package firestore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	pfirestore "github.com/Apurer/storefront-api/internal/platform/firestore"
)

func newEmulatorProvider(t *testing.T) *pfirestore.Provider {
	host := os.Getenv("FIRESTORE_EMULATOR_HOST")
	if host == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	provider := pfirestore.NewProvider(pfirestore.Config{
		ProjectID:    fmt.Sprintf("catalog-test-%d", time.Now().UnixNano()),
		EmulatorHost: host,
	})
	t.Cleanup(func() { _ = provider.Close() })
	return provider
}

func newProduct(t *testing.T, name string) *domain.Product {
	product, err := domain.NewProduct(name, "", decimal.RequireFromString("4.50"), 3, nil, "")
	require.NoError(t, err)
	return product
}

func TestProductRepository_ExplicitIDAdvancesSequence(t *testing.T) {
	repo := NewProductRepository(newEmulatorProvider(t))
	ctx := context.Background()

	seeded := newProduct(t, "Seeded")
	seeded.ID = 10
	saved, err := repo.Create(ctx, seeded)
	require.NoError(t, err)
	assert.Equal(t, int64(10), saved.ID)

	next, err := repo.Create(ctx, newProduct(t, "Generated"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), next.ID)

	// A lower explicit id leaves the sequence alone.
	low := newProduct(t, "Backfilled")
	low.ID = 3
	_, err = repo.Create(ctx, low)
	require.NoError(t, err)

	after, err := repo.Create(ctx, newProduct(t, "Later"))
	require.NoError(t, err)
	assert.Equal(t, int64(12), after.ID)

	got, err := repo.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Seeded", got.Name)
}

func TestProductRepository_DuplicateIDRejected(t *testing.T) {
	repo := NewProductRepository(newEmulatorProvider(t))
	ctx := context.Background()

	first := newProduct(t, "First")
	first.ID = 5
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	dup := newProduct(t, "Second")
	dup.ID = 5
	_, err = repo.Create(ctx, dup)
	require.Error(t, err)

	got, err := repo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)
}

func TestCategoryRepository_ExplicitIDAdvancesSequence(t *testing.T) {
	repo := NewCategoryRepository(newEmulatorProvider(t))
	ctx := context.Background()

	seeded, err := domain.NewCategory("Shirts", "")
	require.NoError(t, err)
	seeded.ID = 4
	_, err = repo.Create(ctx, seeded)
	require.NoError(t, err)

	generated, err := domain.NewCategory("Shoes", "")
	require.NoError(t, err)
	saved, err := repo.Create(ctx, generated)
	require.NoError(t, err)
	assert.Equal(t, int64(5), saved.ID)
}
