//go:build integration

package firestore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogfirestore "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/firestore"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	pfirestore "github.com/Apurer/storefront-api/internal/platform/firestore"
)

// Tests run against the emulator named by FIRESTORE_EMULATOR_HOST, each in its own project.
func newEmulatorProvider(t *testing.T) *pfirestore.Provider {
	host := os.Getenv("FIRESTORE_EMULATOR_HOST")
	if host == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	provider := pfirestore.NewProvider(pfirestore.Config{
		ProjectID:    fmt.Sprintf("orders-test-%d", time.Now().UnixNano()),
		EmulatorHost: host,
	})
	t.Cleanup(func() { _ = provider.Close() })
	return provider
}

func seedProduct(t *testing.T, provider *pfirestore.Provider, name string, price, stock int64) *catalogdomain.Product {
	product, err := catalogdomain.NewProduct(name, "", decimal.NewFromInt(price), stock, nil, "")
	require.NoError(t, err)
	saved, err := catalogfirestore.NewProductRepository(provider).Create(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func draftOrder(t *testing.T, userID int64, lines ...domain.CartLine) *domain.Order {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	order, err := domain.NewOrder(domain.Draft{
		UserID:      userID,
		TotalAmount: &total,
		Shipping:    domain.Shipping{RecipientName: "Lan", Phone: "0900", Address: "1 Main St"},
		Lines:       lines,
	}, time.Now())
	require.NoError(t, err)
	return order
}

func TestRepository_CreateIsAtomic(t *testing.T) {
	provider := newEmulatorProvider(t)
	ctx := context.Background()
	products := catalogfirestore.NewProductRepository(provider)
	repo := NewRepository(provider)

	a := seedProduct(t, provider, "A", 100, 5)
	b := seedProduct(t, provider, "B", 200, 1)

	_, err := repo.Create(ctx, draftOrder(t, 1,
		domain.CartLine{ProductID: a.ID, Quantity: 2, Price: a.Price},
		domain.CartLine{ProductID: b.ID, Quantity: 2, Price: b.Price},
	))
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	got, err := products.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Stock)

	saved, err := repo.Create(ctx, draftOrder(t, 1,
		domain.CartLine{ProductID: a.ID, Quantity: 2, Price: a.Price},
		domain.CartLine{ProductID: b.ID, Quantity: 1, Price: b.Price},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 2)
	assert.True(t, fetched.ItemsTotal().Equal(fetched.TotalAmount))

	got, err = products.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Stock)
}

func TestRepository_ConcurrentLastUnit(t *testing.T) {
	provider := newEmulatorProvider(t)
	last := seedProduct(t, provider, "Last", 100, 1)
	repo := NewRepository(provider)

	const buyers = 4
	orders := make([]*domain.Order, buyers)
	for i := range orders {
		orders[i] = draftOrder(t, int64(i+1), domain.CartLine{ProductID: last.ID, Quantity: 1, Price: last.Price})
	}
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := range orders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(context.Background(), orders[i])
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRepository_UpdateStatusCompareAndSet(t *testing.T) {
	provider := newEmulatorProvider(t)
	ctx := context.Background()
	p := seedProduct(t, provider, "P", 100, 3)
	repo := NewRepository(provider)

	saved, err := repo.Create(ctx, draftOrder(t, 9, domain.CartLine{ProductID: p.ID, Quantity: 1, Price: p.Price}))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, saved.ID, domain.StatusPending, domain.StatusShipped, time.Now()))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, saved.ID, domain.StatusPending, domain.StatusCancelled, time.Now()), ports.ErrStatusConflict)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 777, domain.StatusPending, domain.StatusCancelled, time.Now()), ports.ErrNotFound)
}

func TestIdempotencyStore_ClaimLifecycle(t *testing.T) {
	provider := newEmulatorProvider(t)
	ctx := context.Background()
	store := NewIdempotencyStore(provider, time.Hour)

	claim, claimed, err := store.Claim(ctx, "a/b", "h1")
	require.NoError(t, err)
	require.True(t, claimed)

	_, claimed, err = store.Claim(ctx, "a/b", "h1")
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, store.Complete(ctx, *claim, 3))
	replay, claimed, err := store.Claim(ctx, "a/b", "h1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, int64(3), replay.OrderID)

	_, _, err = store.Claim(ctx, "a/b", "h2")
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	released, claimed, err := store.Claim(ctx, "c", "h1")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, store.Release(ctx, *released))
	got, err := store.Get(ctx, "c")
	require.NoError(t, err)
	assert.Nil(t, got)
}
