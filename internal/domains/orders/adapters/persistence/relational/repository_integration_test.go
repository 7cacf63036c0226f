//go:build integration

package relational

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	catalogrelational "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/relational"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/platform/migrations"
	platformrelational "github.com/Apurer/storefront-api/internal/platform/relational"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformrelational.Connect(ctx, platformrelational.DriverPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int64) *catalogdomain.Product {
	product, err := catalogdomain.NewProduct(name, "", decimal.NewFromInt(price), stock, nil, name+".jpg")
	require.NoError(t, err)
	saved, err := catalogrelational.NewProductRepository(db).Create(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func newTestOrder(t *testing.T, userID int64, lines ...domain.CartLine) *domain.Order {
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

func stockOf(t *testing.T, db *gorm.DB, id int64) int64 {
	p, err := catalogrelational.NewProductRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestRepository_CreateDecrementsStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	shirt := seedProduct(t, db, "Shirt", 50000, 10)
	pants := seedProduct(t, db, "Pants", 70000, 5)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, 1,
		domain.CartLine{ProductID: shirt.ID, Quantity: 2, Price: shirt.Price, Name: shirt.Name},
		domain.CartLine{ProductID: pants.ID, Quantity: 1, Price: pants.Price, Name: pants.Name},
	)
	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.True(t, decimal.NewFromInt(170000).Equal(saved.TotalAmount))

	assert.Equal(t, int64(8), stockOf(t, db, shirt.ID))
	assert.Equal(t, int64(4), stockOf(t, db, pants.ID))

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	assert.True(t, fetched.ItemsTotal().Equal(fetched.TotalAmount))
}

func TestRepository_CreateRollsBackOnShortage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	a := seedProduct(t, db, "A", 100, 5)
	b := seedProduct(t, db, "B", 100, 1)
	repo := NewRepository(db)

	order := newTestOrder(t, 1,
		domain.CartLine{ProductID: a.ID, Quantity: 2, Price: a.Price},
		domain.CartLine{ProductID: b.ID, Quantity: 3, Price: b.Price},
	)
	_, err := repo.Create(context.Background(), order)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	var shortage *ports.InsufficientStockError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, b.ID, shortage.ProductID)

	assert.Equal(t, int64(5), stockOf(t, db, a.ID))
	assert.Equal(t, int64(1), stockOf(t, db, b.ID))

	orders, err := repo.List(context.Background(), ports.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRepository_CreateUnknownProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	order := newTestOrder(t, 1, domain.CartLine{ProductID: 999, Quantity: 1, Price: decimal.NewFromInt(1)})
	_, err := NewRepository(db).Create(context.Background(), order)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestRepository_ConcurrentLastUnit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	last := seedProduct(t, db, "Last", 100, 1)
	repo := NewRepository(db)

	const buyers = 6
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	orders := make([]*domain.Order, buyers)
	for i := range orders {
		orders[i] = newTestOrder(t, int64(i+1), domain.CartLine{ProductID: last.ID, Quantity: 1, Price: last.Price})
	}
	for i := 0; i < buyers; i++ {
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
			continue
		}
		assert.ErrorIs(t, err, ports.ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(0), stockOf(t, db, last.ID))
}

func TestRepository_UpdateStatusCompareAndSet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	p := seedProduct(t, db, "P", 100, 3)
	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, newTestOrder(t, 7, domain.CartLine{ProductID: p.ID, Quantity: 1, Price: p.Price}))
	require.NoError(t, err)

	later := time.Now().Add(time.Minute)
	require.NoError(t, repo.UpdateStatus(ctx, saved.ID, domain.StatusPending, domain.StatusProcessing, later))

	err = repo.UpdateStatus(ctx, saved.ID, domain.StatusPending, domain.StatusCancelled, later)
	assert.ErrorIs(t, err, ports.ErrStatusConflict)

	err = repo.UpdateStatus(ctx, 424242, domain.StatusPending, domain.StatusCancelled, later)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, fetched.Status)
	assert.WithinDuration(t, later, fetched.UpdatedAt, time.Second)
}

func TestIdempotencyStore_ClaimCompleteAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db, time.Hour)
	ctx := context.Background()

	claim, claimed, err := store.Claim(ctx, "k", "h1")
	require.NoError(t, err)
	require.True(t, claimed)
	assert.True(t, claim.Pending())

	inFlight, claimed, err := store.Claim(ctx, "k", "h1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.True(t, inFlight.Pending())

	require.NoError(t, store.Complete(ctx, *claim, 10))
	again, claimed, err := store.Claim(ctx, "k", "h1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, int64(10), again.OrderID)

	_, _, err = store.Claim(ctx, "k", "h2")
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	removed, err := store.PurgeExpired(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdempotencyStore_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db, time.Hour)
	ctx := context.Background()

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, claimed, err := store.Claim(ctx, "race", "h1")
			assert.NoError(t, err)
			if claimed {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)

	claim, err := store.Get(ctx, "race")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, *claim))
	_, claimed, err := store.Claim(ctx, "race", "h1")
	require.NoError(t, err)
	assert.True(t, claimed)
}
