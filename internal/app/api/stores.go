package api

import (
	"context"
	"fmt"
	"log/slog"

	catalogfirestore "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/firestore"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogrelational "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/relational"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	ordersfirestore "github.com/Apurer/storefront-api/internal/domains/orders/adapters/firestore"
	ordersmemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	ordersrelational "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/relational"
	ordersredis "github.com/Apurer/storefront-api/internal/domains/orders/adapters/redis"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	usersfirestore "github.com/Apurer/storefront-api/internal/domains/users/adapters/firestore"
	usermemory "github.com/Apurer/storefront-api/internal/domains/users/adapters/memory"
	usersrelational "github.com/Apurer/storefront-api/internal/domains/users/adapters/persistence/relational"
	userports "github.com/Apurer/storefront-api/internal/domains/users/ports"
	platformfirestore "github.com/Apurer/storefront-api/internal/platform/firestore"
	"github.com/Apurer/storefront-api/internal/platform/migrations"
	platformredis "github.com/Apurer/storefront-api/internal/platform/redis"
	"github.com/Apurer/storefront-api/internal/platform/relational"
)

// Stores holds the repositories of every bounded context, all backed by the same store.
type Stores struct {
	Backend     Backend
	Products    catalogports.ProductRepository
	Categories  catalogports.CategoryRepository
	Users       userports.Repository
	Orders      orderports.Repository
	Idempotency orderports.IdempotencyStore
	// Ping reports store reachability for health checks. Nil for the memory backend.
	Ping func(ctx context.Context) error
}

// OpenStores connects the configured backend. A backend that cannot be reached falls back to memory
// with a warning so the API still boots locally. The returned cleanup releases every connection.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func()) {
	stores, cleanup, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Warn("store backend unavailable, falling back to memory",
			slog.String("backend", string(cfg.Backend)),
			slog.String("error", err.Error()),
		)
		stores, cleanup = memoryStores(cfg), func() {}
	}
	if cfg.RedisAddr == "" {
		return stores, cleanup
	}
	client, closeRedis, err := platformredis.Open(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, keeping backend idempotency store", slog.String("error", err.Error()))
		return stores, cleanup
	}
	logger.Info("idempotency keys stored in redis", slog.String("addr", cfg.RedisAddr))
	stores.Idempotency = ordersredis.NewIdempotencyStore(client, cfg.IdempotencyTTL)
	return stores, func() {
		closeRedis()
		cleanup()
	}
}

func openBackend(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	switch cfg.Backend {
	case BackendPostgres:
		return relationalStores(ctx, cfg, relational.DriverPostgres, cfg.PostgresDSN, logger)
	case BackendMySQL:
		return relationalStores(ctx, cfg, relational.DriverMySQL, cfg.MySQLDSN, logger)
	case BackendFirestore:
		return firestoreStores(ctx, cfg, logger)
	case BackendMemory, "":
		logger.Info("store backend configured with memory")
		return memoryStores(cfg), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

func memoryStores(cfg Config) *Stores {
	products := catalogmemory.NewProductRepository()
	return &Stores{
		Backend:     BackendMemory,
		Products:    products,
		Categories:  catalogmemory.NewCategoryRepository(),
		Users:       usermemory.NewRepository(),
		Orders:      ordersmemory.NewRepository(products),
		Idempotency: ordersmemory.NewIdempotencyStore(cfg.IdempotencyTTL),
	}
}

func relationalStores(ctx context.Context, cfg Config, driver relational.Driver, dsn string, logger *slog.Logger) (*Stores, func(), error) {
	db, cleanup, err := relational.Open(ctx, driver, dsn, logger)
	if err != nil {
		return nil, cleanup, err
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("migrate %s schema: %w", driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return &Stores{
		Backend:     cfg.Backend,
		Products:    catalogrelational.NewProductRepository(db),
		Categories:  catalogrelational.NewCategoryRepository(db),
		Users:       usersrelational.NewRepository(db),
		Orders:      ordersrelational.NewRepository(db),
		Idempotency: ordersrelational.NewIdempotencyStore(db, cfg.IdempotencyTTL),
		Ping:        sqlDB.PingContext,
	}, cleanup, nil
}

func firestoreStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	provider := platformfirestore.NewProvider(platformfirestore.Config{
		ProjectID:    cfg.FirestoreProjectID,
		EmulatorHost: cfg.FirestoreEmulatorHost,
	})
	if _, err := provider.Client(ctx); err != nil {
		_ = provider.Close()
		return nil, func() {}, err
	}
	logger.Info("store backend configured with firestore", slog.String("project", cfg.FirestoreProjectID))
	ping := func(ctx context.Context) error {
		_, err := provider.Client(ctx)
		return err
	}
	return &Stores{
		Backend:     BackendFirestore,
		Products:    catalogfirestore.NewProductRepository(provider),
		Categories:  catalogfirestore.NewCategoryRepository(provider),
		Users:       usersfirestore.NewRepository(provider),
		Orders:      ordersfirestore.NewRepository(provider),
		Idempotency: ordersfirestore.NewIdempotencyStore(provider, cfg.IdempotencyTTL),
		Ping:        ping,
	}, func() { _ = provider.Close() }, nil
}
