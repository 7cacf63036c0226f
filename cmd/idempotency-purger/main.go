package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/storefront-api/internal/app/api"
	ordersrelational "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/relational"
	"github.com/Apurer/storefront-api/internal/platform/relational"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var driver relational.Driver
	dsn := cfg.PostgresDSN
	switch cfg.Backend {
	case api.BackendPostgres:
		driver = relational.DriverPostgres
	case api.BackendMySQL:
		driver, dsn = relational.DriverMySQL, cfg.MySQLDSN
	default:
		// Memory keys die with the process and redis/firestore keys expire on read or by TTL.
		log.Fatalf("STORE_BACKEND=%s has no relational idempotency table to purge", cfg.Backend)
	}

	db, cleanup, err := relational.Open(ctx, driver, dsn, logger)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", driver, err)
	}
	defer cleanup()

	cutoff := time.Now().Add(-cfg.IdempotencyTTL)
	store := ordersrelational.NewIdempotencyStore(db, cfg.IdempotencyTTL)
	removed, err := store.PurgeExpired(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge idempotency keys: %v", err)
	}
	logger.Info("idempotency purge completed", slog.Int64("removed", removed), slog.Time("cutoff", cutoff))
}
