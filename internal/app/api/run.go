package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	storeserver "github.com/Apurer/storefront-api/go"

	"github.com/Apurer/storefront-api/internal/domains/media/adapters/localdisk"
	mediaapp "github.com/Apurer/storefront-api/internal/domains/media/application"
	mediadomain "github.com/Apurer/storefront-api/internal/domains/media/domain"
	ordersworkflows "github.com/Apurer/storefront-api/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, stores, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := OpenStores(ctx, cfg, logger)
	defer cleanupStores()
	services := BuildServices(stores, cfg, instruments)
	logger.Info("order status policy configured", slog.String("policy", cfg.StatusPolicy.Name()))

	if cfg.AdminUsername != "" {
		if _, err := services.Users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to provision admin account: %w", err)
		}
	}

	orderWorkflows, closeWorkflows := selectOrderWorkflows(stores.Backend, services.Orders, func() (client.Client, error) {
		return ConnectTemporal(cfg, instruments, "temporal-client")
	}, logger)
	defer closeWorkflows()

	imageStore, err := localdisk.NewStore(cfg.ImageDir)
	if err != nil {
		return fmt.Errorf("failed to prepare image directory: %w", err)
	}
	images := mediadomain.URLResolver{BaseURL: cfg.ImageBaseURL}

	handlers := storeserver.ApiHandleFunctions{
		OrderAPI:      storeserver.NewOrderAPI(services.Orders, orderWorkflows, images),
		CatalogAPI:    storeserver.NewCatalogAPI(services.Catalog, images),
		UserAPI:       storeserver.NewUserAPI(services.Users),
		MediaAPI:      storeserver.NewMediaAPI(mediaapp.NewService(imageStore, images)),
		StatisticsAPI: storeserver.NewStatisticsAPI(services.Statistics, images),
		HealthAPI:     storeserver.NewHealthAPI(stores.Ping),
	}
	storeserver.SetProblemLogger(logger)

	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := storeserver.NewRouterWithGinEngine(engine, handlers)
	router.Static(mediadomain.ImagePath, cfg.ImageDir)

	addr := ":" + cfg.Port
	logger.Info("Storefront API listening",
		slog.String("addr", addr),
		slog.String("backend", string(stores.Backend)),
	)
	if err := router.Run(addr); err != nil {
		logger.Error("Storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// selectOrderWorkflows places orders through Temporal when a shared store backs both the API and
// the worker. The memory backend lives inside each process, so placements stay inline there.
func selectOrderWorkflows(backend Backend, orders orderports.Service, dial func() (client.Client, error), logger *slog.Logger) (orderports.WorkflowOrchestrator, func()) {
	inline := ordersworkflows.NewInlineOrderWorkflows(orders)
	if backend == BackendMemory {
		logger.Info("Temporal workflows skipped, the memory backend is not shared with the worker")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return ordersworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}
