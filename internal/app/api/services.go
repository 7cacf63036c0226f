package api

import (
	catalogobs "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/customers"
	ordersobs "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability"
	orderapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	statsobs "github.com/Apurer/storefront-api/internal/domains/statistics/adapters/observability"
	statsapp "github.com/Apurer/storefront-api/internal/domains/statistics/application"
	statsports "github.com/Apurer/storefront-api/internal/domains/statistics/ports"
	usersobs "github.com/Apurer/storefront-api/internal/domains/users/adapters/observability"
	userapp "github.com/Apurer/storefront-api/internal/domains/users/application"
	userports "github.com/Apurer/storefront-api/internal/domains/users/ports"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
)

// Services are the decorated application services of every bounded context.
type Services struct {
	Catalog    catalogports.Service
	Orders     orderports.Service
	Users      userports.Service
	Statistics statsports.Service
}

// BuildServices wires application services over the stores and wraps each in its observability decorator.
func BuildServices(stores *Stores, cfg Config, instruments *platformobservability.Instruments) *Services {
	logger := instruments.Logger
	return &Services{
		Catalog: catalogobs.New(
			catalogapp.NewService(stores.Products, stores.Categories),
			catalogobs.WithLogger(logger),
			catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
			catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
		),
		Orders: BuildOrderService(stores, cfg, instruments),
		Users: usersobs.New(
			userapp.NewService(stores.Users),
			usersobs.WithLogger(logger),
			usersobs.WithTracer(instruments.Tracer("internal.users.application")),
			usersobs.WithMeter(instruments.Meter("internal.users.application")),
		),
		Statistics: statsobs.New(
			statsapp.NewService(stores.Products, stores.Categories, stores.Users, stores.Orders),
			statsobs.WithLogger(logger),
			statsobs.WithTracer(instruments.Tracer("internal.statistics.application")),
			statsobs.WithMeter(instruments.Meter("internal.statistics.application")),
		),
	}
}

// BuildOrderService is shared by the API and the Temporal worker so both place orders identically.
func BuildOrderService(stores *Stores, cfg Config, instruments *platformobservability.Instruments) orderports.Service {
	core := orderapp.NewService(
		stores.Orders,
		orderapp.WithCustomerDirectory(customers.NewDirectory(stores.Users)),
		orderapp.WithIdempotencyStore(stores.Idempotency),
		orderapp.WithStatusPolicy(cfg.StatusPolicy),
	)
	return ordersobs.New(
		core,
		ordersobs.WithLogger(instruments.Logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
}
