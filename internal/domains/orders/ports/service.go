package ports

import (
	"context"

	types "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
)

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error)
	ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*types.OrderView, error)
	GetOrder(ctx context.Context, id int64) (*types.OrderView, error)
	UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.OrderView, error)
	CancelOrder(ctx context.Context, input types.CancelOrderInput) (*types.OrderView, error)
}
