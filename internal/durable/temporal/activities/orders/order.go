package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// PlaceOrderActivityName commits an order, its items and the stock decrements.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the placement transaction. Business rejections come back as non-retryable
// application errors; infrastructure failures stay retryable.
func (a *Activities) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.PlacementResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized", "userId", input.UserID)
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "userId", input.UserID, "lines", len(input.Items))
	result, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "userId", input.UserID, "error", err)
		return nil, EncodeError(err)
	}
	if result != nil && result.Order != nil {
		logger.Info("PlaceOrder activity completed", "orderId", result.Order.ID, "replayed", result.Replayed)
	}
	return result, nil
}
