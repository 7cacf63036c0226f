package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// CartLineInput is one requested product line.
type CartLineInput struct {
	ProductID    int64           `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
}

// PlaceOrderInput is the checkout command. IdempotencyKey is optional.
type PlaceOrderInput struct {
	UserID          int64            `json:"user_id"`
	TotalAmount     *decimal.Decimal `json:"total_amount"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerAddress string           `json:"customer_address"`
	Notes           string           `json:"notes"`
	Items           []CartLineInput  `json:"items"`
	IdempotencyKey  string           `json:"idempotency_key,omitempty"`
}

// PlacementResult is the created order. Replayed is set when an idempotency key matched an
// earlier placement.
type PlacementResult struct {
	Order    *domain.Order `json:"order"`
	Replayed bool          `json:"replayed"`
}

// ListOrdersInput scopes a listing. Admins see every order, everyone else only their own.
type ListOrdersInput struct {
	RequesterID *int64
	Role        string
}

// UpdateStatusInput is the admin status change.
type UpdateStatusInput struct {
	OrderID int64
	Status  string
}

// CancelOrderInput is the customer cancellation.
type CancelOrderInput struct {
	OrderID int64
	UserID  int64
}

// OrderView is an order joined with its owner's account data.
type OrderView struct {
	Order    *domain.Order
	Username string
	Email    string
}
