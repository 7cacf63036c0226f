package storeserver

import "github.com/shopspring/decimal"

// OrderItemRequest is one cart line in a placement request.
type OrderItemRequest struct {
	ProductId    int64           `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ProductName  string          `json:"product_name,omitempty"`
	ProductImage string          `json:"product_image,omitempty"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	UserId          int64              `json:"user_id"`
	TotalAmount     *decimal.Decimal   `json:"total_amount"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerAddress string             `json:"customer_address"`
	Notes           string             `json:"notes,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

// PlaceOrderResponse acknowledges a committed or replayed placement.
type PlaceOrderResponse struct {
	Message     string `json:"message"`
	OrderId     int64  `json:"order_id"`
	TotalAmount string `json:"total_amount"`
	Replayed    bool   `json:"replayed,omitempty"`
}

// Order is an order row joined with its owner's account.
type Order struct {
	OrderId         int64  `json:"order_id"`
	UserId          int64  `json:"user_id"`
	OrderDate       string `json:"order_date"`
	UpdatedAt       string `json:"updated_at"`
	TotalAmount     string `json:"total_amount"`
	Status          string `json:"status"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	Notes           string `json:"notes"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
}

// OrderItem is a persisted order line.
type OrderItem struct {
	OrderItemId  string `json:"order_item_id"`
	OrderId      int64  `json:"order_id"`
	ProductId    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image,omitempty"`
	Price        string `json:"price"`
	Quantity     int64  `json:"quantity"`
	Subtotal     string `json:"subtotal"`
}

// OrderDetail is an order with its items.
type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// UpdateStatusRequest is the admin status change payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CancelOrderRequest identifies the customer cancelling an order.
type CancelOrderRequest struct {
	UserId int64 `json:"user_id"`
}

// OrderStatusResponse acknowledges a status change.
type OrderStatusResponse struct {
	Message   string `json:"message"`
	OrderId   int64  `json:"order_id"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}
