package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrProductNotFound   = errors.New("ordered product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStatusConflict means the stored status no longer matches the expected one.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// InsufficientStockError names the product whose stock guard failed during placement.
type InsufficientStockError struct {
	ProductID int64 `json:"product_id"`
	Requested int64 `json:"requested"`
	Available int64 `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ProductNotFoundError names the missing product.
type ProductNotFoundError struct {
	ProductID int64 `json:"product_id"`
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// ListFilter narrows List. A nil UserID lists every order.
type ListFilter struct {
	UserID *int64
}

// Repository is the order ledger.
type Repository interface {
	// Create persists the order with its items and decrements stock for every item as one atomic
	// unit. It assigns the order identifier and item identifiers. Stock guard failures return
	// *InsufficientStockError, unknown products *ProductNotFoundError, and nothing is written.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// GetByID returns the order with its items.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// List returns orders newest first, without items.
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)
	// UpdateStatus sets status and updated_at only while the stored status equals from.
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status, at time.Time) error
	// ListItems returns every order item across all orders.
	ListItems(ctx context.Context) ([]domain.OrderItem, error)
}
