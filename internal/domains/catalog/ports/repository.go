package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockShortageError reports the first product that could not cover a reservation.
type StockShortageError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("product %d has %d in stock, %d requested", e.ProductID, e.Available, e.Requested)
}

// Is lets callers match the shortage with errors.Is(err, ErrInsufficientStock).
func (e *StockShortageError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// MissingProductError names a product referenced by a reservation that does not exist.
type MissingProductError struct {
	ProductID int64
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *MissingProductError) Is(target error) bool {
	return target == ErrProductNotFound
}

// ProductRepository persists products. List applies the query on the storage side where possible.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	SetVisibility(ctx context.Context, id int64, hidden bool) (*domain.Product, error)
	List(ctx context.Context, query domain.ProductQuery) ([]*domain.Product, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Category, error)
}
