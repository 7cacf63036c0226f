package ports

import (
	"context"

	types "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListProducts(ctx context.Context, input types.ListProductsInput) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, input types.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input types.ProductInput) (*domain.Product, error)
	SetProductVisibility(ctx context.Context, id int64, hidden bool) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, input types.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, input types.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}
