package application

import (
	"context"

	types "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
}

// NewService wires the catalog service with its repositories.
func NewService(products ports.ProductRepository, categories ports.CategoryRepository) *Service {
	return &Service{products: products, categories: categories}
}

// ListProducts filters the catalog. Hidden products are only returned when explicitly requested.
func (s *Service) ListProducts(ctx context.Context, input types.ListProductsInput) ([]*domain.Product, error) {
	if input.MinPrice != nil && input.MaxPrice != nil && input.MinPrice.GreaterThan(*input.MaxPrice) {
		return []*domain.Product{}, nil
	}
	query := domain.ProductQuery{
		Search:        input.Search,
		CategoryID:    input.CategoryID,
		MinPrice:      input.MinPrice,
		MaxPrice:      input.MaxPrice,
		IncludeHidden: input.ShowHidden,
		SortBy:        domain.ParseSortField(input.SortBy),
		Order:         domain.ParseSortOrder(input.Order),
	}
	products, err := s.products.List(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) CreateProduct(ctx context.Context, input types.ProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Description, input.Price, input.Stock, input.CategoryID, input.ImageRef)
	if err != nil {
		return nil, mapError(err)
	}
	product.SetVisibility(input.Hidden)
	saved, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProduct overwrites a product in place. The image reference is kept when the input omits it.
func (s *Service) UpdateProduct(ctx context.Context, id int64, input types.ProductInput) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	updated, err := domain.NewProduct(input.Name, input.Description, input.Price, input.Stock, input.CategoryID, input.ImageRef)
	if err != nil {
		return nil, mapError(err)
	}
	updated.ID = existing.ID
	if updated.ImageRef == "" {
		updated.ImageRef = existing.ImageRef
	}
	updated.SetVisibility(input.Hidden)
	saved, err := s.products.Update(ctx, updated)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) SetProductVisibility(ctx context.Context, id int64, hidden bool) (*domain.Product, error) {
	product, err := s.products.SetVisibility(ctx, id, hidden)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return mapError(s.products.Delete(ctx, id))
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, input types.CategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(input.Name, input.ImageRef)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, input types.CategoryInput) (*domain.Category, error) {
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := existing.Rename(input.Name); err != nil {
		return nil, mapError(err)
	}
	if input.ImageRef != "" {
		existing.ImageRef = input.ImageRef
	}
	saved, err := s.categories.Update(ctx, existing)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteCategory removes the category only; products keep their now dangling reference.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return mapError(s.categories.Delete(ctx, id))
}

var _ ports.Service = (*Service)(nil)
