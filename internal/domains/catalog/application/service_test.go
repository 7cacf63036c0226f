package application_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/storefront-api/internal/domains/catalog/application"
	types "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

func newService() *application.Service {
	return application.NewService(memory.NewProductRepository(), memory.NewCategoryRepository())
}

func seed(t *testing.T, svc *application.Service, name string, price int64, hidden bool) int64 {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), types.ProductInput{
		Name:   name,
		Price:  decimal.NewFromInt(price),
		Stock:  5,
		Hidden: hidden,
	})
	require.NoError(t, err)
	return p.ID
}

func TestListProducts_PriceRangeDescending(t *testing.T) {
	svc := newService()
	seed(t, svc, "Tote", 85000, false)
	wallet := seed(t, svc, "Wallet", 150000, false)
	holder := seed(t, svc, "Holder", 120000, false)
	seed(t, svc, "Backpack", 250000, false)

	minPrice := decimal.NewFromInt(100000)
	maxPrice := decimal.NewFromInt(200000)
	result, err := svc.ListProducts(context.Background(), types.ListProductsInput{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		SortBy:   "price",
		Order:    "DESC",
	})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, wallet, result[0].ID)
	assert.Equal(t, holder, result[1].ID)
}

func TestListProducts_HiddenRequiresFlag(t *testing.T) {
	svc := newService()
	seed(t, svc, "Visible", 10, false)
	hidden := seed(t, svc, "Secret", 10, true)

	visible, err := svc.ListProducts(context.Background(), types.ListProductsInput{})
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := svc.ListProducts(context.Background(), types.ListProductsInput{ShowHidden: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, hidden, all[1].ID)
}

func TestCreateProduct_InvalidInput(t *testing.T) {
	svc := newService()

	_, err := svc.CreateProduct(context.Background(), types.ProductInput{Name: "Mug", Price: decimal.NewFromInt(-5)})

	require.ErrorIs(t, err, application.ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), types.ProductInput{Name: "Mug", Price: decimal.RequireFromString("9.999")})
	require.ErrorIs(t, err, application.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrPricePrecision)
}

func TestUpdateProduct_KeepsImageAndReportsMissing(t *testing.T) {
	svc := newService()
	created, err := svc.CreateProduct(context.Background(), types.ProductInput{Name: "Mug", Price: decimal.NewFromInt(3), ImageRef: "mug.png"})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), created.ID, types.ProductInput{Name: "Big Mug", Price: decimal.NewFromInt(4), Stock: 9})
	require.NoError(t, err)
	assert.Equal(t, "mug.png", updated.ImageRef)
	assert.Equal(t, int64(9), updated.Stock)

	_, err = svc.UpdateProduct(context.Background(), 999, types.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestSetProductVisibility(t *testing.T) {
	svc := newService()
	id := seed(t, svc, "Lamp", 40, false)

	product, err := svc.SetProductVisibility(context.Background(), id, true)
	require.NoError(t, err)
	assert.True(t, product.Hidden)

	_, err = svc.SetProductVisibility(context.Background(), 404, true)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestCategories_CRUDWithoutCascade(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, types.CategoryInput{Name: "  "})
	require.ErrorIs(t, err, application.ErrInvalidInput)

	category, err := svc.CreateCategory(ctx, types.CategoryInput{Name: "Bags"})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, types.ProductInput{Name: "Tote", Price: decimal.NewFromInt(1), CategoryID: &category.ID})
	require.NoError(t, err)

	renamed, err := svc.UpdateCategory(ctx, category.ID, types.CategoryInput{Name: "Carry"})
	require.NoError(t, err)
	assert.Equal(t, "Carry", renamed.Name)

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, category.ID), ports.ErrCategoryNotFound)

	kept, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.CategoryID)
	assert.Equal(t, category.ID, *kept.CategoryID)
}
