package storeserver

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	mediadomain "github.com/Apurer/storefront-api/internal/domains/media/domain"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// CatalogAPI implements the product and category sections.
type CatalogAPI struct {
	service catalogports.Service
	images  mediadomain.URLResolver
}

// NewCatalogAPI wires dependencies.
func NewCatalogAPI(service catalogports.Service, images mediadomain.URLResolver) CatalogAPI {
	return CatalogAPI{service: service, images: images}
}

// ListProductsParams are the catalog filters accepted on GET /products.
type ListProductsParams struct {
	Search     *string
	CategoryId *int64
	MinPrice   *string
	MaxPrice   *string
	SortBy     *string
	Order      *string
	ShowHidden *bool
}

// Get /products
// Filter, search and sort the catalog
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	params, err := bindListProductsParams(c.Request.URL.Query())
	if err != nil {
		badRequest(c, err)
		return
	}
	input, fields := toListProductsInput(params)
	if len(fields) > 0 {
		respondProblem(c, apierrors.NewValidationProblem(fields))
		return
	}
	products, err := api.service.ListProducts(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, api.toProduct(p))
	}
	c.JSON(http.StatusOK, out)
}

// Get /products/:id
// Find product by ID
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.toProduct(product))
}

// Post /products
// Add a product
func (api *CatalogAPI) CreateProduct(c *gin.Context) {
	var payload ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), toProductInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.toProduct(product))
}

// Put /products/:id
// Replace a product
func (api *CatalogAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), id, toProductInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.toProduct(product))
}

// Put /products/:id/visibility
// Hide or reveal a product
func (api *CatalogAPI) SetProductVisibility(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload VisibilityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if payload.IsHidden == nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"is_hidden": "is required"}))
		return
	}
	product, err := api.service.SetProductVisibility(c.Request.Context(), id, *payload.IsHidden)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.toProduct(product))
}

// Delete /products/:id
// Delete a product
func (api *CatalogAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "product deleted"})
}

// Get /categories
// List categories
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]Category, 0, len(categories))
	for _, cat := range categories {
		out = append(out, api.toCategory(cat))
	}
	c.JSON(http.StatusOK, out)
}

// Post /categories
// Add a category
func (api *CatalogAPI) CreateCategory(c *gin.Context) {
	var payload CategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	category, err := api.service.CreateCategory(c.Request.Context(), catalogtypes.CategoryInput{Name: payload.CategoryName, ImageRef: payload.ImageUrl})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CategoryCreated{Message: "category created", CategoryId: category.ID})
}

// Put /categories/:id
// Rename a category
func (api *CatalogAPI) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload CategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := api.service.UpdateCategory(c.Request.Context(), id, catalogtypes.CategoryInput{Name: payload.CategoryName, ImageRef: payload.ImageUrl}); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "category updated"})
}

// Delete /categories/:id
// Delete a category
func (api *CatalogAPI) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "category deleted"})
}

func bindListProductsParams(query url.Values) (ListProductsParams, error) {
	var params ListProductsParams
	bindings := []struct {
		name string
		dest any
	}{
		{"search", &params.Search},
		{"category_id", &params.CategoryId},
		{"min_price", &params.MinPrice},
		{"max_price", &params.MaxPrice},
		{"sort_by", &params.SortBy},
		{"order", &params.Order},
		{"showHidden", &params.ShowHidden},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			return ListProductsParams{}, err
		}
	}
	return params, nil
}

func toListProductsInput(params ListProductsParams) (catalogtypes.ListProductsInput, map[string]string) {
	fields := map[string]string{}
	input := catalogtypes.ListProductsInput{
		Search:     deref(params.Search),
		CategoryID: params.CategoryId,
		SortBy:     deref(params.SortBy),
		Order:      deref(params.Order),
	}
	if params.ShowHidden != nil {
		input.ShowHidden = *params.ShowHidden
	}
	input.MinPrice = parsePrice(params.MinPrice, "min_price", fields)
	input.MaxPrice = parsePrice(params.MaxPrice, "max_price", fields)
	return input, fields
}

func parsePrice(raw *string, field string, fields map[string]string) *decimal.Decimal {
	if raw == nil || *raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		fields[field] = fmt.Sprintf("%q is not a number", *raw)
		return nil
	}
	return &value
}

func toProductInput(payload ProductRequest) catalogtypes.ProductInput {
	return catalogtypes.ProductInput{
		Name:        payload.ProductName,
		Description: payload.ProductDescription,
		Price:       payload.Price,
		Stock:       payload.Stock,
		CategoryID:  payload.CategoryId,
		ImageRef:    payload.ImageUrl,
		Hidden:      payload.IsHidden,
	}
}

func (api *CatalogAPI) toProduct(p *catalogdomain.Product) Product {
	return Product{
		ProductId:          p.ID,
		ProductName:        p.Name,
		ProductDescription: p.Description,
		Price:              money(p.Price),
		Stock:              p.Stock,
		ImageUrl:           api.images.Resolve(p.ImageRef),
		CategoryId:         p.CategoryID,
		IsHidden:           p.Hidden,
	}
}

func (api *CatalogAPI) toCategory(cat *catalogdomain.Category) Category {
	return Category{
		CategoryId:   cat.ID,
		CategoryName: cat.Name,
		ImageUrl:     api.images.Resolve(cat.ImageRef),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
