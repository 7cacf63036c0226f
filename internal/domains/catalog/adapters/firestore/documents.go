package firestore

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

const (
	// ProductsCollection holds one document per product, keyed by the decimal product id.
	ProductsCollection = "products"
	// StockField is the product document field decremented by order placement.
	StockField           = "stock"
	categoriesCollection = "categories"
)

type productDocument struct {
	ID          int64  `firestore:"product_id"`
	Name        string `firestore:"product_name"`
	Description string `firestore:"description"`
	Price       string `firestore:"price"`
	Stock       int64  `firestore:"stock"`
	CategoryID  *int64 `firestore:"category_id"`
	Image       string `firestore:"image"`
	Hidden      bool   `firestore:"is_hidden"`
}

type categoryDocument struct {
	ID    int64  `firestore:"category_id"`
	Name  string `firestore:"category_name"`
	Image string `firestore:"image"`
}

// DocID renders a numeric id as a document id.
func DocID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toProductDocument(p *domain.Product) productDocument {
	return productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Image:       p.ImageRef,
		Hidden:      p.Hidden,
	}
}

func (d productDocument) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("decode price of product %d: %w", d.ID, err)
	}
	return &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Stock:       d.Stock,
		CategoryID:  d.CategoryID,
		ImageRef:    d.Image,
		Hidden:      d.Hidden,
	}, nil
}

func toCategoryDocument(c *domain.Category) categoryDocument {
	return categoryDocument{ID: c.ID, Name: c.Name, Image: c.ImageRef}
}

func (d categoryDocument) toDomain() *domain.Category {
	return &domain.Category{ID: d.ID, Name: d.Name, ImageRef: d.Image}
}
