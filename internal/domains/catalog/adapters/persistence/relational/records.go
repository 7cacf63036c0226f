package relational

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

// productRecord maps the product aggregate to the products table.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:product_id"`
	Name        string          `gorm:"column:product_name"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(14,2)"`
	Stock       int64           `gorm:"column:stock"`
	CategoryID  *int64          `gorm:"column:category_id"`
	Image       string          `gorm:"column:image"`
	Hidden      bool            `gorm:"column:is_hidden"`
}

func (productRecord) TableName() string { return "products" }

type categoryRecord struct {
	ID    int64  `gorm:"primaryKey;column:category_id"`
	Name  string `gorm:"column:category_name"`
	Image string `gorm:"column:image"`
}

func (categoryRecord) TableName() string { return "categories" }

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Image:       p.ImageRef,
		Hidden:      p.Hidden,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ImageRef:    r.Image,
		Hidden:      r.Hidden,
	}
}

func toCategoryRecord(c *domain.Category) categoryRecord {
	return categoryRecord{ID: c.ID, Name: c.Name, Image: c.ImageRef}
}

func (r categoryRecord) toDomain() *domain.Category {
	return &domain.Category{ID: r.ID, Name: r.Name, ImageRef: r.Image}
}
