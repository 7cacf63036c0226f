package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrNegativePrice     = errors.New("product price must not be negative")
	ErrPricePrecision    = errors.New("product price must have at most 2 decimal places")
	ErrNegativeStock     = errors.New("product stock must not be negative")
	ErrEmptyCategoryName = errors.New("category name is required")
)

// Product is the catalog item customers order. Stock is mutated by admins and by order placement.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  *int64
	ImageRef    string
	Hidden      bool
}

// NewProduct validates and constructs a Product. The identifier is assigned by the repository.
func NewProduct(name, description string, price decimal.Decimal, stock int64, categoryID *int64, imageRef string) (*Product, error) {
	product := &Product{
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Stock:       stock,
		CategoryID:  categoryID,
		ImageRef:    strings.TrimSpace(imageRef),
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces the product invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return ErrPricePrecision
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// SetVisibility hides or reveals the product in customer listings.
func (p *Product) SetVisibility(hidden bool) {
	p.Hidden = hidden
}

// Category groups products. Deleting one leaves product references dangling.
type Category struct {
	ID       int64
	Name     string
	ImageRef string
}

// NewCategory validates and constructs a Category.
func NewCategory(name, imageRef string) (*Category, error) {
	category := &Category{Name: strings.TrimSpace(name), ImageRef: strings.TrimSpace(imageRef)}
	if category.Name == "" {
		return nil, ErrEmptyCategoryName
	}
	return category, nil
}

// Rename replaces the category name.
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategoryName
	}
	c.Name = name
	return nil
}
