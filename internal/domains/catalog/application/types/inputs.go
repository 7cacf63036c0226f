package types

import "github.com/shopspring/decimal"

// ListProductsInput carries the raw catalog filters accepted from clients.
type ListProductsInput struct {
	Search     string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	ShowHidden bool
	SortBy     string
	Order      string
}

// ProductInput describes a product create or full update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  *int64
	ImageRef    string
	Hidden      bool
}

// CategoryInput describes a category create or update.
type CategoryInput struct {
	Name     string
	ImageRef string
}
