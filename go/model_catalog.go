package storeserver

import "github.com/shopspring/decimal"

// Product is a catalog entry as listed to clients. ImageUrl is absolute.
type Product struct {
	ProductId          int64  `json:"product_id"`
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description"`
	Price              string `json:"price"`
	Stock              int64  `json:"stock"`
	ImageUrl           string `json:"image_url"`
	CategoryId         *int64 `json:"category_id"`
	IsHidden           bool   `json:"is_hidden"`
}

// ProductRequest is the admin create or full update payload.
type ProductRequest struct {
	ProductName        string          `json:"product_name"`
	ProductDescription string          `json:"product_description"`
	Price              decimal.Decimal `json:"price"`
	Stock              int64           `json:"stock"`
	ImageUrl           string          `json:"image_url"`
	CategoryId         *int64          `json:"category_id"`
	IsHidden           bool            `json:"is_hidden"`
}

// VisibilityRequest toggles product visibility.
type VisibilityRequest struct {
	IsHidden *bool `json:"is_hidden"`
}

// Category is a product grouping.
type Category struct {
	CategoryId   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	ImageUrl     string `json:"image_url,omitempty"`
}

// CategoryRequest is the admin create or update payload.
type CategoryRequest struct {
	CategoryName string `json:"category_name"`
	ImageUrl     string `json:"image_url"`
}

// CategoryCreated acknowledges a new category.
type CategoryCreated struct {
	Message    string `json:"message"`
	CategoryId int64  `json:"category_id"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
