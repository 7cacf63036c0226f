package firestore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

const (
	ordersCollection      = "orders"
	orderItemsCollection  = "order_items"
	idempotencyCollection = "idempotency_keys"
)

type orderDocument struct {
	ID              int64     `firestore:"order_id"`
	UserID          int64     `firestore:"user_id"`
	OrderDate       time.Time `firestore:"order_date"`
	UpdatedAt       time.Time `firestore:"updated_at"`
	TotalAmount     string    `firestore:"total_amount"`
	Status          string    `firestore:"status"`
	CustomerName    string    `firestore:"customer_name"`
	CustomerPhone   string    `firestore:"customer_phone"`
	CustomerAddress string    `firestore:"customer_address"`
	Notes           string    `firestore:"notes"`
}

type orderItemDocument struct {
	ID           string `firestore:"order_item_id"`
	OrderID      int64  `firestore:"order_id"`
	ProductID    int64  `firestore:"product_id"`
	ProductName  string `firestore:"product_name"`
	ProductImage string `firestore:"product_image"`
	Price        string `firestore:"price"`
	Quantity     int64  `firestore:"quantity"`
	Subtotal     string `firestore:"subtotal"`
}

type stockDocument struct {
	Stock int64 `firestore:"stock"`
}

func toOrderDocument(o *domain.Order) orderDocument {
	return orderDocument{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderDate:       o.CreatedAt.UTC(),
		UpdatedAt:       o.UpdatedAt.UTC(),
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Status:          string(o.Status),
		CustomerName:    o.Shipping.RecipientName,
		CustomerPhone:   o.Shipping.Phone,
		CustomerAddress: o.Shipping.Address,
		Notes:           o.Shipping.Notes,
	}
}

func (d orderDocument) toDomain() (*domain.Order, error) {
	total, err := decimal.NewFromString(d.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("decode total of order %d: %w", d.ID, err)
	}
	return &domain.Order{
		ID:          d.ID,
		UserID:      d.UserID,
		Status:      domain.Status(d.Status),
		TotalAmount: total,
		Shipping: domain.Shipping{
			RecipientName: d.CustomerName,
			Phone:         d.CustomerPhone,
			Address:       d.CustomerAddress,
			Notes:         d.Notes,
		},
		CreatedAt: d.OrderDate.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func toItemDocument(item domain.OrderItem) orderItemDocument {
	return orderItemDocument{
		ID:           item.ID,
		OrderID:      item.OrderID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductImage: item.ProductImage,
		Price:        item.Price.StringFixed(2),
		Quantity:     item.Quantity,
		Subtotal:     item.Subtotal.StringFixed(2),
	}
}

func (d orderItemDocument) toDomain() (domain.OrderItem, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("decode price of item %s: %w", d.ID, err)
	}
	subtotal, err := decimal.NewFromString(d.Subtotal)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("decode subtotal of item %s: %w", d.ID, err)
	}
	return domain.OrderItem{
		ID:           d.ID,
		OrderID:      d.OrderID,
		ProductID:    d.ProductID,
		ProductName:  d.ProductName,
		ProductImage: d.ProductImage,
		Price:        price,
		Quantity:     d.Quantity,
		Subtotal:     subtotal,
	}, nil
}
