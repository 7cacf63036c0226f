package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Shipping holds the recipient details copied onto the order at checkout.
type Shipping struct {
	RecipientName string
	Phone         string
	Address       string
	Notes         string
}

// OrderItem fixes product identity, price and quantity at purchase time. It is never updated.
type OrderItem struct {
	ID           string
	OrderID      int64
	ProductID    int64
	ProductName  string
	ProductImage string
	Price        decimal.Decimal
	Quantity     int64
	Subtotal     decimal.Decimal
}

// Order is the purchase aggregate. Only Status and UpdatedAt change after creation.
type Order struct {
	ID          int64
	UserID      int64
	Status      Status
	TotalAmount decimal.Decimal
	Shipping    Shipping
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Draft is an unvalidated checkout request.
type Draft struct {
	UserID      int64
	TotalAmount *decimal.Decimal
	Shipping    Shipping
	Lines       []CartLine
}

// StockDemand is the quantity an order takes from one product.
type StockDemand struct {
	ProductID int64
	Quantity  int64
}

// NewOrder validates a draft and builds a pending order. Lines for the same product are merged,
// subtotals and the total are computed here and the claimed total must match the computed one.
func NewOrder(draft Draft, now time.Time) (*Order, error) {
	fields := fieldErrors{}
	if draft.UserID <= 0 {
		fields.add("user_id", "is required")
	}
	if draft.TotalAmount == nil {
		fields.add("total_amount", "is required")
	} else if !IsWholeCents(*draft.TotalAmount) {
		fields.add("total_amount", "must have at most 2 decimal places")
	}
	shipping := Shipping{
		RecipientName: strings.TrimSpace(draft.Shipping.RecipientName),
		Phone:         strings.TrimSpace(draft.Shipping.Phone),
		Address:       strings.TrimSpace(draft.Shipping.Address),
		Notes:         strings.TrimSpace(draft.Shipping.Notes),
	}
	if shipping.RecipientName == "" {
		fields.add("customer_name", "is required")
	}
	if shipping.Phone == "" {
		fields.add("customer_phone", "is required")
	}
	if shipping.Address == "" {
		fields.add("customer_address", "is required")
	}
	if len(draft.Lines) == 0 {
		fields.add("items", "must contain at least one item")
	}

	cart := NewCart()
	for i, line := range draft.Lines {
		if err := cart.Add(line); err != nil {
			fields.add(lineField(i, err), err.Error())
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	total := cart.Total()
	if !draft.TotalAmount.Equal(total) {
		fields.add("total_amount", fmt.Sprintf("does not match the item subtotals (%s)", total.String()))
		return nil, fields.err()
	}

	lines := cart.Lines()
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderItem{
			ProductID:    line.ProductID,
			ProductName:  strings.TrimSpace(line.Name),
			ProductImage: strings.TrimSpace(line.Image),
			Price:        line.Price,
			Quantity:     line.Quantity,
			Subtotal:     line.Subtotal(),
		})
	}
	now = now.UTC()
	return &Order{
		UserID:      draft.UserID,
		Status:      StatusPending,
		TotalAmount: total,
		Shipping:    shipping,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func lineField(index int, err error) string {
	var attr string
	switch err {
	case ErrInvalidProduct:
		attr = "product_id"
	case ErrInvalidQuantity:
		attr = "quantity"
	default:
		attr = "price"
	}
	return fmt.Sprintf("items[%d].%s", index, attr)
}

// ChangeStatus applies an admin transition allowed by the policy.
func (o *Order) ChangeStatus(policy StatusPolicy, to Status, now time.Time) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if policy == nil {
		policy = PermissivePolicy{}
	}
	if !policy.Allows(o.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrTransitionNotAllowed, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = now.UTC()
	return nil
}

// Cancel is the customer path: the requester must own the order and it must still be pending.
func (o *Order) Cancel(requesterID int64, now time.Time) error {
	if o.UserID != requesterID {
		return ErrNotOwner
	}
	if o.Status != StatusPending {
		return ErrNotCancellable
	}
	o.Status = StatusCancelled
	o.UpdatedAt = now.UTC()
	return nil
}

// StockDemand returns one entry per product in ascending product order, the lock order used by
// every backend.
func (o *Order) StockDemand() []StockDemand {
	byProduct := map[int64]int64{}
	for _, item := range o.Items {
		byProduct[item.ProductID] += item.Quantity
	}
	demand := make([]StockDemand, 0, len(byProduct))
	for id, qty := range byProduct {
		demand = append(demand, StockDemand{ProductID: id, Quantity: qty})
	}
	sort.Slice(demand, func(i, j int) bool { return demand[i].ProductID < demand[j].ProductID })
	return demand
}

// ItemsTotal recomputes the sum of persisted subtotals.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}
