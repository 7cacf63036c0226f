package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProduct  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrPricePrecision  = errors.New("price must have at most 2 decimal places")
	ErrPriceMismatch   = errors.New("price differs from an earlier line for the same product")
	ErrLineNotFound    = errors.New("product is not in the cart")
)

// CartLine is one product a customer intends to buy, with the price and display data they saw.
type CartLine struct {
	ProductID int64
	Quantity  int64
	Price     decimal.Decimal
	Name      string
	Image     string
}

// Subtotal is quantity times unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

func (l CartLine) validate() error {
	if l.ProductID <= 0 {
		return ErrInvalidProduct
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if l.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !IsWholeCents(l.Price) {
		return ErrPricePrecision
	}
	return nil
}

// MoneyPlaces is the scale every stored and rendered amount uses.
const MoneyPlaces = 2

// IsWholeCents reports whether amount survives rounding to MoneyPlaces unchanged, so that
// subtotal = quantity × price still holds after storage.
func IsWholeCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(MoneyPlaces))
}

// Cart holds at most one line per product. Lines keep the order in which products were first added.
type Cart struct {
	lines map[int64]*CartLine
	order []int64
}

func NewCart() *Cart {
	return &Cart{lines: map[int64]*CartLine{}}
}

// Add inserts a line or merges its quantity into the existing line for the same product.
func (c *Cart) Add(line CartLine) error {
	if err := line.validate(); err != nil {
		return err
	}
	if existing, ok := c.lines[line.ProductID]; ok {
		if !existing.Price.Equal(line.Price) {
			return ErrPriceMismatch
		}
		existing.Quantity += line.Quantity
		return nil
	}
	clone := line
	c.lines[line.ProductID] = &clone
	c.order = append(c.order, line.ProductID)
	return nil
}

// Remove drops the product from the cart and reports whether it was present.
func (c *Cart) Remove(productID int64) bool {
	if _, ok := c.lines[productID]; !ok {
		return false
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// UpdateQuantity replaces the quantity of an existing line.
func (c *Cart) UpdateQuantity(productID, quantity int64) error {
	line, ok := c.lines[productID]
	if !ok {
		return ErrLineNotFound
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	line.Quantity = quantity
	return nil
}

func (c *Cart) Clear() {
	c.lines = map[int64]*CartLine{}
	c.order = nil
}

func (c *Cart) Len() int { return len(c.order) }

// Lines returns copies of the cart lines.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Total sums every line subtotal.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.order {
		total = total.Add(c.lines[id].Subtotal())
	}
	return total
}
