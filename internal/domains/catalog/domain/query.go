package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortField names a sortable product attribute.
type SortField string

const (
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
	SortByStock SortField = "stock"
)

// SortOrder is the direction applied to SortField.
type SortOrder string

const (
	Ascending  SortOrder = "ASC"
	Descending SortOrder = "DESC"
)

// ParseSortField accepts name, product_name, price and stock. Unknown values yield "" so the
// caller falls back to identifier order.
func ParseSortField(raw string) SortField {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "name", "product_name":
		return SortByName
	case "price":
		return SortByPrice
	case "stock":
		return SortByStock
	default:
		return ""
	}
}

// ParseSortOrder defaults to ascending for anything but DESC.
func ParseSortOrder(raw string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(raw), string(Descending)) {
		return Descending
	}
	return Ascending
}

// ProductQuery filters and orders the product collection. All predicates are combined with AND.
type ProductQuery struct {
	Search        string
	CategoryID    *int64
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	IncludeHidden bool
	SortBy        SortField
	Order         SortOrder
}

// Matches reports whether a product satisfies every predicate of the query.
func (q ProductQuery) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	if p.Hidden && !q.IncludeHidden {
		return false
	}
	if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
		return false
	}
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	return true
}

// Apply filters products and sorts the survivors. The input slice is not modified.
func (q ProductQuery) Apply(products []*Product) []*Product {
	result := make([]*Product, 0, len(products))
	for _, p := range products {
		if q.Matches(p) {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	less := q.less()
	if less == nil {
		return result
	}
	sort.SliceStable(result, func(i, j int) bool {
		if q.Order == Descending {
			return less(result[j], result[i])
		}
		return less(result[i], result[j])
	})
	return result
}

func (q ProductQuery) less() func(a, b *Product) bool {
	switch q.SortBy {
	case SortByName:
		return func(a, b *Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortByPrice:
		return func(a, b *Product) bool { return a.Price.LessThan(b.Price) }
	case SortByStock:
		return func(a, b *Product) bool { return a.Stock < b.Stock }
	default:
		return nil
	}
}
