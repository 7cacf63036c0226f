package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	userdomain "github.com/Apurer/storefront-api/internal/domains/users/domain"
)

const (
	// LowStockThreshold is the exclusive upper bound for the low stock list.
	LowStockThreshold = 10
	RecentOrdersLimit = 10
	TopProductsLimit  = 10
)

type ProductTotals struct {
	TotalProducts int64
	TotalStock    int64
}

type UserTotals struct {
	TotalUsers     int64
	TotalCustomers int64
	TotalAdmins    int64
}

type OrderTotals struct {
	TotalOrders   int64
	TotalRevenue  decimal.Decimal
	AvgOrderValue decimal.Decimal
	ByStatus      map[orderdomain.Status]int64
}

type RecentOrder struct {
	OrderID      int64
	OrderDate    time.Time
	TotalAmount  decimal.Decimal
	Status       orderdomain.Status
	Username     string
	CustomerName string
}

type LowStockProduct struct {
	ProductID   int64
	ProductName string
	Stock       int64
}

type TopProduct struct {
	ProductID    int64
	ProductName  string
	ImageRef     string
	TotalSold    int64
	TotalRevenue decimal.Decimal
}

// Report is the admin dashboard rollup. It is derived on demand and never stored.
type Report struct {
	Products         ProductTotals
	TotalCategories  int64
	Users            UserTotals
	Orders           OrderTotals
	RecentOrders     []RecentOrder
	LowStockProducts []LowStockProduct
	TopProducts      []TopProduct
}

// Snapshot is the raw data a report is computed from. Products include hidden ones.
type Snapshot struct {
	Products      []*catalogdomain.Product
	CategoryCount int64
	Users         []*userdomain.User
	Orders        []*orderdomain.Order
	Items         []orderdomain.OrderItem
}

// Aggregate computes the report from a snapshot.
func Aggregate(s Snapshot) Report {
	return Report{
		Products:         productTotals(s.Products),
		TotalCategories:  s.CategoryCount,
		Users:            userTotals(s.Users),
		Orders:           orderTotals(s.Orders),
		RecentOrders:     recentOrders(s.Orders, s.Users),
		LowStockProducts: lowStock(s.Products),
		TopProducts:      topProducts(s.Items, s.Products),
	}
}

func productTotals(products []*catalogdomain.Product) ProductTotals {
	var totals ProductTotals
	for _, p := range products {
		if p.Hidden {
			continue
		}
		totals.TotalProducts++
		totals.TotalStock += p.Stock
	}
	return totals
}

func userTotals(users []*userdomain.User) UserTotals {
	var totals UserTotals
	for _, u := range users {
		totals.TotalUsers++
		switch u.Role {
		case userdomain.RoleCustomer:
			totals.TotalCustomers++
		case userdomain.RoleAdmin:
			totals.TotalAdmins++
		}
	}
	return totals
}

func orderTotals(orders []*orderdomain.Order) OrderTotals {
	totals := OrderTotals{
		TotalRevenue:  decimal.Zero,
		AvgOrderValue: decimal.Zero,
		ByStatus:      make(map[orderdomain.Status]int64, len(orderdomain.Statuses())),
	}
	for _, status := range orderdomain.Statuses() {
		totals.ByStatus[status] = 0
	}
	for _, o := range orders {
		totals.TotalOrders++
		totals.TotalRevenue = totals.TotalRevenue.Add(o.TotalAmount)
		totals.ByStatus[o.Status]++
	}
	if totals.TotalOrders > 0 {
		totals.AvgOrderValue = totals.TotalRevenue.DivRound(decimal.NewFromInt(totals.TotalOrders), 2)
	}
	return totals
}

func recentOrders(orders []*orderdomain.Order, users []*userdomain.User) []RecentOrder {
	usernames := make(map[int64]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}
	sorted := append([]*orderdomain.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > RecentOrdersLimit {
		sorted = sorted[:RecentOrdersLimit]
	}
	recent := make([]RecentOrder, 0, len(sorted))
	for _, o := range sorted {
		recent = append(recent, RecentOrder{
			OrderID:      o.ID,
			OrderDate:    o.CreatedAt,
			TotalAmount:  o.TotalAmount,
			Status:       o.Status,
			Username:     usernames[o.UserID],
			CustomerName: o.Shipping.RecipientName,
		})
	}
	return recent
}

func lowStock(products []*catalogdomain.Product) []LowStockProduct {
	low := make([]LowStockProduct, 0)
	for _, p := range products {
		if p.Hidden || p.Stock >= LowStockThreshold {
			continue
		}
		low = append(low, LowStockProduct{ProductID: p.ID, ProductName: p.Name, Stock: p.Stock})
	}
	sort.SliceStable(low, func(i, j int) bool {
		if low[i].Stock != low[j].Stock {
			return low[i].Stock < low[j].Stock
		}
		return low[i].ProductID < low[j].ProductID
	})
	return low
}

// topProducts counts every item regardless of order status; items whose product was deleted drop
// out, matching an inner join on products.
func topProducts(items []orderdomain.OrderItem, products []*catalogdomain.Product) []TopProduct {
	byID := make(map[int64]*catalogdomain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	totals := map[int64]*TopProduct{}
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		entry, ok := totals[item.ProductID]
		if !ok {
			entry = &TopProduct{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ImageRef:     product.ImageRef,
				TotalRevenue: decimal.Zero,
			}
			totals[item.ProductID] = entry
		}
		entry.TotalSold += item.Quantity
		entry.TotalRevenue = entry.TotalRevenue.Add(item.Subtotal)
	}
	top := make([]TopProduct, 0, len(totals))
	for _, entry := range totals {
		top = append(top, *entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalSold != top[j].TotalSold {
			return top[i].TotalSold > top[j].TotalSold
		}
		return top[i].ProductID < top[j].ProductID
	})
	if len(top) > TopProductsLimit {
		top = top[:TopProductsLimit]
	}
	return top
}
