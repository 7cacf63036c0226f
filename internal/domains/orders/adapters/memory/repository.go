package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// StockLedger reserves product stock around a commit callback, all or nothing.
type StockLedger interface {
	ReserveStock(ctx context.Context, lines []catalogmemory.StockLine, commit func() error) error
}

// Repository is an in-memory order ledger. Order creation and stock decrements happen under the
// stock ledger's lock so they become visible together.
type Repository struct {
	stock  StockLedger
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository(stock StockLedger) *Repository {
	return &Repository{stock: stock, orders: map[int64]*domain.Order{}}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if r.stock == nil {
		return nil, errors.New("stock ledger not configured")
	}
	clone := cloneOrder(order)
	demand := clone.StockDemand()
	lines := make([]catalogmemory.StockLine, 0, len(demand))
	for _, d := range demand {
		lines = append(lines, catalogmemory.StockLine{ProductID: d.ProductID, Quantity: d.Quantity})
	}

	err := r.stock.ReserveStock(ctx, lines, func() error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.nextID++
		clone.ID = r.nextID
		for i := range clone.Items {
			clone.Items[i].OrderID = clone.ID
			clone.Items[i].ID = ulid.Make().String()
		}
		r.orders[clone.ID] = clone
		return nil
	})
	if err != nil {
		return nil, translateStockError(err)
	}
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		clone := *order
		clone.Items = nil
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, from, to domain.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	if order.Status != from {
		return ports.ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = at.UTC()
	return nil
}

func (r *Repository) ListItems(_ context.Context) ([]domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []domain.OrderItem
	for _, order := range r.orders {
		items = append(items, order.Items...)
	}
	return items, nil
}

func translateStockError(err error) error {
	var shortage *catalogports.StockShortageError
	if errors.As(err, &shortage) {
		return &ports.InsufficientStockError{ProductID: shortage.ProductID, Requested: shortage.Requested, Available: shortage.Available}
	}
	var missing *catalogports.MissingProductError
	if errors.As(err, &missing) {
		return &ports.ProductNotFoundError{ProductID: missing.ProductID}
	}
	return fmt.Errorf("reserve stock: %w", err)
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}
