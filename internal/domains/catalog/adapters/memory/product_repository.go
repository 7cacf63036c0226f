package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// StockLine is a quantity to take from one product.
type StockLine struct {
	ProductID int64
	Quantity  int64
}

// ProductRepository is an in-memory product persistence adapter. It also serves as the stock
// ledger for in-memory order placement.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: map[int64]*domain.Product{}}
}

func (r *ProductRepository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *ProductRepository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[clone.ID]; !ok {
		return nil, ports.ErrProductNotFound
	}
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) SetVisibility(_ context.Context, id int64, hidden bool) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	product.SetVisibility(hidden)
	clone := *product
	return &clone, nil
}

func (r *ProductRepository) List(_ context.Context, query domain.ProductQuery) ([]*domain.Product, error) {
	r.mu.RLock()
	all := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		all = append(all, &clone)
	}
	r.mu.RUnlock()
	return query.Apply(all), nil
}

// ReserveStock checks every line against current stock, runs commit, and only then applies the
// decrements. Nothing changes when a line cannot be covered or commit fails. The catalog lock is
// held for the whole call so concurrent reservations on the same product are serialized.
func (r *ProductRepository) ReserveStock(ctx context.Context, lines []StockLine, commit func() error) error {
	ordered := append([]StockLine(nil), lines...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, line := range ordered {
		product, ok := r.products[line.ProductID]
		if !ok {
			return &ports.MissingProductError{ProductID: line.ProductID}
		}
		if product.Stock < line.Quantity {
			return &ports.StockShortageError{ProductID: line.ProductID, Requested: line.Quantity, Available: product.Stock}
		}
	}
	if commit != nil {
		if err := commit(); err != nil {
			return err
		}
	}
	for _, line := range ordered {
		r.products[line.ProductID].Stock -= line.Quantity
	}
	return nil
}
