package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/oklog/ulid/v2"
	"google.golang.org/api/iterator"

	catalogfirestore "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/firestore"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	pfirestore "github.com/Apurer/storefront-api/internal/platform/firestore"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the order ledger in Firestore. Placement runs in a single transaction that
// reads every product and the id counter before writing the order, its items and the new stock
// levels, so a concurrent placement touching the same products forces a retry.
type Repository struct {
	provider *pfirestore.Provider
}

func NewRepository(provider *pfirestore.Provider) *Repository {
	return &Repository{provider: provider}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	demand := order.StockDemand()
	counter := pfirestore.NewCounter(client, ordersCollection)
	products := client.Collection(catalogfirestore.ProductsCollection)

	var saved *domain.Order
	err = pfirestore.RunTransaction(ctx, client, func(ctx context.Context, tx *firestore.Transaction) error {
		current, err := counter.Read(tx)
		if err != nil {
			return err
		}
		refs := make([]*firestore.DocumentRef, len(demand))
		remaining := make([]int64, len(demand))
		for i, d := range demand {
			refs[i] = products.Doc(catalogfirestore.DocID(d.ProductID))
			snapshot, err := tx.Get(refs[i])
			if err != nil {
				if pfirestore.IsNotFound(err) {
					return &ports.ProductNotFoundError{ProductID: d.ProductID}
				}
				return err
			}
			var stock stockDocument
			if err := snapshot.DataTo(&stock); err != nil {
				return fmt.Errorf("decode stock of product %d: %w", d.ProductID, err)
			}
			if stock.Stock < d.Quantity {
				return &ports.InsufficientStockError{ProductID: d.ProductID, Requested: d.Quantity, Available: stock.Stock}
			}
			remaining[i] = stock.Stock - d.Quantity
		}

		placed := cloneOrder(order)
		placed.ID = current + 1
		for i := range placed.Items {
			placed.Items[i].ID = ulid.Make().String()
			placed.Items[i].OrderID = placed.ID
		}

		if err := counter.Write(tx, placed.ID); err != nil {
			return err
		}
		orderRef := client.Collection(ordersCollection).Doc(catalogfirestore.DocID(placed.ID))
		if err := tx.Create(orderRef, toOrderDocument(placed)); err != nil {
			return err
		}
		for _, item := range placed.Items {
			if err := tx.Create(client.Collection(orderItemsCollection).Doc(item.ID), toItemDocument(item)); err != nil {
				return err
			}
		}
		for i, ref := range refs {
			if err := tx.Update(ref, []firestore.Update{{Path: catalogfirestore.StockField, Value: remaining[i]}}); err != nil {
				return err
			}
		}
		saved = placed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := client.Collection(ordersCollection).Doc(catalogfirestore.DocID(id)).Get(ctx)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return nil, ports.ErrNotFound
		}
		return nil, pfirestore.WrapError("orders.get", err)
	}
	order, err := decodeOrder(snapshot)
	if err != nil {
		return nil, err
	}
	items, err := r.collectItems(ctx, client.Collection(orderItemsCollection).Where("order_id", "==", id).Documents(ctx))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	order.Items = items
	return order, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	query := client.Collection(ordersCollection).Query
	if filter.UserID != nil {
		query = query.Where("user_id", "==", *filter.UserID)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	var orders []*domain.Order
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("orders.list", err)
		}
		order, err := decodeOrder(snapshot)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.Status, at time.Time) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}
	ref := client.Collection(ordersCollection).Doc(catalogfirestore.DocID(id))
	return pfirestore.RunTransaction(ctx, client, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if err != nil {
			if pfirestore.IsNotFound(err) {
				return ports.ErrNotFound
			}
			return err
		}
		var doc orderDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return err
		}
		if doc.Status != string(from) {
			return ports.ErrStatusConflict
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "updated_at", Value: at.UTC()},
		})
	})
}

func (r *Repository) ListItems(ctx context.Context) ([]domain.OrderItem, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	items, err := r.collectItems(ctx, client.Collection(orderItemsCollection).Documents(ctx))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].OrderID < items[j].OrderID })
	return items, nil
}

func (r *Repository) collectItems(_ context.Context, iter *firestore.DocumentIterator) ([]domain.OrderItem, error) {
	defer iter.Stop()
	var items []domain.OrderItem
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return items, nil
		}
		if err != nil {
			return nil, pfirestore.WrapError("order_items.list", err)
		}
		var doc orderItemDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, err
		}
		item, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (r *Repository) client(ctx context.Context) (*firestore.Client, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("firestore order repository not initialised")
	}
	return r.provider.Client(ctx)
}

func decodeOrder(snapshot *firestore.DocumentSnapshot) (*domain.Order, error) {
	var doc orderDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain()
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}
