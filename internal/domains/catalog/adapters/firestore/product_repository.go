package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	pfirestore "github.com/Apurer/storefront-api/internal/platform/firestore"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository stores products as Firestore documents. Listing filters in process because
// Firestore has no substring match.
type ProductRepository struct {
	provider *pfirestore.Provider
}

func NewProductRepository(provider *pfirestore.Provider) *ProductRepository {
	return &ProductRepository{provider: provider}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	counter := pfirestore.NewCounter(client, ProductsCollection)

	var saved *domain.Product
	err = pfirestore.RunTransaction(ctx, client, func(ctx context.Context, tx *firestore.Transaction) error {
		clone := *product
		id, err := counter.Assign(tx, clone.ID)
		if err != nil {
			return err
		}
		clone.ID = id
		if err := tx.Create(client.Collection(ProductsCollection).Doc(DocID(clone.ID)), toProductDocument(&clone)); err != nil {
			return err
		}
		saved = &clone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Update replaces the whole product document, stock included.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	ref := client.Collection(ProductsCollection).Doc(DocID(product.ID))
	err = pfirestore.RunTransaction(ctx, client, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if pfirestore.IsNotFound(err) {
				return ports.ErrProductNotFound
			}
			return err
		}
		return tx.Set(ref, toProductDocument(product))
	})
	if err != nil {
		return nil, err
	}
	clone := *product
	return &clone, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := client.Collection(ProductsCollection).Doc(DocID(id)).Get(ctx)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return nil, ports.ErrProductNotFound
		}
		return nil, pfirestore.WrapError("products.get", err)
	}
	return decodeProduct(snapshot)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}
	_, err = client.Collection(ProductsCollection).Doc(DocID(id)).Delete(ctx, firestore.Exists)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return ports.ErrProductNotFound
		}
		return pfirestore.WrapError("products.delete", err)
	}
	return nil
}

func (r *ProductRepository) SetVisibility(ctx context.Context, id int64, hidden bool) (*domain.Product, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	ref := client.Collection(ProductsCollection).Doc(DocID(id))
	if _, err := ref.Update(ctx, []firestore.Update{{Path: "is_hidden", Value: hidden}}); err != nil {
		if pfirestore.IsNotFound(err) {
			return nil, ports.ErrProductNotFound
		}
		return nil, pfirestore.WrapError("products.visibility", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) List(ctx context.Context, query domain.ProductQuery) ([]*domain.Product, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	q := client.Collection(ProductsCollection).Query
	if query.CategoryID != nil {
		q = q.Where("category_id", "==", *query.CategoryID)
	}
	if !query.IncludeHidden {
		q = q.Where("is_hidden", "==", false)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	var products []*domain.Product
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("products.list", err)
		}
		product, err := decodeProduct(snapshot)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return query.Apply(products), nil
}

func (r *ProductRepository) client(ctx context.Context) (*firestore.Client, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("firestore product repository not initialised")
	}
	return r.provider.Client(ctx)
}

func decodeProduct(snapshot *firestore.DocumentSnapshot) (*domain.Product, error) {
	var doc productDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain()
}
