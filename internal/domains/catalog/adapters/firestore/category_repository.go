package firestore

import (
	"context"
	"errors"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	pfirestore "github.com/Apurer/storefront-api/internal/platform/firestore"
)

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

type CategoryRepository struct {
	provider *pfirestore.Provider
}

func NewCategoryRepository(provider *pfirestore.Provider) *CategoryRepository {
	return &CategoryRepository{provider: provider}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	counter := pfirestore.NewCounter(client, categoriesCollection)

	var saved *domain.Category
	err = pfirestore.RunTransaction(ctx, client, func(ctx context.Context, tx *firestore.Transaction) error {
		clone := *category
		id, err := counter.Assign(tx, clone.ID)
		if err != nil {
			return err
		}
		clone.ID = id
		if err := tx.Create(client.Collection(categoriesCollection).Doc(DocID(clone.ID)), toCategoryDocument(&clone)); err != nil {
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

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	ref := client.Collection(categoriesCollection).Doc(DocID(category.ID))
	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "category_name", Value: category.Name},
		{Path: "image", Value: category.ImageRef},
	})
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, pfirestore.WrapError("categories.update", err)
	}
	clone := *category
	return &clone, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := client.Collection(categoriesCollection).Doc(DocID(id)).Get(ctx)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, pfirestore.WrapError("categories.get", err)
	}
	var doc categoryDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}
	if _, err := client.Collection(categoriesCollection).Doc(DocID(id)).Delete(ctx, firestore.Exists); err != nil {
		if pfirestore.IsNotFound(err) {
			return ports.ErrCategoryNotFound
		}
		return pfirestore.WrapError("categories.delete", err)
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	iter := client.Collection(categoriesCollection).Documents(ctx)
	defer iter.Stop()

	var categories []*domain.Category
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("categories.list", err)
		}
		var doc categoryDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, err
		}
		categories = append(categories, doc.toDomain())
	}
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *CategoryRepository) client(ctx context.Context) (*firestore.Client, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("firestore category repository not initialised")
	}
	return r.provider.Client(ctx)
}
