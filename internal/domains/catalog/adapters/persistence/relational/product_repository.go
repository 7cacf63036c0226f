package relational

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository persists products in PostgreSQL or MySQL using GORM. Caller manages the DB
// lifecycle and schema.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	res := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("product_id = ?", record.ID).
		Updates(map[string]any{
			"product_name": record.Name,
			"description":  record.Description,
			"price":        record.Price,
			"stock":        record.Stock,
			"category_id":  record.CategoryID,
			"image":        record.Image,
			"is_hidden":    record.Hidden,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ports.ErrProductNotFound
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&productRecord{}, "product_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) SetVisibility(ctx context.Context, id int64, hidden bool) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("product_id = ?", id).
		Update("is_hidden", hidden).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// List pushes every predicate and the ordering into SQL.
func (r *ProductRepository) List(ctx context.Context, query domain.ProductQuery) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&productRecord{})
	if !query.IncludeHidden {
		tx = tx.Where("is_hidden = ?", false)
	}
	if term := strings.ToLower(strings.TrimSpace(query.Search)); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		tx = tx.Where("(LOWER(product_name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", pattern, pattern)
	}
	if query.CategoryID != nil {
		tx = tx.Where("category_id = ?", *query.CategoryID)
	}
	if query.MinPrice != nil {
		tx = tx.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		tx = tx.Where("price <= ?", *query.MaxPrice)
	}
	if order := orderClause(query); order != "" {
		tx = tx.Order(order)
	}
	tx = tx.Order("product_id ASC")

	var records []productRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for _, record := range records {
		products = append(products, record.toDomain())
	}
	return products, nil
}

func orderClause(query domain.ProductQuery) string {
	var column string
	switch query.SortBy {
	case domain.SortByName:
		column = "LOWER(product_name)"
	case domain.SortByPrice:
		column = "price"
	case domain.SortByStock:
		column = "stock"
	default:
		return ""
	}
	if query.Order == domain.Descending {
		return column + " DESC"
	}
	return column + " ASC"
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func (r *ProductRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("relational product repository not initialized")
	}
	return nil
}
