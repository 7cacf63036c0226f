package relational

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/platform/relational"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the order ledger in PostgreSQL or MySQL using GORM. Caller manages the DB
// lifecycle and schema.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:order_id"`
	UserID          int64           `gorm:"column:user_id"`
	OrderDate       time.Time       `gorm:"column:order_date"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime:false"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:decimal(14,2)"`
	Status          string          `gorm:"column:status"`
	CustomerName    string          `gorm:"column:customer_name"`
	CustomerPhone   string          `gorm:"column:customer_phone"`
	CustomerAddress string          `gorm:"column:customer_address"`
	Notes           string          `gorm:"column:notes"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID           string          `gorm:"primaryKey;column:order_item_id"`
	OrderID      int64           `gorm:"column:order_id"`
	ProductID    int64           `gorm:"column:product_id"`
	ProductName  string          `gorm:"column:product_name"`
	ProductImage string          `gorm:"column:product_image"`
	Price        decimal.Decimal `gorm:"column:price;type:decimal(14,2)"`
	Quantity     int64           `gorm:"column:quantity"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:decimal(14,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type stockRow struct {
	ProductID int64 `gorm:"column:product_id"`
	Stock     int64 `gorm:"column:stock"`
}

// Create runs order insert, item insert and stock decrements in one transaction. Product rows are
// locked in ascending id order before the guarded decrement so concurrent placements queue instead
// of deadlocking.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	demand := order.StockDemand()
	record := toOrderRecord(order)
	var items []orderItemRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		available, err := lockProducts(tx, demand)
		if err != nil {
			return err
		}
		for _, d := range demand {
			stock, ok := available[d.ProductID]
			if !ok {
				return &ports.ProductNotFoundError{ProductID: d.ProductID}
			}
			if stock < d.Quantity {
				return &ports.InsufficientStockError{ProductID: d.ProductID, Requested: d.Quantity, Available: stock}
			}
		}

		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		items = toItemRecords(record.ID, order.Items)
		if len(items) > 0 {
			if err := tx.CreateInBatches(&items, 100).Error; err != nil {
				return fmt.Errorf("insert order items: %w", err)
			}
		}

		for _, d := range demand {
			res := tx.Table("products").
				Where("product_id = ? AND stock >= ?", d.ProductID, d.Quantity).
				Update("stock", gorm.Expr("stock - ?", d.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock for product %d: %w", d.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return &ports.InsufficientStockError{ProductID: d.ProductID, Requested: d.Quantity, Available: available[d.ProductID]}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	saved := record.toDomain()
	saved.Items = itemsToDomain(items)
	return saved, nil
}

func lockProducts(tx *gorm.DB, demand []domain.StockDemand) (map[int64]int64, error) {
	ids := make([]int64, 0, len(demand))
	for _, d := range demand {
		ids = append(ids, d.ProductID)
	}
	query := tx.Table("products").Select("product_id, stock")
	if relational.IsPostgres(tx) {
		query = query.Where("product_id = ANY(?)", pq.Array(ids))
	} else {
		query = query.Where("product_id IN ?", ids)
	}
	var rows []stockRow
	if err := query.Order("product_id ASC").
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	available := make(map[int64]int64, len(rows))
	for _, row := range rows {
		available[row.ProductID] = row.Stock
	}
	return available, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "order_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("product_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	order := record.toDomain()
	order.Items = itemsToDomain(items)
	return order, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&orderRecord{})
	if filter.UserID != nil {
		tx = tx.Where("user_id = ?", *filter.UserID)
	}
	var records []orderRecord
	if err := tx.Order("order_date DESC").Order("order_id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, record.toDomain())
	}
	return orders, nil
}

// UpdateStatus is a compare-and-set on the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.Status, at time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("order_id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": at.UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("order_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrStatusConflict
}

func (r *Repository) ListItems(ctx context.Context) ([]domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).Order("order_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(items), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("relational order repository not initialized")
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		OrderDate:       order.CreatedAt.UTC(),
		UpdatedAt:       order.UpdatedAt.UTC(),
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		CustomerName:    order.Shipping.RecipientName,
		CustomerPhone:   order.Shipping.Phone,
		CustomerAddress: order.Shipping.Address,
		Notes:           order.Shipping.Notes,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:          r.ID,
		UserID:      r.UserID,
		Status:      domain.Status(r.Status),
		TotalAmount: r.TotalAmount,
		Shipping: domain.Shipping{
			RecipientName: r.CustomerName,
			Phone:         r.CustomerPhone,
			Address:       r.CustomerAddress,
			Notes:         r.Notes,
		},
		CreatedAt: r.OrderDate.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func toItemRecords(orderID int64, items []domain.OrderItem) []orderItemRecord {
	records := make([]orderItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, orderItemRecord{
			ID:           ulid.Make().String(),
			OrderID:      orderID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			Price:        item.Price,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
		})
	}
	return records
}

func itemsToDomain(records []orderItemRecord) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(records))
	for _, r := range records {
		items = append(items, domain.OrderItem{
			ID:           r.ID,
			OrderID:      r.OrderID,
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			ProductImage: r.ProductImage,
			Price:        r.Price,
			Quantity:     r.Quantity,
			Subtotal:     r.Subtotal,
		})
	}
	return items
}
