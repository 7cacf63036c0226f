package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&userRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyRecord{},
	)
}

// Category schema mirrors the catalog relational adapter.
type categoryRecord struct {
	ID    int64  `gorm:"primaryKey;column:category_id"`
	Name  string `gorm:"column:category_name;size:255;not null"`
	Image string `gorm:"column:image;size:512"`
}

func (categoryRecord) TableName() string { return "categories" }

// Product schema mirrors the catalog relational adapter.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:product_id"`
	Name        string          `gorm:"column:product_name;size:255;not null"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(14,2);not null;index"`
	Stock       int64           `gorm:"column:stock;not null;default:0"`
	CategoryID  *int64          `gorm:"column:category_id;index"`
	Image       string          `gorm:"column:image;size:512"`
	Hidden      bool            `gorm:"column:is_hidden;not null;default:false"`
}

func (productRecord) TableName() string { return "products" }

// User schema mirrors the users relational adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:user_id"`
	Username     string    `gorm:"column:username;size:191;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	Email        string    `gorm:"column:email;size:255"`
	FullName     string    `gorm:"column:full_name;size:255"`
	Phone        string    `gorm:"column:phone;size:64"`
	Address      string    `gorm:"column:address;type:text"`
	Role         string    `gorm:"column:role;size:16;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userRecord) TableName() string { return "users" }

// Order schema mirrors the orders relational adapter.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:order_id"`
	UserID          int64           `gorm:"column:user_id;not null;index"`
	OrderDate       time.Time       `gorm:"column:order_date;not null;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;not null"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:decimal(14,2);not null"`
	Status          string          `gorm:"column:status;size:16;not null;index"`
	CustomerName    string          `gorm:"column:customer_name;size:255;not null"`
	CustomerPhone   string          `gorm:"column:customer_phone;size:64;not null"`
	CustomerAddress string          `gorm:"column:customer_address;type:text;not null"`
	Notes           string          `gorm:"column:notes;type:text"`
}

func (orderRecord) TableName() string { return "orders" }

// Order item schema mirrors the orders relational adapter.
type orderItemRecord struct {
	ID           string          `gorm:"primaryKey;column:order_item_id;size:26"`
	OrderID      int64           `gorm:"column:order_id;not null;index"`
	ProductID    int64           `gorm:"column:product_id;not null;index"`
	ProductName  string          `gorm:"column:product_name;size:255"`
	ProductImage string          `gorm:"column:product_image;size:512"`
	Price        decimal.Decimal `gorm:"column:price;type:decimal(14,2);not null"`
	Quantity     int64           `gorm:"column:quantity;not null"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:decimal(14,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Idempotency schema mirrors the orders idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:idempotency_key;size:191"`
	RequestHash string    `gorm:"column:request_hash;size:64;not null"`
	OrderID     int64     `gorm:"column:order_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index"`
}

func (idempotencyRecord) TableName() string { return "idempotency_keys" }
