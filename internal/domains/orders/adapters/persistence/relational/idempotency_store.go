package relational

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

const maxClaimAttempts = 3

// IdempotencyStore persists placement keys in the relational store.
type IdempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewIdempotencyStore wires a GORM-backed idempotency store. Keys older than ttl are treated as
// absent; a non-positive ttl keeps them until purged.
func NewIdempotencyStore(db *gorm.DB, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{db: db, ttl: ttl, now: time.Now}
}

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:idempotency_key"`
	RequestHash string    `gorm:"column:request_hash"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (idempotencyRecord) TableName() string { return "idempotency_keys" }

// Get loads a live record by key, returning nil when absent or expired.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	tx := s.db.WithContext(ctx).Where("idempotency_key = ?", key)
	if s.ttl > 0 {
		tx = tx.Where("created_at > ?", s.now().UTC().Add(-s.ttl))
	}
	if err := tx.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPortRecord(record), nil
}

// Claim inserts a pending row with ON CONFLICT DO NOTHING. A row that outlived the ttl but was not
// purged yet is taken over with a conditional update, so only one claimer wins it.
func (s *IdempotencyStore) Claim(ctx context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	if err := s.ensureDB(); err != nil {
		return nil, false, err
	}
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		pending := idempotencyRecord{Key: key, RequestHash: requestHash, CreatedAt: s.now().UTC()}
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&pending)
		if res.Error != nil {
			return nil, false, res.Error
		}
		if res.RowsAffected == 1 {
			return toPortRecord(pending), true, nil
		}

		existing, err := s.Get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			if existing.RequestHash != requestHash {
				return existing, false, ports.ErrIdempotencyConflict
			}
			return existing, false, nil
		}
		if s.ttl <= 0 {
			continue
		}
		takeover := s.db.WithContext(ctx).Model(&idempotencyRecord{}).
			Where("idempotency_key = ? AND created_at <= ?", key, pending.CreatedAt.Add(-s.ttl)).
			Updates(map[string]any{"request_hash": requestHash, "order_id": 0, "created_at": pending.CreatedAt})
		if takeover.Error != nil {
			return nil, false, takeover.Error
		}
		if takeover.RowsAffected == 1 {
			return toPortRecord(pending), true, nil
		}
	}
	return nil, false, ports.ErrIdempotencyInProgress
}

// Complete stores the order id on a pending claim.
func (s *IdempotencyStore) Complete(ctx context.Context, claim ports.IdempotencyRecord, orderID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&idempotencyRecord{}).
		Where("idempotency_key = ? AND request_hash = ? AND order_id = 0", claim.Key, claim.RequestHash).
		Update("order_id", orderID).Error
}

// Release deletes a pending claim so the key can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, claim ports.IdempotencyRecord) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("idempotency_key = ? AND request_hash = ? AND order_id = 0", claim.Key, claim.RequestHash).
		Delete(&idempotencyRecord{}).Error
}

// PurgeExpired deletes keys created before the cutoff and reports how many were removed.
func (s *IdempotencyStore) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("created_at < ?", before.UTC()).Delete(&idempotencyRecord{})
	return res.RowsAffected, res.Error
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("relational idempotency store not configured")
	}
	return nil
}

func toPortRecord(rec idempotencyRecord) *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		OrderID:     rec.OrderID,
		CreatedAt:   rec.CreatedAt,
	}
}
