package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrIdempotencyConflict indicates the same key was used with a different payload.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrIdempotencyInProgress indicates another request still holds the key.
	ErrIdempotencyInProgress = errors.New("idempotency key in progress")
)

// IdempotencyRecord ties a client-supplied key to the order it produced. OrderID is zero while
// the placement that claimed the key is still running.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
}

// Pending reports whether the record is a claim without a placed order yet.
func (r IdempotencyRecord) Pending() bool { return r.OrderID == 0 }

// IdempotencyStore persists idempotency keys so placement retries can be replayed safely. A key is
// claimed before the order is written and completed once it commits, so two requests racing on
// the same key never both place an order.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown or expired.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Claim inserts a pending record unless a live one exists. claimed is true when the caller now
	// owns the key. Otherwise the stored record is returned, together with ErrIdempotencyConflict
	// when its hash differs.
	Claim(ctx context.Context, key, requestHash string) (record *IdempotencyRecord, claimed bool, err error)
	// Complete attaches the committed order to a claim.
	Complete(ctx context.Context, claim IdempotencyRecord, orderID int64) error
	// Release drops a claim whose placement failed so the key can be retried.
	Release(ctx context.Context, claim IdempotencyRecord) error
}
