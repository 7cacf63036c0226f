package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps placement keys in process memory for development and tests.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewIdempotencyStore constructs an empty store. A non-positive ttl keeps keys forever.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		records: map[string]ports.IdempotencyRecord{},
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.lookup(key)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *IdempotencyStore) Claim(_ context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.lookup(key); ok {
		if existing.RequestHash != requestHash {
			return &existing, false, ports.ErrIdempotencyConflict
		}
		return &existing, false, nil
	}
	record := ports.IdempotencyRecord{Key: key, RequestHash: requestHash, CreatedAt: s.now().UTC()}
	s.records[key] = record
	return &record, true, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, claim ports.IdempotencyRecord, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[claim.Key]
	if !ok {
		// Expired mid-placement; record the outcome anyway.
		claim.OrderID = orderID
		claim.CreatedAt = s.now().UTC()
		s.records[claim.Key] = claim
		return nil
	}
	if !record.Pending() || record.RequestHash != claim.RequestHash {
		return nil
	}
	record.OrderID = orderID
	s.records[claim.Key] = record
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, claim ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[claim.Key]; ok && record.Pending() && record.RequestHash == claim.RequestHash {
		delete(s.records, claim.Key)
	}
	return nil
}

func (s *IdempotencyStore) lookup(key string) (ports.IdempotencyRecord, bool) {
	record, ok := s.records[key]
	if !ok {
		return ports.IdempotencyRecord{}, false
	}
	if s.ttl > 0 && s.now().Sub(record.CreatedAt) > s.ttl {
		delete(s.records, key)
		return ports.IdempotencyRecord{}, false
	}
	return record, true
}
