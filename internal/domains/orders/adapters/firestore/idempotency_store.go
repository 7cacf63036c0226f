package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	pfirestore "github.com/Apurer/storefront-api/internal/platform/firestore"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps placement keys as documents named by the key's hash, since client keys
// may contain characters Firestore rejects in document ids.
type IdempotencyStore struct {
	provider *pfirestore.Provider
	ttl      time.Duration
	now      func() time.Time
}

func NewIdempotencyStore(provider *pfirestore.Provider, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{provider: provider, ttl: ttl, now: time.Now}
}

type idempotencyDocument struct {
	Key         string    `firestore:"key"`
	RequestHash string    `firestore:"request_hash"`
	OrderID     int64     `firestore:"order_id"`
	CreatedAt   time.Time `firestore:"created_at"`
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	ref, err := s.ref(ctx, key)
	if err != nil {
		return nil, err
	}
	snapshot, err := ref.Get(ctx)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return nil, nil
		}
		return nil, pfirestore.WrapError("idempotency.get", err)
	}
	var doc idempotencyDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, err
	}
	if s.expired(doc) {
		return nil, nil
	}
	return doc.toRecord(), nil
}

// Claim creates a pending document in a transaction. An expired document is overwritten.
func (s *IdempotencyStore) Claim(ctx context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, false, err
	}
	ref := client.Collection(idempotencyCollection).Doc(docKey(key))
	var (
		result  *ports.IdempotencyRecord
		claimed bool
	)
	err = pfirestore.RunTransaction(ctx, client, func(ctx context.Context, tx *firestore.Transaction) error {
		claimed = false
		snapshot, err := tx.Get(ref)
		if err != nil && !pfirestore.IsNotFound(err) {
			return err
		}
		if err == nil {
			var existing idempotencyDocument
			if err := snapshot.DataTo(&existing); err != nil {
				return err
			}
			if !s.expired(existing) {
				result = existing.toRecord()
				return nil
			}
		}
		doc := idempotencyDocument{
			Key:         key,
			RequestHash: requestHash,
			CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
		}
		result = doc.toRecord()
		claimed = true
		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, false, err
	}
	if !claimed && result.RequestHash != requestHash {
		return result, false, ports.ErrIdempotencyConflict
	}
	return result, claimed, nil
}

// Complete stores the order id on the claim when it is still pending.
func (s *IdempotencyStore) Complete(ctx context.Context, claim ports.IdempotencyRecord, orderID int64) error {
	return s.updateClaim(ctx, claim, func(tx *firestore.Transaction, ref *firestore.DocumentRef) error {
		return tx.Update(ref, []firestore.Update{{Path: "order_id", Value: orderID}})
	})
}

// Release deletes the claim when it is still pending.
func (s *IdempotencyStore) Release(ctx context.Context, claim ports.IdempotencyRecord) error {
	return s.updateClaim(ctx, claim, func(tx *firestore.Transaction, ref *firestore.DocumentRef) error {
		return tx.Delete(ref)
	})
}

func (s *IdempotencyStore) updateClaim(ctx context.Context, claim ports.IdempotencyRecord, write func(*firestore.Transaction, *firestore.DocumentRef) error) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}
	ref := client.Collection(idempotencyCollection).Doc(docKey(claim.Key))
	return pfirestore.RunTransaction(ctx, client, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if err != nil {
			if pfirestore.IsNotFound(err) {
				return nil
			}
			return err
		}
		var doc idempotencyDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return err
		}
		if doc.OrderID != 0 || doc.RequestHash != claim.RequestHash {
			return nil
		}
		return write(tx, ref)
	})
}

func (s *IdempotencyStore) expired(doc idempotencyDocument) bool {
	return s.ttl > 0 && !s.now().Before(doc.CreatedAt.Add(s.ttl))
}

func (s *IdempotencyStore) ref(ctx context.Context, key string) (*firestore.DocumentRef, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(idempotencyCollection).Doc(docKey(key)), nil
}

func (s *IdempotencyStore) client(ctx context.Context) (*firestore.Client, error) {
	if s == nil || s.provider == nil {
		return nil, errors.New("firestore idempotency store not initialised")
	}
	return s.provider.Client(ctx)
}

func docKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (d idempotencyDocument) toRecord() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         d.Key,
		RequestHash: d.RequestHash,
		OrderID:     d.OrderID,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}
