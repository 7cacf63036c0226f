package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

const (
	keyPrefix        = "idem:orders:"
	maxClaimAttempts = 3
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps placement keys in Redis and lets the TTL expire them.
type IdempotencyStore struct {
	client goredis.Cmdable
	ttl    time.Duration
	now    func() time.Time
}

func NewIdempotencyStore(client goredis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl, now: time.Now}
}

type storedRecord struct {
	RequestHash string    `json:"request_hash"`
	OrderID     int64     `json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis idempotency store not configured")
	}
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var stored storedRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode idempotency record %q: %w", key, err)
	}
	return &ports.IdempotencyRecord{
		Key:         key,
		RequestHash: stored.RequestHash,
		OrderID:     stored.OrderID,
		CreatedAt:   stored.CreatedAt,
	}, nil
}

// Claim takes the key with SET NX. When another request already holds it, the stored record wins.
func (s *IdempotencyStore) Claim(ctx context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	if s == nil || s.client == nil {
		return nil, false, errors.New("redis idempotency store not configured")
	}
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		record := ports.IdempotencyRecord{Key: key, RequestHash: requestHash, CreatedAt: s.now().UTC()}
		payload, err := encode(record)
		if err != nil {
			return nil, false, err
		}
		ok, err := s.client.SetNX(ctx, keyPrefix+key, payload, s.ttl).Result()
		if err != nil {
			return nil, false, err
		}
		if ok {
			return &record, true, nil
		}
		existing, err := s.Get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			// Expired between SETNX and GET.
			continue
		}
		if existing.RequestHash != requestHash {
			return existing, false, ports.ErrIdempotencyConflict
		}
		return existing, false, nil
	}
	return nil, false, ports.ErrIdempotencyInProgress
}

// completeScript swaps a pending claim for the finished record, keeping the key's TTL.
var completeScript = goredis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then return 0 end
local current = cjson.decode(raw)
if current.order_id ~= 0 or current.request_hash ~= ARGV[1] then return 0 end
redis.call("SET", KEYS[1], ARGV[2], "KEEPTTL")
return 1
`)

// releaseScript deletes a claim that is still pending.
var releaseScript = goredis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then return 0 end
local current = cjson.decode(raw)
if current.order_id ~= 0 or current.request_hash ~= ARGV[1] then return 0 end
return redis.call("DEL", KEYS[1])
`)

func (s *IdempotencyStore) Complete(ctx context.Context, claim ports.IdempotencyRecord, orderID int64) error {
	if s == nil || s.client == nil {
		return errors.New("redis idempotency store not configured")
	}
	claim.OrderID = orderID
	payload, err := encode(claim)
	if err != nil {
		return err
	}
	swapped, err := completeScript.Run(ctx, s.client, []string{keyPrefix + claim.Key}, claim.RequestHash, payload).Int()
	if err != nil {
		return err
	}
	if swapped == 0 {
		// The claim expired mid-placement; record the outcome only if nobody took the key since.
		return s.client.SetNX(ctx, keyPrefix+claim.Key, payload, s.ttl).Err()
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, claim ports.IdempotencyRecord) error {
	if s == nil || s.client == nil {
		return errors.New("redis idempotency store not configured")
	}
	return releaseScript.Run(ctx, s.client, []string{keyPrefix + claim.Key}, claim.RequestHash).Err()
}

func encode(record ports.IdempotencyRecord) ([]byte, error) {
	return json.Marshal(storedRecord{
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   record.CreatedAt,
	})
}
