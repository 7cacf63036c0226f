//go:build integration

package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	platformredis "github.com/Apurer/storefront-api/internal/platform/redis"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client, closeClient, err := platformredis.Open(ctx, addr)
	require.NoError(t, err)

	cleanup := func() {
		closeClient()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestIdempotencyStore_ClaimReplayAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(client, time.Hour)
	ctx := context.Background()

	claim, claimed, err := store.Claim(ctx, "checkout-1", "h1")
	require.NoError(t, err)
	require.True(t, claimed)
	assert.True(t, claim.Pending())

	inFlight, claimed, err := store.Claim(ctx, "checkout-1", "h1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.True(t, inFlight.Pending())

	require.NoError(t, store.Complete(ctx, *claim, 42))
	replay, claimed, err := store.Claim(ctx, "checkout-1", "h1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, int64(42), replay.OrderID)

	ttl, err := client.PTTL(ctx, keyPrefix+"checkout-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "completing a claim keeps its expiry")

	stored, _, err := store.Claim(ctx, "checkout-1", "h2")
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, int64(42), stored.OrderID)

	// Completed records survive a stray release.
	require.NoError(t, store.Release(ctx, *claim))
	got, err := store.Get(ctx, "checkout-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.OrderID)
}

func TestIdempotencyStore_ReleaseFreesKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(client, time.Hour)
	ctx := context.Background()

	claim, claimed, err := store.Claim(ctx, "retry", "h1")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, store.Release(ctx, *claim))

	_, claimed, err = store.Claim(ctx, "retry", "h2")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyStore_KeysExpire(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(client, 500*time.Millisecond)
	ctx := context.Background()

	claim, claimed, err := store.Claim(ctx, "short", "h1")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, store.Complete(ctx, *claim, 7))

	require.Eventually(t, func() bool {
		got, err := store.Get(ctx, "short")
		return err == nil && got == nil
	}, 5*time.Second, 50*time.Millisecond)

	_, claimed, err = store.Claim(ctx, "short", "h2")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyStore_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(client, time.Hour)
	ctx := context.Background()

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, claimed, err := store.Claim(ctx, "race", "h1")
			assert.NoError(t, err)
			if claimed {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}
