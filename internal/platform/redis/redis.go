package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Open connects to Redis and verifies the connection with a short ping. The returned cleanup closes
// the client.
func Open(ctx context.Context, addr string) (*goredis.Client, func(), error) {
	if addr == "" {
		return nil, nil, errors.New("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, func() { _ = client.Close() }, nil
}
