package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultGuardPrefix = "ocr:invoice:"

// RedisInvoiceGuard holds invoice fingerprints in Redis so that every
// instance behind a load balancer sees the same submissions
type RedisInvoiceGuard struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisInvoiceGuard creates a guard on an existing Redis client
func NewRedisInvoiceGuard(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisInvoiceGuard {
	if keyPrefix == "" {
		keyPrefix = defaultGuardPrefix
	}
	return &RedisInvoiceGuard{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Acquire uses SET NX with the TTL so concurrent submissions race on one key
func (g *RedisInvoiceGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.keyPrefix+key, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire invoice guard: %w", err)
	}
	return ok, nil
}

// Release deletes the key
func (g *RedisInvoiceGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release invoice guard: %w", err)
	}
	return nil
}
