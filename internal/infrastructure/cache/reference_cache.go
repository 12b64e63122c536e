package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultReferencePrefix = "ocr:ref:"

type referenceKey struct {
	kind     procurement.ReferenceKind
	matchKey string
}

type referenceEntry struct {
	key       uuid.UUID
	expiresAt time.Time
}

// InMemoryReferenceCache keeps master-data lookups in process memory.
// Entries expire after the TTL; a TTL of zero keeps them forever.
type InMemoryReferenceCache struct {
	mu      sync.RWMutex
	entries map[referenceKey]referenceEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryReferenceCache creates an empty cache
func NewInMemoryReferenceCache(ttl time.Duration) *InMemoryReferenceCache {
	return &InMemoryReferenceCache{
		entries: make(map[referenceKey]referenceEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached key for (kind, matchKey)
func (c *InMemoryReferenceCache) Get(ctx context.Context, kind procurement.ReferenceKind, matchKey string) (uuid.UUID, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[referenceKey{kind, matchKey}]
	if !ok || (c.ttl > 0 && !c.now().Before(e.expiresAt)) {
		return uuid.Nil, false, nil
	}
	return e.key, true, nil
}

// Set stores key for (kind, matchKey)
func (c *InMemoryReferenceCache) Set(ctx context.Context, kind procurement.ReferenceKind, matchKey string, key uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[referenceKey{kind, matchKey}] = referenceEntry{key: key, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Size returns the number of cached entries, expired ones included
func (c *InMemoryReferenceCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisReferenceCache shares master-data lookups between instances
type RedisReferenceCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisReferenceCache creates a cache on an existing Redis client
func NewRedisReferenceCache(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisReferenceCache {
	if keyPrefix == "" {
		keyPrefix = defaultReferencePrefix
	}
	return &RedisReferenceCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RedisReferenceCache) key(kind procurement.ReferenceKind, matchKey string) string {
	return c.keyPrefix + string(kind) + ":" + matchKey
}

// Get returns the cached key for (kind, matchKey)
func (c *RedisReferenceCache) Get(ctx context.Context, kind procurement.ReferenceKind, matchKey string) (uuid.UUID, bool, error) {
	val, err := c.client.Get(ctx, c.key(kind, matchKey)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read reference cache: %w", err)
	}
	key, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt reference cache entry %q: %w", val, err)
	}
	return key, true, nil
}

// Set stores key for (kind, matchKey)
func (c *RedisReferenceCache) Set(ctx context.Context, kind procurement.ReferenceKind, matchKey string, key uuid.UUID) error {
	if err := c.client.Set(ctx, c.key(kind, matchKey), key.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write reference cache: %w", err)
	}
	return nil
}
