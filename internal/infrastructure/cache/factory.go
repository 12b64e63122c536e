package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the cache-backed collaborators of the invoice processor
type Stores struct {
	Guard      Guard
	References ReferenceCache
	client     *redis.Client
	closers    []func() error
}

// Guard is the duplicate-submission store
type Guard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// ReferenceCache remembers master-data lookups by normalized match key
type ReferenceCache interface {
	Get(ctx context.Context, kind procurement.ReferenceKind, matchKey string) (uuid.UUID, bool, error)
	Set(ctx context.Context, kind procurement.ReferenceKind, matchKey string, key uuid.UUID) error
}

// Close releases the Redis client and stops background goroutines
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Factory creates stores based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	processing            config.ProcessingConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, processing config.ProcessingConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		processing:            processing,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// CreateStores builds the reference cache and, when enabled, the duplicate
// guard on the configured backend. With the redis backend it falls back to
// memory if Redis is unreachable and fallback is allowed.
func (f *Factory) CreateStores() (*Stores, error) {
	stores := &Stores{}

	if f.processing.CacheBackend == config.CacheBackendRedis {
		client, err := NewRedisClient(f.redisConfig)
		switch {
		case err == nil:
			f.logger.Info("using Redis reference cache", zap.String("addr", f.redisConfig.Addr()))
			stores.client = client
			stores.closers = append(stores.closers, client.Close)
		case !f.allowInMemoryFallback:
			return nil, fmt.Errorf("Redis required for cache backend but unavailable: %w", err)
		default:
			f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
				"Duplicate detection will not be shared between instances.",
				zap.Error(err),
			)
		}
	}

	if stores.client != nil {
		stores.References = NewRedisReferenceCache(stores.client, "", f.processing.CacheTTL)
	} else {
		stores.References = NewInMemoryReferenceCache(f.processing.CacheTTL)
	}

	if f.processing.DuplicateGuard {
		if stores.client != nil {
			stores.Guard = NewRedisInvoiceGuard(stores.client, "", f.processing.DuplicateTTL)
		} else {
			g := NewInMemoryInvoiceGuard(f.processing.DuplicateTTL)
			stores.Guard = g
			stores.closers = append(stores.closers, g.Close)
		}
	}
	return stores, nil
}
