package invoiceapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/shared"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaceholderResolver fabricates a fresh key for every identifier. It is used
// until master data is available; every resolution is flagged as a placeholder.
type PlaceholderResolver struct {
	keys *procurement.KeyGenerator
}

// NewPlaceholderResolver creates a PlaceholderResolver drawing keys from keys
func NewPlaceholderResolver(keys *procurement.KeyGenerator) *PlaceholderResolver {
	return &PlaceholderResolver{keys: keys}
}

// Resolve implements procurement.ReferenceResolver
func (r *PlaceholderResolver) Resolve(ctx context.Context, kind procurement.ReferenceKind, identifier string) (procurement.Resolution, error) {
	key, err := r.keys.UUID()
	if err != nil {
		return procurement.Resolution{}, fmt.Errorf("placeholder for %s: %w", kind, err)
	}
	return procurement.Resolution{Key: key, Placeholder: true}, nil
}

// ReferenceCache remembers successful master-data lookups by normalized match key
type ReferenceCache interface {
	Get(ctx context.Context, kind procurement.ReferenceKind, matchKey string) (uuid.UUID, bool, error)
	Set(ctx context.Context, kind procurement.ReferenceKind, matchKey string, key uuid.UUID) error
}

// LookupResolver resolves identifiers against master data using normalized
// exact matching. Misses fail with *procurement.ReferenceNotFoundError.
type LookupResolver struct {
	repo  procurement.ReferenceRepository
	cache ReferenceCache
}

// NewLookupResolver creates a LookupResolver. cache may be nil.
func NewLookupResolver(repo procurement.ReferenceRepository, cache ReferenceCache) *LookupResolver {
	return &LookupResolver{repo: repo, cache: cache}
}

// Resolve implements procurement.ReferenceResolver
func (r *LookupResolver) Resolve(ctx context.Context, kind procurement.ReferenceKind, identifier string) (procurement.Resolution, error) {
	if !kind.Valid() {
		return procurement.Resolution{}, fmt.Errorf("unknown reference kind %q", kind)
	}
	matchKey := procurement.NormalizeIdentifier(identifier)
	if matchKey == "" {
		return procurement.Resolution{}, &procurement.ReferenceNotFoundError{Kind: kind, Identifier: identifier}
	}

	if r.cache != nil {
		key, ok, err := r.cache.Get(ctx, kind, matchKey)
		switch {
		case err != nil:
			logger.L(ctx).Warn("reference cache read failed", zap.String("kind", string(kind)), zap.Error(err))
		case ok:
			return procurement.Resolution{Key: key}, nil
		}
	}

	key, err := r.repo.FindKey(ctx, kind, matchKey)
	if errors.Is(err, shared.ErrNotFound) {
		return procurement.Resolution{}, &procurement.ReferenceNotFoundError{Kind: kind, Identifier: identifier}
	}
	if err != nil {
		return procurement.Resolution{}, fmt.Errorf("lookup %s %q: %w", kind, identifier, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, kind, matchKey, key); err != nil {
			logger.L(ctx).Warn("reference cache write failed", zap.String("kind", string(kind)), zap.Error(err))
		}
	}
	return procurement.Resolution{Key: key}, nil
}
