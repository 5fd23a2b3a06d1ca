package alias

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	aliasdomain "github.com/wholesale/backend/internal/domain/alias"
)

// MappingCache caches resolved raw-value lookups in front of the mapping
// table. Implementations are best effort; a cache error never changes the
// resolution result.
type MappingCache interface {
	// Get returns the cached canonical ID for a raw value
	Get(ctx context.Context, rawValue string) (uuid.UUID, bool)
	// Set caches the canonical ID for a raw value
	Set(ctx context.Context, rawValue string, canonicalID uuid.UUID)
	// Invalidate drops the cached entry for a raw value
	Invalidate(ctx context.Context, rawValue string)
}

// Resolver performs name-exact alias resolution. A hit returns the canonical
// ID and bumps the observation count; a miss records an unmapped signal so
// the vocabulary is learned for later human mapping instead of silently
// dropped. No fuzzy matching happens here.
type Resolver struct {
	repo   aliasdomain.Repository
	cache  MappingCache
	logger *zap.Logger
}

// NewResolver creates an alias resolver. cache may be nil.
func NewResolver(repo aliasdomain.Repository, cache MappingCache, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Resolve maps one raw source value to its canonical ID. The lookup is
// case-sensitive and exact; observation bookkeeping is best effort and never
// changes the result.
func (r *Resolver) Resolve(ctx context.Context, rawValue string) (uuid.UUID, bool) {
	if rawValue == "" {
		return uuid.Nil, false
	}

	if r.cache != nil {
		if id, ok := r.cache.Get(ctx, rawValue); ok {
			// A cache hit is still a resolution; the observation count
			// and last-seen time must keep moving.
			if err := r.repo.RecordObservation(ctx, rawValue); err != nil {
				r.logger.Warn("Alias observation not saved", zap.String("raw_value", rawValue), zap.Error(err))
			}
			return id, true
		}
	}

	mapping, err := r.repo.FindMapped(ctx, rawValue)
	if err != nil {
		if !errors.Is(err, aliasdomain.ErrMappingNotFound) {
			r.logger.Error("Alias lookup failed", zap.String("raw_value", rawValue), zap.Error(err))
			return uuid.Nil, false
		}
		if err := r.repo.RecordSignal(ctx, rawValue); err != nil {
			r.logger.Error("Alias signal not recorded", zap.String("raw_value", rawValue), zap.Error(err))
		}
		return uuid.Nil, false
	}

	mapping.Observe()
	if err := r.repo.Save(ctx, mapping); err != nil {
		r.logger.Warn("Alias observation not saved", zap.String("raw_value", rawValue), zap.Error(err))
	}

	if r.cache != nil {
		r.cache.Set(ctx, rawValue, *mapping.CanonicalID)
	}
	return *mapping.CanonicalID, true
}
