package alias

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	aliasdomain "github.com/wholesale/backend/internal/domain/alias"
)

// AdminService is the administrator surface over the alias table: reviewing
// accumulated signals and resolving them to canonical collections, or
// deferring the decision.
type AdminService struct {
	repo   aliasdomain.Repository
	cache  MappingCache
	logger *zap.Logger
}

// NewAdminService creates an alias administration service. cache may be nil.
func NewAdminService(repo aliasdomain.Repository, cache MappingCache, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ListSignals returns all mappings awaiting a decision, most seen first
func (s *AdminService) ListSignals(ctx context.Context) ([]aliasdomain.Mapping, error) {
	return s.repo.ListUnresolved(ctx)
}

// Assign resolves a signal to a canonical collection. The next sync run
// picks the mapping up immediately, so the cache entry is invalidated too.
func (s *AdminService) Assign(ctx context.Context, id uuid.UUID, canonicalID uuid.UUID) (*aliasdomain.Mapping, error) {
	mapping, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mapping.Assign(canonicalID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, mapping); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, mapping.RawValue)
	}

	s.logger.Info("Alias assigned",
		zap.String("raw_value", mapping.RawValue),
		zap.String("canonical_id", canonicalID.String()))
	return mapping, nil
}

// Defer postpones a signal with an optional note
func (s *AdminService) Defer(ctx context.Context, id uuid.UUID, note string) (*aliasdomain.Mapping, error) {
	mapping, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mapping.Defer(note); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}
