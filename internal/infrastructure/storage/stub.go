package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	syncapp "github.com/wholesale/backend/internal/application/sync"
	"github.com/wholesale/backend/internal/domain/catalog"
)

// Ensure StubBackupStore implements BackupStore
var _ syncapp.BackupStore = (*StubBackupStore)(nil)

// StubBackupStore is a no-op backup store for deployments without object
// storage. Every call logs a warning so a misconfigured production instance
// is visible.
type StubBackupStore struct {
	logger *zap.Logger
}

// NewStubBackupStore creates a no-op backup store
func NewStubBackupStore(logger *zap.Logger) *StubBackupStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubBackupStore{logger: logger}
}

// BackupCatalog discards the snapshot
func (s *StubBackupStore) BackupCatalog(_ context.Context, skus []catalog.SKU) error {
	s.logger.Warn("Object storage not configured, catalog snapshot discarded",
		zap.Int("skus", len(skus)))
	return nil
}

// Prune does nothing
func (s *StubBackupStore) Prune(context.Context, time.Duration) error {
	return nil
}
