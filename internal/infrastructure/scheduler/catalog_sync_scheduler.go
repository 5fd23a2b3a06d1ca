package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// SyncStarter starts a catalog sync run
type SyncStarter interface {
	Start(ctx context.Context, trigger syncdomain.Trigger) (*syncdomain.Run, error)
}

// CatalogSyncSchedulerConfig holds configuration for the catalog sync scheduler
type CatalogSyncSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is the time between scheduled sync runs
	Interval time.Duration
}

// DefaultCatalogSyncSchedulerConfig returns default configuration
func DefaultCatalogSyncSchedulerConfig() CatalogSyncSchedulerConfig {
	return CatalogSyncSchedulerConfig{
		Enabled:  true,
		Interval: 6 * time.Hour,
	}
}

// CatalogSyncScheduler starts a catalog sync run on a fixed interval. A tick
// that lands while a run is still active is skipped and logged; runs are
// never queued.
type CatalogSyncScheduler struct {
	starter   SyncStarter
	logger    *zap.Logger
	config    CatalogSyncSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCatalogSyncScheduler creates a new catalog sync scheduler
func NewCatalogSyncScheduler(starter SyncStarter, logger *zap.Logger, config CatalogSyncSchedulerConfig) *CatalogSyncScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogSyncScheduler{
		starter: starter,
		logger:  logger,
		config:  config,
	}
}

// Start starts the scheduler loop
func (s *CatalogSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Catalog sync scheduler is disabled")
		return nil
	}
	if s.config.Interval <= 0 {
		s.mu.Unlock()
		return ErrInvalidConfig
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Catalog sync scheduler started",
		zap.Duration("interval", s.config.Interval))
	return nil
}

// Stop gracefully stops the scheduler
func (s *CatalogSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Catalog sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Catalog sync scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler is running
func (s *CatalogSyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// run is the ticker loop
func (s *CatalogSyncScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Catalog sync scheduler loop stopping")
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

// trigger starts one scheduled run, skipping when one is already active
func (s *CatalogSyncScheduler) trigger(ctx context.Context) {
	run, err := s.starter.Start(ctx, syncdomain.TriggerScheduled)
	if err != nil {
		if errors.Is(err, syncdomain.ErrRunInProgress) {
			s.logger.Info("Scheduled catalog sync skipped, a run is already active")
			return
		}
		s.logger.Error("Scheduled catalog sync failed to start", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled catalog sync started",
		zap.String("run_id", run.ID.String()))
}
