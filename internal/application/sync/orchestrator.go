package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wholesale/backend/internal/domain/catalog"
	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// RecordExtractor pulls the filtered catalog from the external source and
// invokes the callback once per raw record.
type RecordExtractor interface {
	Extract(ctx context.Context, filter syncdomain.ExtractFilter, fn func(*syncdomain.RawRecord) error) (*syncdomain.ExtractStats, error)
}

// BackupStore archives catalog snapshots taken before a run rewrites them
type BackupStore interface {
	// BackupCatalog writes a snapshot of the current catalog
	BackupCatalog(ctx context.Context, skus []catalog.SKU) error
	// Prune removes snapshots older than the retention window
	Prune(ctx context.Context, retention time.Duration) error
}

// PostProcessHook runs after the catalog is committed. Hook failures are
// recorded but never revert a completed run; the catalog is already durable.
type PostProcessHook interface {
	Name() string
	AfterSync(ctx context.Context, run *syncdomain.Run) error
}

// Options tunes one orchestrator instance
type Options struct {
	// ProductStatus scopes extraction on the source side
	ProductStatus string
	// BatchSize is how many records are transformed between cancellation checks
	BatchSize int
	// BackupEnabled takes a catalog snapshot during the initialize phase
	BackupEnabled bool
	// BackupRetention is how long snapshots are kept
	BackupRetention time.Duration
	// SizeAliases maps raw size labels to canonical labels for snapshot ordering
	SizeAliases map[string]string
}

// Orchestrator owns the end-to-end catalog sync run: extraction, staging,
// transform, commit and run bookkeeping. At most one run executes at a time;
// a second start request is rejected without touching the active run.
type Orchestrator struct {
	runRepo     syncdomain.RunRepository
	rawRepo     syncdomain.RawRecordRepository
	skuRepo     catalog.SKURepository
	extractor   RecordExtractor
	transformer *Transformer
	backup      BackupStore
	hooks       []PostProcessHook
	options     Options
	sizeRanker  *catalog.SizeRanker
	logger      *zap.Logger

	mu        sync.Mutex
	cancelRun context.CancelFunc
	cancelled bool
	runFilter syncdomain.ExtractFilter
	wg        sync.WaitGroup
}

// NewOrchestrator creates a sync orchestrator. backup may be nil when
// snapshots are disabled.
func NewOrchestrator(
	runRepo syncdomain.RunRepository,
	rawRepo syncdomain.RawRecordRepository,
	skuRepo catalog.SKURepository,
	extractor RecordExtractor,
	transformer *Transformer,
	backup BackupStore,
	hooks []PostProcessHook,
	options Options,
	logger *zap.Logger,
) *Orchestrator {
	if options.BatchSize <= 0 {
		options.BatchSize = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		runRepo:     runRepo,
		rawRepo:     rawRepo,
		skuRepo:     skuRepo,
		extractor:   extractor,
		transformer: transformer,
		backup:      backup,
		hooks:       hooks,
		options:     options,
		sizeRanker:  catalog.NewSizeRanker(catalog.DefaultSizeOrder, options.SizeAliases),
		logger:      logger,
	}
}

// Start begins a new sync run scoped by the configured extraction filter.
func (o *Orchestrator) Start(ctx context.Context, trigger syncdomain.Trigger) (*syncdomain.Run, error) {
	return o.StartScoped(ctx, trigger, syncdomain.ExtractFilter{ProductStatus: o.options.ProductStatus})
}

// StartScoped begins a new sync run with an explicit extraction scope,
// overriding the configured filter for this run only. The run executes in
// the background and observers poll its status. ErrRunInProgress is returned
// while another run is active, leaving that run untouched.
func (o *Orchestrator) StartScoped(ctx context.Context, trigger syncdomain.Trigger, filter syncdomain.ExtractFilter) (*syncdomain.Run, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	active, err := o.runRepo.FindActive(ctx)
	if err != nil && !errors.Is(err, syncdomain.ErrRunNotFound) {
		return nil, err
	}
	if active != nil {
		return nil, syncdomain.ErrRunInProgress
	}

	run, err := syncdomain.NewRun(trigger)
	if err != nil {
		return nil, err
	}
	if err := o.runRepo.Save(ctx, run); err != nil {
		return nil, err
	}

	// The run outlives the start request, so it executes on a detached
	// context; cancellation goes through Cancel, not the caller's ctx.
	runCtx, cancel := context.WithCancel(context.Background())
	o.cancelRun = cancel
	o.cancelled = false
	o.runFilter = filter

	o.logger.Info("Sync run started",
		zap.String("run_id", run.ID.String()),
		zap.String("trigger", trigger.String()))

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer cancel()
		o.execute(runCtx, run)
	}()

	return run, nil
}

// Wait blocks until the active run goroutine, if any, has exited. Used
// during shutdown so run bookkeeping is flushed before the process exits.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Cancel requests cooperative cancellation of the active run. The run stops
// at the next batch boundary, never mid-record.
func (o *Orchestrator) Cancel(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.runRepo.FindActive(ctx); err != nil {
		if errors.Is(err, syncdomain.ErrRunNotFound) {
			return syncdomain.ErrNoActiveRun
		}
		return err
	}
	if o.cancelRun == nil {
		return syncdomain.ErrNoActiveRun
	}

	o.cancelled = true
	o.cancelRun()
	return nil
}

// execute drives the run through its phases and always leaves it terminal
func (o *Orchestrator) execute(ctx context.Context, run *syncdomain.Run) {
	if err := o.initialize(ctx, run); err != nil {
		o.finishWithError(run, err)
		return
	}
	if err := o.ingest(ctx, run); err != nil {
		o.finishWithError(run, err)
		return
	}
	if err := o.transform(ctx, run); err != nil {
		o.finishWithError(run, err)
		return
	}

	o.postProcess(ctx, run)

	if err := run.Complete(); err != nil {
		o.logger.Error("Run could not complete", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
	o.persist(run)

	o.logger.Info("Sync run completed",
		zap.String("run_id", run.ID.String()),
		zap.Int("fetched", run.FetchedCount),
		zap.Int("written", run.WrittenCount),
		zap.Int("skipped", run.SkippedCount),
		zap.Int("failed", run.FailedCount))
}

// initialize optionally snapshots the catalog before the run rewrites it.
// Snapshot failure fails the run: overwriting the only good copy of the
// catalog without a backup is worse than not syncing.
func (o *Orchestrator) initialize(ctx context.Context, run *syncdomain.Run) error {
	o.step(run, "initialize", 5)

	if !o.options.BackupEnabled || o.backup == nil {
		return nil
	}

	skus, err := o.skuRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	catalog.SortSKUs(skus, o.sizeRanker)
	if err := o.backup.BackupCatalog(ctx, skus); err != nil {
		return err
	}
	if o.options.BackupRetention > 0 {
		if err := o.backup.Prune(ctx, o.options.BackupRetention); err != nil {
			// Old snapshots piling up is not worth aborting the run over
			o.logger.Warn("Backup prune failed", zap.Error(err))
		}
	}
	return nil
}

// ingest extracts the source catalog into the raw staging store
func (o *Orchestrator) ingest(ctx context.Context, run *syncdomain.Run) error {
	o.step(run, "fetch", 15)

	if err := o.rawRepo.DeleteAll(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	filter := o.runFilter
	o.mu.Unlock()
	stats, err := o.extractor.Extract(ctx, filter, func(record *syncdomain.RawRecord) error {
		return o.rawRepo.Upsert(ctx, record)
	})
	if stats != nil {
		run.FetchedCount = stats.Fetched
		run.SkippedCount += stats.Skipped
	}
	if err != nil {
		return err
	}

	o.step(run, "ingest", 40)
	return nil
}

// transform converts staged records into catalog SKUs, batch by batch, with
// a cancellation check between batches.
func (o *Orchestrator) transform(ctx context.Context, run *syncdomain.Run) error {
	o.step(run, "transform", 50)

	records, err := o.rawRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(records); start += o.options.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + o.options.BatchSize
		if end > len(records) {
			end = len(records)
		}

		for i := start; i < end; i++ {
			o.processRecord(ctx, run, &records[i])
		}

		percent := 50 + 40*end/len(records)
		o.step(run, "transform", percent)
	}

	return nil
}

// processRecord transforms and commits one staged record, updating counters
func (o *Orchestrator) processRecord(ctx context.Context, run *syncdomain.Run, record *syncdomain.RawRecord) {
	sku, err := o.transformer.Transform(ctx, record)
	if err != nil {
		if IsRejection(err) {
			run.SkippedCount++
			o.logger.Debug("Record rejected",
				zap.String("source_id", record.SourceID),
				zap.String("reason", err.Error()))
			return
		}
		run.FailedCount++
		o.logger.Error("Record transform failed",
			zap.String("source_id", record.SourceID),
			zap.Error(err))
		return
	}

	if err := o.skuRepo.UpsertByCode(ctx, sku); err != nil {
		run.FailedCount++
		o.logger.Error("SKU upsert failed",
			zap.String("code", sku.Code),
			zap.Error(err))
		return
	}
	run.WrittenCount++
}

// postProcess invokes the registered hooks. The catalog is already durable,
// so hook failures are logged and counted, never fatal.
func (o *Orchestrator) postProcess(ctx context.Context, run *syncdomain.Run) {
	o.step(run, "post_process", 90)

	for _, hook := range o.hooks {
		if err := hook.AfterSync(ctx, run); err != nil {
			o.logger.Error("Post-processing hook failed",
				zap.String("hook", hook.Name()),
				zap.String("run_id", run.ID.String()),
				zap.Error(err))
		}
	}
}

// finishWithError maps a phase error onto the matching terminal status
func (o *Orchestrator) finishWithError(run *syncdomain.Run, err error) {
	o.mu.Lock()
	cancelled := o.cancelled
	o.mu.Unlock()

	var terminalErr error
	switch {
	case cancelled && errors.Is(err, context.Canceled):
		terminalErr = run.Cancel()
	case errors.Is(err, syncdomain.ErrExtractionTimeout):
		terminalErr = run.Timeout(err.Error())
	default:
		terminalErr = run.Fail(err.Error())
	}
	if terminalErr != nil {
		o.logger.Error("Run could not transition", zap.String("run_id", run.ID.String()), zap.Error(terminalErr))
	}

	o.persist(run)
	o.logger.Warn("Sync run ended early",
		zap.String("run_id", run.ID.String()),
		zap.String("status", run.Status.String()),
		zap.Error(err))
}

// step advances the run's phase label and persists it for pollers
func (o *Orchestrator) step(run *syncdomain.Run, name string, percent int) {
	run.SetStep(name, percent)
	o.persist(run)
}

// persist saves run progress on a fresh context so bookkeeping survives
// run-context cancellation.
func (o *Orchestrator) persist(run *syncdomain.Run) {
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.runRepo.Save(saveCtx, run); err != nil {
		o.logger.Error("Run save failed", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}
