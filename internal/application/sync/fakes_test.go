package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wholesale/backend/internal/domain/catalog"
	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// In-memory fakes shared by the tests in this package. The orchestrator
// mutates its run from a background goroutine, so the fakes are locked.
// ---------------------------------------------------------------------------

type fakeRunRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]syncdomain.Run
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[uuid.UUID]syncdomain.Run)}
}

func (r *fakeRunRepo) Save(_ context.Context, run *syncdomain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	return nil
}

func (r *fakeRunRepo) FindByID(_ context.Context, id uuid.UUID) (*syncdomain.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, syncdomain.ErrRunNotFound
	}
	return &run, nil
}

func (r *fakeRunRepo) FindActive(_ context.Context) (*syncdomain.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.Status == syncdomain.StatusStarted {
			active := run
			return &active, nil
		}
	}
	return nil, syncdomain.ErrRunNotFound
}

func (r *fakeRunRepo) FindLatest(_ context.Context) (*syncdomain.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *syncdomain.Run
	for _, run := range r.runs {
		run := run
		if latest == nil || run.StartedAt.After(latest.StartedAt) {
			latest = &run
		}
	}
	if latest == nil {
		return nil, syncdomain.ErrRunNotFound
	}
	return latest, nil
}

func (r *fakeRunRepo) ListRecent(_ context.Context, limit int) ([]syncdomain.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	runs := make([]syncdomain.Run, 0, len(r.runs))
	for _, run := range r.runs {
		runs = append(runs, run)
	}
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

type fakeRawRepo struct {
	mu      sync.Mutex
	records map[string]syncdomain.RawRecord
}

func newFakeRawRepo() *fakeRawRepo {
	return &fakeRawRepo{records: make(map[string]syncdomain.RawRecord)}
}

func (r *fakeRawRepo) Upsert(_ context.Context, record *syncdomain.RawRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.SourceID] = *record
	return nil
}

func (r *fakeRawRepo) FindAll(_ context.Context) ([]syncdomain.RawRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]syncdomain.RawRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	return records, nil
}

func (r *fakeRawRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *fakeRawRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]syncdomain.RawRecord)
	return nil
}

type fakeSKURepo struct {
	mu   sync.Mutex
	skus map[string]catalog.SKU
}

func newFakeSKURepo() *fakeSKURepo {
	return &fakeSKURepo{skus: make(map[string]catalog.SKU)}
}

func (r *fakeSKURepo) UpsertByCode(_ context.Context, sku *catalog.SKU) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skus[sku.Code] = *sku
	return nil
}

func (r *fakeSKURepo) FindByCode(_ context.Context, code string) (*catalog.SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sku, ok := r.skus[catalog.NormalizeCode(code)]
	if !ok {
		return nil, catalog.ErrSKUNotFound
	}
	return &sku, nil
}

func (r *fakeSKURepo) FindAll(_ context.Context) ([]catalog.SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	skus := make([]catalog.SKU, 0, len(r.skus))
	for _, sku := range r.skus {
		skus = append(skus, sku)
	}
	return skus, nil
}

func (r *fakeSKURepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.skus)), nil
}

type fakeCollectionRepo struct {
	mu          sync.Mutex
	collections map[uuid.UUID]catalog.Collection
}

func newFakeCollectionRepo() *fakeCollectionRepo {
	return &fakeCollectionRepo{collections: make(map[uuid.UUID]catalog.Collection)}
}

func (r *fakeCollectionRepo) Save(_ context.Context, collection *catalog.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[collection.ID] = *collection
	return nil
}

func (r *fakeCollectionRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	collection, ok := r.collections[id]
	if !ok {
		return nil, catalog.ErrCollectionNotFound
	}
	return &collection, nil
}

func (r *fakeCollectionRepo) FindByName(_ context.Context, name string) (*catalog.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, collection := range r.collections {
		if collection.Name == name {
			found := collection
			return &found, nil
		}
	}
	return nil, catalog.ErrCollectionNotFound
}

func (r *fakeCollectionRepo) FindAll(_ context.Context) ([]catalog.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	collections := make([]catalog.Collection, 0, len(r.collections))
	for _, collection := range r.collections {
		collections = append(collections, collection)
	}
	return collections, nil
}

// stubResolver resolves from a fixed table and records every value offered
type stubResolver struct {
	mu       sync.Mutex
	mappings map[string]uuid.UUID
	observed []string
}

func newStubResolver() *stubResolver {
	return &stubResolver{mappings: make(map[string]uuid.UUID)}
}

func (s *stubResolver) Resolve(_ context.Context, rawValue string) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed = append(s.observed, rawValue)
	id, ok := s.mappings[rawValue]
	return id, ok
}

// stubExtractor replays canned records and can fail or stall on demand.
// wrapCtxErr mimics the bulk client, which reports an interrupted request
// as a transport failure with the context error in the chain.
type stubExtractor struct {
	records    []syncdomain.RawRecord
	err        error
	block      chan struct{}
	wrapCtxErr bool
	lastFilter syncdomain.ExtractFilter
}

func (s *stubExtractor) Extract(ctx context.Context, filter syncdomain.ExtractFilter, fn func(*syncdomain.RawRecord) error) (*syncdomain.ExtractStats, error) {
	s.lastFilter = filter
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			if s.wrapCtxErr {
				return nil, fmt.Errorf("bulk API request failed: %w", ctx.Err())
			}
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	stats := &syncdomain.ExtractStats{}
	for i := range s.records {
		if err := fn(&s.records[i]); err != nil {
			return stats, err
		}
		stats.Fetched++
	}
	return stats, nil
}

// fakeBackupStore records snapshots so tests can inspect their contents
type fakeBackupStore struct {
	mu        sync.Mutex
	snapshots [][]catalog.SKU
	err       error
	pruned    int
}

func (b *fakeBackupStore) BackupCatalog(_ context.Context, skus []catalog.SKU) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	snapshot := make([]catalog.SKU, len(skus))
	copy(snapshot, skus)
	b.snapshots = append(b.snapshots, snapshot)
	return nil
}

func (b *fakeBackupStore) Prune(_ context.Context, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pruned++
	return nil
}

// waitForTerminal polls until the run leaves the started status
func waitForTerminal(t interface {
	Fatalf(format string, args ...interface{})
}, repo *fakeRunRepo, id uuid.UUID) *syncdomain.Run {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		run, err := repo.FindByID(context.Background(), id)
		if err == nil && run.Status.IsTerminal() {
			return run
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run %s never reached a terminal status", id)
	return nil
}
