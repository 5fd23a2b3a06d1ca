package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// RunSummary is one run as shown to observers. Its status is the display
// status: a run abandoned mid-flight shows as timeout even though the
// persisted row still says started.
type RunSummary struct {
	ID              uuid.UUID
	Trigger         syncdomain.Trigger
	Status          syncdomain.Status
	StartedAt       time.Time
	CompletedAt     *time.Time
	FetchedCount    int
	WrittenCount    int
	SkippedCount    int
	FailedCount     int
	CurrentStep     string
	ProgressPercent int
	ErrorMessage    string
}

// PipelineStatus is the poll response for the sync pipeline
type PipelineStatus struct {
	// SyncInProgress is true while a run is genuinely active (not stale)
	SyncInProgress bool
	// LastRun summarizes the most recent run, nil when none has ever executed
	LastRun *RunSummary
}

// StatusService answers status polls without ever blocking the orchestrator
type StatusService struct {
	runRepo    syncdomain.RunRepository
	staleAfter time.Duration
}

// NewStatusService creates a run status reader
func NewStatusService(runRepo syncdomain.RunRepository, staleAfter time.Duration) *StatusService {
	return &StatusService{
		runRepo:    runRepo,
		staleAfter: staleAfter,
	}
}

// Status reports whether a sync is in progress plus the last run's summary
func (s *StatusService) Status(ctx context.Context) (*PipelineStatus, error) {
	latest, err := s.runRepo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, syncdomain.ErrRunNotFound) {
			return &PipelineStatus{}, nil
		}
		return nil, err
	}

	summary := s.summarize(latest)
	return &PipelineStatus{
		SyncInProgress: summary.Status == syncdomain.StatusStarted,
		LastRun:        summary,
	}, nil
}

// History returns the most recent runs, newest first
func (s *StatusService) History(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]RunSummary, 0, len(runs))
	for i := range runs {
		summaries = append(summaries, *s.summarize(&runs[i]))
	}
	return summaries, nil
}

func (s *StatusService) summarize(run *syncdomain.Run) *RunSummary {
	return &RunSummary{
		ID:              run.ID,
		Trigger:         run.Trigger,
		Status:          run.DisplayStatus(s.staleAfter, time.Now()),
		StartedAt:       run.StartedAt,
		CompletedAt:     run.CompletedAt,
		FetchedCount:    run.FetchedCount,
		WrittenCount:    run.WrittenCount,
		SkippedCount:    run.SkippedCount,
		FailedCount:     run.FailedCount,
		CurrentStep:     run.CurrentStep,
		ProgressPercent: run.ProgressPercent,
		ErrorMessage:    run.ErrorMessage,
	}
}
