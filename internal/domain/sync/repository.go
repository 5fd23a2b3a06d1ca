package sync

import (
	"context"

	"github.com/google/uuid"
)

// RunRepository defines the interface for persisting sync runs
type RunRepository interface {
	// Save creates or updates a run
	Save(ctx context.Context, run *Run) error

	// FindByID finds a run by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Run, error)

	// FindActive finds the run currently in the started status. Returns
	// ErrRunNotFound when no run is active.
	FindActive(ctx context.Context) (*Run, error)

	// FindLatest finds the most recently started run. Returns ErrRunNotFound
	// when no run has ever executed.
	FindLatest(ctx context.Context) (*Run, error)

	// ListRecent returns the most recent runs, newest first
	ListRecent(ctx context.Context, limit int) ([]Run, error)
}

// RawRecordRepository defines the interface for the raw staging store
type RawRecordRepository interface {
	// Upsert creates or replaces a staged record keyed by its source ID
	Upsert(ctx context.Context, record *RawRecord) error

	// FindAll returns all staged records
	FindAll(ctx context.Context) ([]RawRecord, error)

	// Count returns the number of staged records
	Count(ctx context.Context) (int64, error)

	// DeleteAll clears the staging store
	DeleteAll(ctx context.Context) error
}
