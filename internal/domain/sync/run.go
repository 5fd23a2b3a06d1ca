package sync

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Run Types
// ---------------------------------------------------------------------------

// Trigger identifies what started a sync run
type Trigger string

const (
	// TriggerScheduled means the run was started by the scheduler
	TriggerScheduled Trigger = "SCHEDULED"
	// TriggerManual means the run was started by an operator
	TriggerManual Trigger = "MANUAL"
	// TriggerWebhook means the run was started by a source webhook
	TriggerWebhook Trigger = "WEBHOOK"
)

// IsValid returns true if the trigger is known
func (t Trigger) IsValid() bool {
	switch t {
	case TriggerScheduled, TriggerManual, TriggerWebhook:
		return true
	default:
		return false
	}
}

// String returns the string representation of Trigger
func (t Trigger) String() string {
	return string(t)
}

// Status is the lifecycle state of a sync run
type Status string

const (
	// StatusStarted means the run is executing
	StatusStarted Status = "STARTED"
	// StatusCompleted means the run finished and the catalog was committed
	StatusCompleted Status = "COMPLETED"
	// StatusFailed means the run hit an unrecoverable error
	StatusFailed Status = "FAILED"
	// StatusTimeout means the extraction wait budget was exceeded
	StatusTimeout Status = "TIMEOUT"
	// StatusCancelled means an operator cancelled the run
	StatusCancelled Status = "CANCELLED"
)

// IsTerminal returns true for statuses a run can never leave
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimeout, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Run Entity
// ---------------------------------------------------------------------------

// Run records one execution of the catalog sync pipeline. It is created at
// run start, mutated by the orchestrator as phases progress, and becomes
// terminal exactly once.
type Run struct {
	// ID is the unique identifier of the run
	ID uuid.UUID
	// Trigger is what started this run
	Trigger Trigger
	// Status is the current lifecycle state
	Status Status
	// StartedAt is when the run started
	StartedAt time.Time
	// CompletedAt is when the run reached a terminal status
	CompletedAt *time.Time
	// FetchedCount is the number of raw records received from the source
	FetchedCount int
	// WrittenCount is the number of SKUs committed to the catalog
	WrittenCount int
	// SkippedCount is the number of records rejected by filters or skipped
	// as malformed
	SkippedCount int
	// FailedCount is the number of records that errored during processing
	FailedCount int
	// CurrentStep is the pipeline phase currently executing
	CurrentStep string
	// ProgressPercent is a coarse progress indicator for pollers
	ProgressPercent int
	// ErrorMessage is the fatal error, if any, surfaced to operators
	ErrorMessage string
	// CreatedAt is when this row was created
	CreatedAt time.Time
	// UpdatedAt is when this row was last updated
	UpdatedAt time.Time
}

// NewRun creates a run in the started state
func NewRun(trigger Trigger) (*Run, error) {
	if !trigger.IsValid() {
		return nil, ErrRunInvalidTrigger
	}

	now := time.Now()
	return &Run{
		ID:          uuid.New(),
		Trigger:     trigger,
		Status:      StatusStarted,
		StartedAt:   now,
		CurrentStep: "initialize",
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetStep updates the current phase label and progress percentage
func (r *Run) SetStep(step string, percent int) {
	r.CurrentStep = step
	r.ProgressPercent = percent
	r.UpdatedAt = time.Now()
}

// Complete transitions the run to completed
func (r *Run) Complete() error {
	return r.finish(StatusCompleted, "")
}

// Fail transitions the run to failed with the fatal error message
func (r *Run) Fail(message string) error {
	return r.finish(StatusFailed, message)
}

// Timeout transitions the run to timeout. Timeout is kept distinct from
// failure: the external source was slow, not known-broken.
func (r *Run) Timeout(message string) error {
	return r.finish(StatusTimeout, message)
}

// Cancel transitions the run to cancelled
func (r *Run) Cancel() error {
	return r.finish(StatusCancelled, "")
}

// finish moves the run into a terminal status. Terminal statuses are
// absorbing: a second transition returns ErrRunAlreadyTerminal.
func (r *Run) finish(status Status, message string) error {
	if r.Status.IsTerminal() {
		return ErrRunAlreadyTerminal
	}
	now := time.Now()
	r.Status = status
	r.ErrorMessage = message
	r.CompletedAt = &now
	r.ProgressPercent = 100
	r.UpdatedAt = now
	return nil
}

// DisplayStatus returns the status observers should see. A run left
// non-terminal beyond the staleness window (orchestrator crashed mid-run)
// is displayed as timeout; the persisted row cannot self-correct.
func (r *Run) DisplayStatus(staleAfter time.Duration, now time.Time) Status {
	if !r.Status.IsTerminal() && now.Sub(r.StartedAt) > staleAfter {
		return StatusTimeout
	}
	return r.Status
}

// RecordsProcessed is the total number of raw records the run handled
func (r *Run) RecordsProcessed() int {
	return r.WrittenCount + r.SkippedCount + r.FailedCount
}
