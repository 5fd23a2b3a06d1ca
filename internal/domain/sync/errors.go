package sync

import "errors"

// Sync domain errors
var (
	// ErrRunNotFound indicates the requested sync run does not exist
	ErrRunNotFound = errors.New("sync: run not found")
	// ErrRunInProgress indicates a run is already active; only one run may
	// hold the started status process-wide
	ErrRunInProgress = errors.New("sync: a run is already in progress")
	// ErrNoActiveRun indicates no run is currently active
	ErrNoActiveRun = errors.New("sync: no active run")
	// ErrRunAlreadyTerminal indicates a transition out of a terminal status
	ErrRunAlreadyTerminal = errors.New("sync: run is already in a terminal status")
	// ErrRunInvalidTrigger indicates an unknown trigger type
	ErrRunInvalidTrigger = errors.New("sync: invalid run trigger")
	// ErrExtractionFailed indicates the bulk extraction reported a terminal
	// failure; the platform's message is surfaced verbatim
	ErrExtractionFailed = errors.New("sync: bulk extraction failed")
	// ErrExtractionTimeout indicates the polling wait budget was exceeded.
	// Distinct from ErrExtractionFailed: the outcome is unknown rather than
	// known-bad, so operators retry instead of investigating.
	ErrExtractionTimeout = errors.New("sync: bulk extraction timed out")
)
