package dto

import (
	"time"

	syncapp "github.com/wholesale/backend/internal/application/sync"
)

// SyncRunResponse represents a single sync run in API responses
// @Description Summary of one catalog sync run
type SyncRunResponse struct {
	ID              string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Trigger         string  `json:"trigger" example:"manual"`
	Status          string  `json:"status" example:"COMPLETED"`
	StartedAt       string  `json:"started_at" example:"2026-01-23T12:00:00Z"`
	CompletedAt     *string `json:"completed_at,omitempty" example:"2026-01-23T12:04:31Z"`
	FetchedCount    int     `json:"fetched_count" example:"5200"`
	WrittenCount    int     `json:"written_count" example:"5100"`
	SkippedCount    int     `json:"skipped_count" example:"80"`
	FailedCount     int     `json:"failed_count" example:"20"`
	CurrentStep     string  `json:"current_step,omitempty" example:"transform"`
	ProgressPercent int     `json:"progress_percent" example:"100"`
	ErrorMessage    string  `json:"error_message,omitempty"`
}

// SyncStatusResponse is the poll response for the sync pipeline
// @Description Current pipeline state plus the most recent run, if any
type SyncStatusResponse struct {
	SyncInProgress bool             `json:"sync_in_progress"`
	LastRun        *SyncRunResponse `json:"last_run,omitempty"`
}

// SyncStartRequest holds optional scope overrides for a manually started run.
// An empty body starts the run with the configured extraction filter.
type SyncStartRequest struct {
	ProductStatus string `json:"product_status" binding:"omitempty,max=50" example:"ACTIVE"`
}

// SyncHistoryRequest holds query parameters for the run history endpoint
type SyncHistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// NewSyncRunResponse converts a run summary to its API representation
func NewSyncRunResponse(summary *syncapp.RunSummary) *SyncRunResponse {
	if summary == nil {
		return nil
	}
	resp := &SyncRunResponse{
		ID:              summary.ID.String(),
		Trigger:         string(summary.Trigger),
		Status:          string(summary.Status),
		StartedAt:       summary.StartedAt.UTC().Format(time.RFC3339),
		FetchedCount:    summary.FetchedCount,
		WrittenCount:    summary.WrittenCount,
		SkippedCount:    summary.SkippedCount,
		FailedCount:     summary.FailedCount,
		CurrentStep:     summary.CurrentStep,
		ProgressPercent: summary.ProgressPercent,
		ErrorMessage:    summary.ErrorMessage,
	}
	if summary.CompletedAt != nil {
		completed := summary.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}

// NewSyncStatusResponse converts a pipeline status to its API representation
func NewSyncStatusResponse(status *syncapp.PipelineStatus) SyncStatusResponse {
	return SyncStatusResponse{
		SyncInProgress: status.SyncInProgress,
		LastRun:        NewSyncRunResponse(status.LastRun),
	}
}
