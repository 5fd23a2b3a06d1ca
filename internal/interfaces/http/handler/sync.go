package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	syncapp "github.com/wholesale/backend/internal/application/sync"
	syncdomain "github.com/wholesale/backend/internal/domain/sync"
	"github.com/wholesale/backend/internal/interfaces/http/dto"
)

// SyncOrchestrator starts and cancels catalog sync runs
type SyncOrchestrator interface {
	Start(ctx context.Context, trigger syncdomain.Trigger) (*syncdomain.Run, error)
	StartScoped(ctx context.Context, trigger syncdomain.Trigger, filter syncdomain.ExtractFilter) (*syncdomain.Run, error)
	Cancel(ctx context.Context) error
}

// SyncStatusReader answers status and history queries
type SyncStatusReader interface {
	Status(ctx context.Context) (*syncapp.PipelineStatus, error)
	History(ctx context.Context, limit int) ([]syncapp.RunSummary, error)
}

// SyncHandler handles catalog sync API endpoints
type SyncHandler struct {
	BaseHandler
	orchestrator SyncOrchestrator
	status       SyncStatusReader
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(orchestrator SyncOrchestrator, status SyncStatusReader) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		status:       status,
	}
}

// Start godoc
// @ID           startSync
// @Summary      Start a catalog sync run
// @Description  Starts a full extract-transform-load run, optionally scoped by request-body filters. Rejected while another run is active.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        request body dto.SyncStartRequest false "Optional scope overrides"
// @Success      202 {object} APIResponse[dto.SyncRunResponse]
// @Failure      409 {object} ErrorResponse
// @Router       /sync/start [post]
func (h *SyncHandler) Start(c *gin.Context) {
	var req dto.SyncStartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid start request: "+err.Error())
			return
		}
	}

	var (
		run *syncdomain.Run
		err error
	)
	if req.ProductStatus != "" {
		filter := syncdomain.ExtractFilter{ProductStatus: req.ProductStatus}
		run, err = h.orchestrator.StartScoped(c.Request.Context(), syncdomain.TriggerManual, filter)
	} else {
		run, err = h.orchestrator.Start(c.Request.Context(), syncdomain.TriggerManual)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, runResponse(run))
}

// Cancel godoc
// @ID           cancelSync
// @Summary      Cancel the active sync run
// @Description  Requests cooperative cancellation of the active run. The run stops at the next batch boundary.
// @Tags         sync
// @Produce      json
// @Success      202 {object} SuccessResponse
// @Failure      409 {object} ErrorResponse
// @Router       /sync/cancel [post]
func (h *SyncHandler) Cancel(c *gin.Context) {
	if err := h.orchestrator.Cancel(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, gin.H{"cancelled": true})
}

// Status godoc
// @ID           getSyncStatus
// @Summary      Get sync pipeline status
// @Description  Returns whether a run is in progress and a summary of the most recent run
// @Tags         sync
// @Produce      json
// @Success      200 {object} APIResponse[dto.SyncStatusResponse]
// @Router       /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.status.Status(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSyncStatusResponse(status))
}

// History godoc
// @ID           listSyncRuns
// @Summary      List recent sync runs
// @Tags         sync
// @Produce      json
// @Param        limit query int false "Maximum runs to return" default(20)
// @Success      200 {object} APIResponse[[]dto.SyncRunResponse]
// @Router       /sync/history [get]
func (h *SyncHandler) History(c *gin.Context) {
	var req dto.SyncHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid history query: "+err.Error())
		return
	}

	runs, err := h.status.History(c.Request.Context(), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]dto.SyncRunResponse, 0, len(runs))
	for i := range runs {
		out = append(out, *dto.NewSyncRunResponse(&runs[i]))
	}
	h.Success(c, out)
}

// Webhook godoc
// @ID           syncWebhook
// @Summary      Source platform webhook
// @Description  Starts a webhook-triggered sync run. Returns 200 with accepted=false when a
// @Description  run is already active so the source platform does not retry.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Success      202 {object} APIResponse[dto.SyncRunResponse]
// @Router       /sync/webhook [post]
func (h *SyncHandler) Webhook(c *gin.Context) {
	run, err := h.orchestrator.Start(c.Request.Context(), syncdomain.TriggerWebhook)
	if err != nil {
		// A busy pipeline is not a webhook delivery failure
		if errors.Is(err, syncdomain.ErrRunInProgress) {
			h.Success(c, gin.H{"accepted": false, "reason": "sync already in progress"})
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, runResponse(run))
}

// runResponse builds the API representation of a freshly started run
func runResponse(run *syncdomain.Run) *dto.SyncRunResponse {
	return dto.NewSyncRunResponse(&syncapp.RunSummary{
		ID:              run.ID,
		Trigger:         run.Trigger,
		Status:          run.Status,
		StartedAt:       run.StartedAt,
		CompletedAt:     run.CompletedAt,
		FetchedCount:    run.FetchedCount,
		WrittenCount:    run.WrittenCount,
		SkippedCount:    run.SkippedCount,
		FailedCount:     run.FailedCount,
		CurrentStep:     run.CurrentStep,
		ProgressPercent: run.ProgressPercent,
		ErrorMessage:    run.ErrorMessage,
	})
}
