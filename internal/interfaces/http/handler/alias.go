package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	aliasapp "github.com/wholesale/backend/internal/application/alias"
	"github.com/wholesale/backend/internal/interfaces/http/dto"
)

// AliasHandler handles alias signal administration endpoints
type AliasHandler struct {
	BaseHandler
	admin *aliasapp.AdminService
}

// NewAliasHandler creates a new AliasHandler
func NewAliasHandler(admin *aliasapp.AdminService) *AliasHandler {
	return &AliasHandler{admin: admin}
}

// ListSignals godoc
// @ID           listAliasSignals
// @Summary      List unresolved alias signals
// @Description  Returns UNMAPPED and DEFERRED collection values ordered by how often they were seen
// @Tags         alias
// @Produce      json
// @Success      200 {object} APIResponse[[]dto.AliasSignalResponse]
// @Router       /alias/signals [get]
func (h *AliasHandler) ListSignals(c *gin.Context) {
	signals, err := h.admin.ListSignals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewAliasSignalListResponse(signals))
}

// Assign godoc
// @ID           assignAliasSignal
// @Summary      Assign a canonical collection to a signal
// @Tags         alias
// @Accept       json
// @Produce      json
// @Param        id path string true "Mapping ID"
// @Success      200 {object} APIResponse[dto.AliasSignalResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /alias/signals/{id}/assign [post]
func (h *AliasHandler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mapping ID")
		return
	}

	var req dto.AliasAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid assign request: "+err.Error())
		return
	}
	canonicalID, err := uuid.Parse(req.CanonicalID)
	if err != nil {
		h.BadRequest(c, "Invalid canonical ID")
		return
	}

	mapping, err := h.admin.Assign(c.Request.Context(), id, canonicalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewAliasSignalResponse(mapping))
}

// Defer godoc
// @ID           deferAliasSignal
// @Summary      Defer a signal for later resolution
// @Tags         alias
// @Accept       json
// @Produce      json
// @Param        id path string true "Mapping ID"
// @Success      200 {object} APIResponse[dto.AliasSignalResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /alias/signals/{id}/defer [post]
func (h *AliasHandler) Defer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mapping ID")
		return
	}

	var req dto.AliasDeferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid defer request: "+err.Error())
		return
	}

	mapping, err := h.admin.Defer(c.Request.Context(), id, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewAliasSignalResponse(mapping))
}
