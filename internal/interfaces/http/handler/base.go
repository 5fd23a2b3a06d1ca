package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	aliasdomain "github.com/wholesale/backend/internal/domain/alias"
	"github.com/wholesale/backend/internal/domain/catalog"
	syncdomain "github.com/wholesale/backend/internal/domain/sync"
	"github.com/wholesale/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Accepted sends a 202 accepted response for asynchronous operations
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	requestID := getRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	))
}

// HandleError converts domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, syncdomain.ErrRunInProgress):
		h.ErrorWithCode(c, dto.ErrCodeSyncInProgress, err.Error())
	case errors.Is(err, syncdomain.ErrNoActiveRun):
		h.ErrorWithCode(c, dto.ErrCodeNoActiveSync, err.Error())
	case errors.Is(err, syncdomain.ErrRunNotFound),
		errors.Is(err, aliasdomain.ErrMappingNotFound),
		errors.Is(err, catalog.ErrCollectionNotFound),
		errors.Is(err, catalog.ErrSKUNotFound):
		h.ErrorWithCode(c, dto.ErrCodeNotFound, err.Error())
	case errors.Is(err, aliasdomain.ErrMappingAlreadyAssigned):
		h.ErrorWithCode(c, dto.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, aliasdomain.ErrMappingEmptyRawValue),
		errors.Is(err, aliasdomain.ErrMappingInvalidCanonicalID):
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, err.Error())
	case errors.Is(err, syncdomain.ErrRunAlreadyTerminal):
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, err.Error())
	default:
		h.InternalError(c, "An unexpected error occurred")
	}
}
