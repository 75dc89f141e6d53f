package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/services"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/utils"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/validator"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse is the standard success payload
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries shared handler behavior
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a handler-level event with request context
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

// parseIDParam parses a numeric path parameter; on failure it writes the 400
// response and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service-layer errors to HTTP responses. Permission
// reasons stay server-side; unknown errors are logged and reported as 500.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: validationErrs.First().Message,
			Details: validationErrs,
		})
		return
	}

	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: authErr.Reason,
		})
		return
	}

	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		h.logger.Warn("Permission denied",
			"user_id", permErr.UserID,
			"resource", permErr.Resource,
			"action", permErr.Action,
			"reason", permErr.Reason)
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "You do not have permission to perform this action",
		})
		return
	}

	var ruleErr *services.BusinessRuleError
	if errors.As(err, &ruleErr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: ruleErr.Message,
		})
		return
	}

	var storageErr *services.StorageError
	if errors.As(err, &storageErr) {
		h.logger.Error("Attachment store failure", "op", storageErr.Op, "error", storageErr.Err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Attachment storage is unavailable, please try again",
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrComplaintNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrVersionConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: err.Error(),
		})
	default:
		h.logger.Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
