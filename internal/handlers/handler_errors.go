package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/komiteku/komite-backend/internal/apperrors"
	"github.com/komiteku/komite-backend/internal/middleware"
)

// ErrorResponse is the generic error response structure for handlers.
type ErrorResponse struct {
	Error     string `json:"error"`
	Remaining *int64 `json:"remaining,omitempty"` // Set for balance violations
}

// respondError maps service errors onto HTTP responses. Balance violations
// carry the remaining balance so the client can show how much still fits.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var exceeded *apperrors.BalanceExceededError
	switch {
	case errors.As(err, &exceeded):
		remaining := exceeded.Remaining
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Remaining: &remaining})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
