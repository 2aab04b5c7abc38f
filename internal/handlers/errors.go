package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto an HTTP status. Client errors echo the
// service message, anything else is logged and answered with a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrReconciliationDiscrepancy):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failure})
		return
	}
	logger.Warn(failure, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// actorFromContext returns the authenticated actor or writes a 401.
func actorFromContext(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	t, err := dto.ParseOptionalDate(c.Query(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// queryDateOr parses a YYYY-MM-DD query parameter, falling back to def when absent.
func queryDateOr(c *gin.Context, name string, def time.Time) (time.Time, error) {
	t, err := queryDate(c, name)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return def, nil
	}
	return *t, nil
}

// badRequest writes a 400 for malformed input that never reached a service.
func badRequest(c *gin.Context, logger *slog.Logger, message string, err error) {
	logger.Warn(message, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": message + ": " + err.Error()})
}
