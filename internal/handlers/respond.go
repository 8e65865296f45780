package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/services"
	"github.com/sorahq/ledger-api/internal/dto"
	"github.com/sorahq/ledger-api/internal/middleware"
)

// respondError translates a service error into the uniform coded error body.
// Specific sentinels are checked before the generic apperrors categories so
// the more precise code wins.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Code: code, Error: "Internal server error"})
		return
	}
	logger.Warn("Request rejected", slog.String("code", code), slog.String("error", err.Error()))
	c.JSON(status, dto.ErrorResponse{Code: code, Error: err.Error()})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, services.ErrEntryUnbalanced):
		return http.StatusBadRequest, "UNBALANCED_ENTRY"
	case errors.Is(err, services.ErrEntryMinLines):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, services.ErrInvalidAccount):
		return http.StatusBadRequest, "INVALID_ACCOUNT"
	case errors.Is(err, services.ErrNoAccountingPeriod):
		return http.StatusBadRequest, "NO_ACCOUNTING_PERIOD"
	case errors.Is(err, services.ErrPeriodClosed):
		return http.StatusConflict, "PERIOD_CLOSED"
	case errors.Is(err, services.ErrEntryNotEditable):
		return http.StatusConflict, "ENTRY_NOT_EDITABLE"
	case errors.Is(err, services.ErrInvalidStatus):
		return http.StatusConflict, "INVALID_STATUS"
	case errors.Is(err, services.ErrPeriodOverlap):
		return http.StatusConflict, "PERIOD_OVERLAP"
	case errors.Is(err, services.ErrUsernameTaken):
		return http.StatusConflict, "USERNAME_TAKEN"
	case errors.Is(err, services.ErrAccountCodeTaken):
		return http.StatusConflict, "ACCOUNT_CODE_TAKEN"
	case errors.Is(err, services.ErrImportFailed):
		return http.StatusBadRequest, "IMPORT_FAILED"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "DUPLICATE"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// respondBindError reports a malformed or invalid request body.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION_ERROR", Error: "Invalid request body: " + err.Error()})
}

// requireUserID extracts the authenticated user ID or aborts with 401.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
