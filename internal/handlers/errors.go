package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrImmutable),
		errors.Is(err, apperrors.ErrInvalidStateTransition),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusPreconditionFailed
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the matching JSON error. Server-side failures
// are reported with a generic message only.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()), slog.Int("status", status))
		msg := "Failed to " + action
		if status == http.StatusBadGateway {
			msg += ": storage temporarily unavailable"
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondBindError reports malformed input.
func respondBindError(c *gin.Context, err error, what string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + ": " + err.Error()})
}

// mutationMeta builds the caller identity and the optional If-Match version.
// A body-supplied version overrides the header.
func mutationMeta(c *gin.Context, bodyVersion *int64) (portssvc.MutationMeta, error) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return portssvc.MutationMeta{}, errUnauthorized
	}
	meta := portssvc.MutationMeta{UserID: userID, ExpectedVersion: bodyVersion}
	if meta.ExpectedVersion != nil {
		return meta, nil
	}
	v, err := parseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		return portssvc.MutationMeta{}, err
	}
	meta.ExpectedVersion = v
	return meta, nil
}

var errUnauthorized = errors.New("user ID not found in context")

// parseIfMatch accepts `3`, `"3"` and `W/"3"`. An empty or `*` header means unconditional.
func parseIfMatch(header string) (*int64, error) {
	header = strings.TrimSpace(header)
	if header == "" || header == "*" {
		return nil, nil
	}
	header = strings.TrimPrefix(header, "W/")
	header = strings.Trim(header, `"`)
	v, err := strconv.ParseInt(header, 10, 64)
	if err != nil || v < 1 {
		return nil, fmt.Errorf("%w: If-Match must carry a memo version", apperrors.ErrValidation)
	}
	return &v, nil
}

// withMeta resolves the mutation meta or writes the error response. ok is false when
// the request has been answered already.
func withMeta(c *gin.Context, bodyVersion *int64) (portssvc.MutationMeta, bool) {
	meta, err := mutationMeta(c, bodyVersion)
	if errors.Is(err, errUnauthorized) {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return meta, false
	}
	if err != nil {
		respondError(c, err, "read If-Match header")
		return meta, false
	}
	return meta, true
}
