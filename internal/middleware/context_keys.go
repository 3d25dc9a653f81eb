package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	loggerCtxKey contextKey = "logger"
	userIDKey    contextKey = "userID"
)

// GetLoggerFromCtx returns the request-scoped logger, or slog.Default outside a request.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, _ := ctx.Value(loggerCtxKey).(*slog.Logger); logger != nil {
			return logger
		}
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// WithUserID records the authenticated user; every ledger mutation is attributed to it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user stored by WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID, userID != ""
}

// GetUserIDFromContext looks in the gin keys first and falls back to the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, ok := c.Get(string(userIDKey)); ok {
		if userID, _ := v.(string); userID != "" {
			return userID, true
		}
	}
	return UserIDFromContext(c.Request.Context())
}
