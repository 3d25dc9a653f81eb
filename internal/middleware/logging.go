package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID back to the caller.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 64

// StructuredLoggingMiddleware tags each request with an ID (the caller's, when
// it sends a usable one) and stores a logger carrying it in the request context.
// Handlers and services pick it up via GetLoggerFromCtx.
func StructuredLoggingMiddleware(baseLogger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := inboundRequestID(c.GetHeader(RequestIDHeader))

		logger := baseLogger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), logger))

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if route := c.FullPath(); route != "" {
			attrs = append(attrs, slog.String("route", route))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("gin_errors", c.Errors.String()))
		}
		// the auth middleware may have swapped in a logger with user_id
		GetLoggerFromCtx(c.Request.Context()).Log(c.Request.Context(), completionLevel(status), "Request completed", attrs...)
	}
}

func completionLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status == 401 || status == 429:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// inboundRequestID keeps a caller-supplied ID only when it is short printable ASCII.
func inboundRequestID(id string) string {
	if id == "" || len(id) > maxRequestIDLen {
		return uuid.NewString()
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return uuid.NewString()
		}
	}
	return id
}
