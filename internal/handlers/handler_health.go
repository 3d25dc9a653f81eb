package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cash_memo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// registerHealthRoutes adds the unauthenticated liveness and readiness probes.
func registerHealthRoutes(r *gin.Engine, health portsrepo.HealthChecker) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/health/ready", readiness(health))
}

// readiness reports 503 while the store cannot be reached.
func readiness(health portsrepo.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health == nil {
			c.String(http.StatusOK, "OK")
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := health.Ping(ctx); err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Store not ready", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
			return
		}
		c.String(http.StatusOK, "OK")
	}
}
