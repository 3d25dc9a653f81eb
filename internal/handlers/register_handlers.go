package handlers

import (
	"net/http"

	"github.com/SscSPs/cash_memo_ledger/cmd/docs"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/middleware"
	"github.com/SscSPs/cash_memo_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const apiBasePath = "/api/v1"

// RegisterRoutes mounts the health probes, the authenticated ledger API and,
// outside production, the swagger UI.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	health portsrepo.HealthChecker,
) {
	registerValidators()

	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	registerHealthRoutes(r, health)

	ledger := r.Group(apiBasePath, middleware.AuthMiddleware(cfg.JWTSecret))
	registerCashMemoRoutes(ledger, services.CashMemo, services.Reporting)
	registerPartyRoutes(ledger, services.Party)

	if !cfg.IsProduction {
		docs.SwaggerInfo.BasePath = apiBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
