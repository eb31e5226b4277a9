package handlers

import (
	"github.com/SscSPs/association_ledger/cmd/docs"
	"github.com/SscSPs/association_ledger/internal/core/services"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	container *services.Container,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, container)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	container *services.Container,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerChartRoutes(v1, container.Chart)
	registerFiscalYearRoutes(v1, container.FiscalYear, container.Posting)
	registerEntryRoutes(v1, container.Posting)
	registerLedgerRoutes(v1, container.Posting)
	registerLetteringRoutes(v1, container.Lettering)
	registerReconciliationRoutes(v1, container.Reconciliation)
	registerClosingRoutes(v1, container.Closing, container.Checks, container.Audit)

	// the export pipeline authenticates with an API key, users with a JWT
	export := r.Group("/api/v1/export",
		middleware.ExportAPIKeyMiddleware(cfg.ExportAPIKeyHash),
		middleware.AuthMiddleware(cfg.JWTSecret),
	)
	registerExportRoutes(export, container.Export)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
