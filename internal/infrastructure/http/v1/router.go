// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"farmstock/internal/infrastructure/http/v1/dto"
	"farmstock/internal/infrastructure/http/v1/handlers"
	"farmstock/internal/infrastructure/http/v1/middleware"
	"farmstock/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Inventory serves every /inventory endpoint
	Inventory handlers.InventoryService

	// Health is pinged by the readiness probe
	Health handlers.Pinger

	// Idempotency enables X-Idempotency-Key handling when set
	Idempotency middleware.IdempotencyStore

	// Debug switches gin into debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Health)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	if cfg.Idempotency != nil {
		api.Use(middleware.Idempotency(cfg.Idempotency))
	}

	registerInventoryRoutes(api.Group("/inventory"), handlers.NewInventoryHandler(handlers.NewBaseHandler(), cfg.Inventory))

	return router, nil
}

func registerInventoryRoutes(rg *gin.RouterGroup, h *handlers.InventoryHandler) {
	rg.POST("/movements", h.RecordMovement)
	rg.POST("/stock-in", h.StockIn)
	rg.GET("/on-hand", h.GetOnHand)

	wh := rg.Group("/warehouses/:warehouseId")
	{
		wh.GET("/on-hand", h.ListOnHand)
		wh.GET("/movements", h.ListMovements)
	}
}
