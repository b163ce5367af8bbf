package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/crazycube/graveyard-api/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		// Public read endpoints
		api.GET("/claimable/:address", handler.GetClaimable)
		api.GET("/ledger/claimable/:address", handler.GetLedgerClaimable)
		api.GET("/graveyard/ready", handler.GetGraveyardReady)

		// Admin endpoints (requires authentication)
		admin := api.Group("/admin", middleware.Auth(authCfg))
		admin.POST("/cache/purge", handler.PurgeCache)
	}

	router.NoRoute(func(c *gin.Context) {
		respondNotFound(c, "Route not found", c.Request.Method+" "+c.Request.URL.Path)
	})
}
