package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/handlers/externalsync"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/middleware"
)

// ExternalSyncRouteConfig holds dependencies for external API and sync routes.
type ExternalSyncRouteConfig struct {
	Handler        *externalsync.Handler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupExternalSyncRoutes configures /external routes.
func SetupExternalSyncRoutes(api *gin.RouterGroup, cfg *ExternalSyncRouteConfig) {
	external := api.Group("/external")
	external.Use(cfg.AuthMiddleware.RequireAuth())
	{
		external.POST("/login", cfg.Handler.Login)
		external.POST("/logout", cfg.Handler.Logout)

		sync := external.Group("/sync")
		{
			sync.POST("", cfg.Handler.SyncRange)
			sync.POST("/yesterday", cfg.Handler.SyncYesterday)
			sync.GET("/status", cfg.Handler.Status)
			sync.GET("/statistics", cfg.Handler.Statistics)
		}
	}
}
