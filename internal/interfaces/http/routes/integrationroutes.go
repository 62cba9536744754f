package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/handlers/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/middleware"
)

// IntegrationRouteConfig holds dependencies for integration routes.
type IntegrationRouteConfig struct {
	Handler        *integration.Handler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupIntegrationRoutes configures /integrations routes.
func SetupIntegrationRoutes(api *gin.RouterGroup, cfg *IntegrationRouteConfig) {
	integrations := api.Group("/integrations")
	integrations.Use(cfg.AuthMiddleware.RequireAuth())
	{
		integrations.GET("", cfg.Handler.List)
		integrations.POST("/connect", cfg.Handler.Connect)
		integrations.DELETE("/:provider", cfg.Handler.Disconnect)
		integrations.POST("/:provider/test", cfg.Handler.Test)
		integrations.POST("/:provider/reauthenticate", cfg.Handler.Reauthenticate)
		integrations.PUT("/:provider/sync-settings", cfg.Handler.UpdateSyncSettings)
	}
}
