package http

import (
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/middleware"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)

	api := c.engine.Group("/api")

	routes.SetupExternalSyncRoutes(api, &routes.ExternalSyncRouteConfig{
		Handler:        c.hdlrs.externalSyncHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupIntegrationRoutes(api, &routes.IntegrationRouteConfig{
		Handler:        c.hdlrs.integrationHandler,
		AuthMiddleware: c.authMiddleware,
	})
}
