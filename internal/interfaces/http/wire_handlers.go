package http

import (
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/handlers"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/handlers/externalsync"
	integrationHandlers "github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/handlers/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/middleware"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler       *handlers.HealthHandler
	externalSyncHandler *externalsync.Handler
	integrationHandler  *integrationHandlers.Handler
}

// initHandlers creates handlers and the auth middleware.
func (c *Container) initHandlers() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)

	c.hdlrs = &allHandlers{
		healthHandler:       handlers.NewHealthHandler(sqlPinger{db: c.db}, c.log),
		externalSyncHandler: externalsync.NewHandler(c.syncEngine, c.tokenStore, c.log),
		integrationHandler:  integrationHandlers.NewHandler(c.registry, c.log),
	}
}
