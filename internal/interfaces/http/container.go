package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/externaltoken"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/auth"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/cache"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/config"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/hrapi"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/scheduler"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/middleware"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// Container holds all infrastructure components, services, handlers and the
// scheduler. It wires everything together and provides Shutdown() for
// graceful termination. The CLI reuses it without mounting routes.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware

	// Infrastructure services
	jwtSvc     *auth.JWTService
	cipher     *auth.TokenCipher
	hrClient   *hrapi.Client
	tokenCache cache.TokenCache
	locker     cache.Locker

	// Application services
	tokenStore *externaltoken.TokenStore
	registry   *integration.Registry
	syncEngine *attendancesync.Engine

	// Background services
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, caches, repositories, crypto
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Application services - token store, registry, sync engine
	c.initServices()

	// Section 3: Scheduler jobs
	if err := c.initScheduler(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 4: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

// Engine returns the Gin engine
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

func (c *Container) SyncEngine() *attendancesync.Engine {
	return c.syncEngine
}

func (c *Container) Registry() *integration.Registry {
	return c.registry
}

func (c *Container) TokenStore() *externaltoken.TokenStore {
	return c.tokenStore
}

func (c *Container) Scheduler() *scheduler.SchedulerManager {
	return c.schedulerManager
}

// Shutdown stops background work and releases connections. The database is
// owned by the caller.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}
