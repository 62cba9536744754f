package http

import (
	"context"
	"fmt"
	"time"

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
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

const memoryTokenCacheEntries = 4096

// ============================================================
// Section 1: Infrastructure - Redis, caches, repositories, crypto
// ============================================================

// initInfrastructure connects Redis when enabled and falls back to in-process
// caches and locks otherwise.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
		c.tokenCache = cache.NewRedisTokenCache(client)
		c.locker = cache.NewRedisLocker(client)
	} else {
		memCache, err := cache.NewMemoryTokenCache(memoryTokenCacheEntries)
		if err != nil {
			return fmt.Errorf("failed to create token cache: %w", err)
		}
		c.tokenCache = memCache
		c.locker = cache.NewMemoryLocker()
		log.Warnw("redis disabled, token cache and sync locks are process local")
	}

	c.repos = newRepositories(c.db, log)

	cipher, err := auth.NewTokenCipher(cfg.Security.TokenEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to create token cipher: %w", err)
	}
	c.cipher = cipher
	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer)
	c.hrClient = hrapi.NewClient(hrapi.ConfigFrom(cfg.ExternalAPI), log.Named("hrapi"))

	return nil
}

func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	return redisClient, nil
}

// ============================================================
// Section 2: Application services
// ============================================================

func (c *Container) initServices() {
	cfg := c.cfg
	log := c.log

	c.tokenStore = externaltoken.NewTokenStore(
		c.repos.externalTokenRepo,
		c.repos.txManager,
		c.tokenCache,
		c.cipher,
		c.hrClient,
		externaltoken.Config{
			CacheWindow: cfg.ExternalAPI.TokenCacheWindow,
			TokenTTL:    cfg.ExternalAPI.TokenTTL,
		},
		log.Named("externaltoken"),
	)

	c.registry = integration.NewRegistry(
		c.repos.integrationRepo,
		c.hrClient,
		c.cipher,
		c.tokenCache,
		integration.Config{
			TokenTTL:    cfg.Integration.TokenTTL,
			CacheWindow: cfg.Integration.CacheWindow,
		},
		log.Named("integration"),
	)

	c.syncEngine = attendancesync.NewEngine(
		c.registry,
		c.tokenStore,
		c.repos.syncLogRepo,
		c.repos.attendanceRepo,
		c.repos.txManager,
		c.locker,
		attendancesync.Config{
			MaxRangeDays: cfg.Sync.MaxRangeDays,
			RecentLimit:  cfg.Sync.RecentLimit,
			LockTTL:      cfg.Sync.LockTTL,
			Concurrency:  cfg.Sync.Auto.Concurrency,
		},
		log.Named("attendancesync"),
	)
}

// ============================================================
// Section 3: Scheduler
// ============================================================

// initScheduler registers the daily auto sync. Starting the scheduler is left
// to the server command so CLI runs never fire jobs.
func (c *Container) initScheduler() error {
	if !c.cfg.Sync.Auto.Enabled {
		return nil
	}

	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := manager.RegisterAttendanceSyncJob(c.syncEngine, c.cfg.Sync.Auto.At, c.cfg.Sync.LockTTL); err != nil {
		return fmt.Errorf("failed to register attendance sync job: %w", err)
	}
	c.schedulerManager = manager
	return nil
}

// sqlPinger adapts the gorm handle for the health check.
type sqlPinger struct {
	db *gorm.DB
}

func (p sqlPinger) PingContext(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
