package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	sharedConfig "github.com/Logicalyan/dashbord-reporting-module/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	Auth        sharedConfig.AuthConfig        `mapstructure:"auth"`
	ExternalAPI sharedConfig.ExternalAPIConfig `mapstructure:"external_api"`
	Integration sharedConfig.IntegrationConfig `mapstructure:"integration"`
	Sync        sharedConfig.SyncConfig        `mapstructure:"sync"`
	Security    sharedConfig.SecurityConfig    `mapstructure:"security"`
}

var (
	appConfig   *Config
	appViper    *viper.Viper
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (or configPath) and DASHBOARD_* environment
// variables. A missing config file is fine; defaults and env then apply.
func Load(env, configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", modeForEnv(env))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appViper = v
	appConfigMu.Unlock()

	return &config, nil
}

func modeForEnv(env string) string {
	switch strings.ToLower(env) {
	case "production", "release":
		return "release"
	case "test":
		return "test"
	default:
		return "debug"
	}
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Watch re-reads the file on change and hands the fresh config to onChange.
// Only settings that are safe to swap at runtime should be applied there.
func Watch(onChange func(*Config)) {
	appConfigMu.RLock()
	v := appViper
	appConfigMu.RUnlock()
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var config Config
		if err := v.Unmarshal(&config); err != nil {
			return
		}
		appConfigMu.Lock()
		appConfig = &config
		appConfigMu.Unlock()
		onChange(&config)
	})
	v.WatchConfig()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "Asia/Jakarta")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.driver", sharedConfig.DriverMySQL)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "dashboard_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.max_size_mb", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 14)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.issuer", "dashboard")

	v.SetDefault("external_api.base_url", "http://localhost:9000/api")
	v.SetDefault("external_api.timeout", "30s")
	v.SetDefault("external_api.max_retries", 3)
	v.SetDefault("external_api.backoff", "100ms")
	v.SetDefault("external_api.user_agent", "Dashboard/1.0")
	v.SetDefault("external_api.token_cache_window", "50m")
	v.SetDefault("external_api.token_ttl", "1h")

	v.SetDefault("integration.token_ttl", "24h")
	v.SetDefault("integration.cache_window", "24h")

	v.SetDefault("sync.max_range_days", 90)
	v.SetDefault("sync.recent_limit", 10)
	v.SetDefault("sync.lock_ttl", "30m")
	v.SetDefault("sync.auto.enabled", true)
	v.SetDefault("sync.auto.at", "01:00")
	v.SetDefault("sync.auto.concurrency", 4)

	v.SetDefault("security.token_encryption_key", "")
}
