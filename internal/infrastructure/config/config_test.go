package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.ExternalAPI.Timeout)
	assert.Equal(t, 3, cfg.ExternalAPI.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.ExternalAPI.Backoff)
	assert.Equal(t, 50*time.Minute, cfg.ExternalAPI.TokenCacheWindow)
	assert.Equal(t, 24*time.Hour, cfg.Integration.TokenTTL)
	assert.Equal(t, 90, cfg.Sync.MaxRangeDays)
	assert.Equal(t, 10, cfg.Sync.RecentLimit)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: sqlite
  database: ":memory:"
external_api:
  base_url: https://hr.example.com/api
  max_retries: 1
`), 0o600))
	t.Setenv("DASHBOARD_EXTERNAL_API_MAX_RETRIES", "5")

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.GetDSN())
	assert.Equal(t, "https://hr.example.com/api", cfg.ExternalAPI.BaseURL)
	assert.Equal(t, 5, cfg.ExternalAPI.MaxRetries)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
