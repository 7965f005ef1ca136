package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL",
		EnvPrefix + "_DATABASE_URL",
		EnvPrefix + "_WORKER_NAME",
		EnvPrefix + "_LOOKUP_URL",
		EnvPrefix + "_LOOKUP_KEY",
		EnvPrefix + "_LOOKUP_TIMEOUT",
		EnvPrefix + "_QUOTA_LOW_WATER_MARK",
		EnvPrefix + "_WATCH_WORKERS",
		EnvPrefix + "_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func validConfig() *Config {
	return &Config{
		DatabaseURL: "postgres://localhost:5432/vendors",
		Worker:      WorkerConfig{Name: "NIF_WORKER"},
		Lookup:      LookupConfig{URL: "https://www.nif.pt/", Key: "secret"},
		Quota:       QuotaConfig{LowWaterMark: 1},
		Selection:   SelectionConfig{ClaimTTL: 10 * time.Minute},
		Watch:       WatchConfig{Interval: time.Minute, Workers: 1},
		Log:         LogConfig{Level: "info", Format: "auto"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://www.nif.pt/", cfg.Lookup.URL)
	assert.Equal(t, time.Duration(0), cfg.Lookup.Timeout)
	assert.Equal(t, 1, cfg.Quota.LowWaterMark)
	assert.False(t, cfg.Quota.AlertOnZero)
	assert.Equal(t, 10*time.Minute, cfg.Selection.ClaimTTL)
	assert.Equal(t, time.Minute, cfg.Watch.Interval)
	assert.Equal(t, 1, cfg.Watch.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.Worker.Name)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv(EnvPrefix+"_WORKER_NAME", "  NIF_WORKER ")
	t.Setenv(EnvPrefix+"_LOOKUP_KEY", "abc123")
	t.Setenv(EnvPrefix+"_LOOKUP_TIMEOUT", "15s")
	t.Setenv(EnvPrefix+"_WATCH_WORKERS", "4")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "NIF_WORKER", cfg.Worker.Name)
	assert.Equal(t, "abc123", cfg.Lookup.Key)
	assert.Equal(t, 15*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, 4, cfg.Watch.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoad_PrefixedDatabaseURLWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPrefix+"_DATABASE_URL", "postgres://prefixed/db")
	t.Setenv("DATABASE_URL", "postgres://bare/db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://prefixed/db", cfg.DatabaseURL)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	content := `
database_url: postgres://file/db
worker:
  name: FILE_WORKER
lookup:
  key: filekey
  timeout: 30s
  rate_limit_rps: 0.5
quota:
  low_water_mark: 2
  alert_on_zero: true
log:
  level: DEBUG
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
	assert.Equal(t, "FILE_WORKER", cfg.Worker.Name)
	assert.Equal(t, "filekey", cfg.Lookup.Key)
	assert.Equal(t, 30*time.Second, cfg.Lookup.Timeout)
	assert.InDelta(t, 0.5, cfg.Lookup.RateLimitRPS, 1e-9)
	assert.Equal(t, 2, cfg.Quota.LowWaterMark)
	assert.True(t, cfg.Quota.AlertOnZero)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker:\n  name: FILE_WORKER\n"), 0o644))
	t.Setenv(EnvPrefix+"_WORKER_NAME", "ENV_WORKER")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ENV_WORKER", cfg.Worker.Name)
}

func TestLoad_FileNotFound(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Nil(t, cfg)
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, "database_url"},
		{"missing worker name", func(c *Config) { c.Worker.Name = "" }, "worker.name"},
		{"missing lookup key", func(c *Config) { c.Lookup.Key = "" }, "lookup.key"},
		{"invalid lookup url", func(c *Config) { c.Lookup.URL = "not a url" }, "lookup.url"},
		{"negative timeout", func(c *Config) { c.Lookup.Timeout = -time.Second }, "lookup.timeout"},
		{"zero low water mark", func(c *Config) { c.Quota.LowWaterMark = 0 }, "quota.low_water_mark"},
		{"zero workers", func(c *Config) { c.Watch.Workers = 0 }, "watch.workers"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, err.Error(), "config error")
		})
	}
}

func TestRequireStore(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireStore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")

	cfg.DatabaseURL = "postgres://x"
	assert.NoError(t, cfg.RequireStore())
}

func TestRequireLookup(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireLookup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup.url")

	cfg.Lookup.URL = "https://registry.test/"
	err = cfg.RequireLookup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup.key")

	cfg.Lookup.Key = "secret"
	assert.NoError(t, cfg.RequireLookup())
}
