package bootstrap

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "GRID_ROWS", "GRID_COLUMNS", "CELL_SIZE",
		"STORE_BACKEND", "STORE_DIR", "DB_USER", "REDIS_ADDR", "REDIS_DB",
		"REDIS_KEY_PREFIX", "ARCHIVE_ENABLED", "ARCHIVE_RETENTION_HOURS", "ARCHIVE_PRUNE_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 16, cfg.GridRows)
	assert.Equal(t, 16, cfg.GridColumns)
	assert.Equal(t, float32(40), cfg.CellSize)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, ".", cfg.StoreDir)
	assert.Equal(t, "px:", cfg.KeyPrefix)
	assert.False(t, cfg.ArchiveEnabled)
	assert.Equal(t, 30*24*time.Hour, cfg.ArchiveRetention)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRID_ROWS", "8")
	t.Setenv("GRID_COLUMNS", "12")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.GridRows)
	assert.Equal(t, 12, cfg.GridColumns)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "info", cfg.LogLevel, "invalid level falls back to info")
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"bad rows":            {"GRID_ROWS": "many"},
		"zero columns":        {"GRID_COLUMNS": "0"},
		"unknown backend":     {"STORE_BACKEND": "s3"},
		"mysql without user":  {"STORE_BACKEND": "mysql"},
		"redis without addr":  {"STORE_BACKEND": "redis"},
		"bad archive flag":    {"ARCHIVE_ENABLED": "maybe"},
		"archive without dbs": {"ARCHIVE_ENABLED": "true"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger_FormatterByEnv(t *testing.T) {
	log := NewLogger(&Config{AppEnv: "production", LogLevel: "warn"})
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log = NewLogger(&Config{AppEnv: "development", LogLevel: "debug"})
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}
