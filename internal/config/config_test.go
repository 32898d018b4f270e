package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("BUDGIFY_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("BUDGIFY_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("BUDGIFY_TEST_MISSING", "fallback"))
}

func TestConfigureLogging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	logger := ConfigureLogging()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	t.Setenv("LOG_LEVEL", "not-a-level")
	t.Setenv("LOG_FORMAT", "text")
	logger = ConfigureLogging()
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel(), "invalid level falls back to info")
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "budgify.db", cfg.Database.Path)
	assert.Equal(t, "categories.yaml", cfg.Categories.File)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Export.Directory)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	t.Setenv("BUDGIFY_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("BUDGIFY_SERVER_PORT", "9100")
	t.Setenv("BUDGIFY_AUTH_PASSWORD", "hunter2")

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "hunter2", cfg.Server.AuthPassword)
}
