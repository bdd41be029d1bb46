package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "HOST", "LOG_LEVEL", "LOG_DEV", "LOG_FILE",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_ENABLED",
	"PROJECT_STORE", "PROJECT_STORE_PATH", "BLOCK_CATALOG_DIR",
	"EXPORT_PAGE_GLOB", "EXPORT_MAX_BODY_BYTES",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaultsMatchDefault(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("LOG_FILE", "/tmp/pagebuilder.log")
	t.Setenv("PROJECT_STORE", "sqlite")
	t.Setenv("PROJECT_STORE_PATH", "/var/lib/pagebuilder/projects.db")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("EXPORT_PAGE_GLOB", "pages/*.jsx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "/tmp/pagebuilder.log", cfg.Logging.File)
	assert.Equal(t, StoreSQLite, cfg.Projects.Backend)
	assert.Equal(t, "/var/lib/pagebuilder/projects.db", cfg.Projects.Path)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "pages/*.jsx", cfg.Export.PageGlob)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROJECT_STORE", "redis")

	_, err := Load()
	assert.Error(t, err)
	assert.Equal(t, StoreMemory, LoadOrDefault().Projects.Backend)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "fast")

	_, err := Load()
	assert.Error(t, err)
}
