package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: memory
jwt:
  secret: s3cret
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.IsProd())
}

func TestLoadRejectsBadConfig(t *testing.T) {
	_, err := Load(writeConfig(t, "storage:\n  driver: postgres\njwt:\n  secret: x\n"))
	assert.ErrorContains(t, err, "database_url")

	_, err = Load(writeConfig(t, "storage:\n  driver: sqlite\njwt:\n  secret: x\n"))
	assert.ErrorContains(t, err, "sqlite")

	_, err = Load(writeConfig(t, "env: staging\nstorage:\n  driver: memory\njwt:\n  secret: x\n"))
	assert.ErrorContains(t, err, "staging")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("PORTAL_ENV", "prod")
	cfg, err := Load(writeConfig(t, "storage:\n  driver: postgres\njwt:\n  secret: x\n"))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.IsProd())
}
