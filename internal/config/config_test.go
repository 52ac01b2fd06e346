package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.Equal(t, 10000, cfg.MaxSteps)
	assert.Equal(t, 30*time.Second, cfg.RunTimeout)
	assert.Equal(t, "atomic", cfg.Underflow)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TURING_STORE", "redis")
	t.Setenv("TURING_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TURING_SESSION_TTL", "1h")
	t.Setenv("TURING_MAX_STEPS", "50")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 50, cfg.MaxSteps)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TURING_ADDR_FROM_FILE=1\nTURING_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv("TURING_LOG_LEVEL", "")
	os.Unsetenv("TURING_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("TURING_ADDR_FROM_FILE") })

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("TURING_STORE", "redis")
	_, err := config.Load(missing)
	assert.Error(t, err, "redis store needs a URL")

	t.Setenv("TURING_STORE", "s3")
	_, err = config.Load(missing)
	assert.Error(t, err)

	t.Setenv("TURING_STORE", "memory")
	t.Setenv("TURING_MAX_STEPS", "many")
	_, err = config.Load(missing)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}
