package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, uint64(42), cfg.World.Seed)
	assert.Equal(t, 25, cfg.Cache.Capacity)
	assert.Equal(t, "none", cfg.Store.Backend)
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.World.Width)
}

func TestYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
world:
  seed: 999
  width: 64
  height: 32
store:
  backend: file
  dir: /tmp/chunks
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(999), cfg.World.Seed)
	assert.Equal(t, 64, cfg.World.Width)
	assert.Equal(t, "file", cfg.Store.Backend)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
world:
  seed: 999
store:
  backend: file
`), 0o644))
	t.Setenv("WORLD_SEED", "1234")
	t.Setenv("WORLD_CHUNK_STORE", "redis")
	t.Setenv("WORLD_REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(1234), cfg.World.Seed)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
}

func TestInvalidBackendRejected(t *testing.T) {
	t.Setenv("WORLD_CHUNK_STORE", "carrier-pigeon")

	_, err := Load("")
	assert.Error(t, err)
}
