package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "permissive", cfg.Engine.AmountPolicy)
	assert.Equal(t, 8, cfg.Engine.BatchConcurrency)
	assert.Equal(t, 500, cfg.Engine.MaxBatchSize)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Redis.CacheTTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.BatchPerMinute)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SENTENCER_AMOUNT_POLICY", "strict")
	t.Setenv("SENTENCER_BATCH_CONCURRENCY", "3")
	t.Setenv("SENTENCER_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "strict", cfg.Engine.AmountPolicy)
	assert.Equal(t, 3, cfg.Engine.BatchConcurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentencer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
store:
  driver: sqlite
  sqlite_path: /tmp/s.db
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/s.db", cfg.Store.SQLitePath)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("SENTENCER_STORE_DRIVER", "postgres")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("SENTENCER_STORE_DRIVER", "mongo")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("zero rate limit budget", func(t *testing.T) {
		t.Setenv("SENTENCER_RATE_LIMIT_BATCH_PER_MINUTE", "0")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
