package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads YAML File", func(t *testing.T) {
		// Given: a config file with agents and redis settings
		path := filepath.Join(t.TempDir(), "config.yml")
		content := `
log-level: debug
agents:
  - source: tables/x.gob
    symbol: X
  - source: redis:champion
    symbol: o
redis:
  enabled: true
  host: cache
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: every field is filled and defaults cover the rest
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, []Agent{
			{Source: "tables/x.gob", Symbol: "X"},
			{Source: "redis:champion", Symbol: "o"},
		}, conf.Agents)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Defaults From Environment", func(t *testing.T) {
		// Given: no config file and a redis host in the environment
		t.Setenv("REDIS_HOST", "redis.local")

		// When: loading without a path
		conf, err := Load("")

		// Then: defaults are applied
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "redis.local:6379", conf.Redis.GetRedisAddr())
		assert.Empty(t, conf.Agents)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
	})

	t.Run("MustLoad Panics On Missing File", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "nope.yml"))
		})
	})
}
