package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, ":6400", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
}

func TestParse_FlagsOverride(t *testing.T) {
	cfg, err := Parse([]string{"-listen", ":9999", "-log-level", "debug", "-redis-addr", "localhost:6379"})
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestParse_EnvFallback(t *testing.T) {
	t.Setenv("DOCMODULED_LISTEN", ":1234")
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.ListenAddr)
}
