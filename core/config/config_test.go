package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/balanceq/core/config"
)

type serverConfig struct {
	Host    string        `env:"TEST_SERVER_HOST" envDefault:"localhost"`
	Port    int           `env:"TEST_SERVER_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"TEST_SERVER_TIMEOUT" envDefault:"15s"`
}

type requiredConfig struct {
	Token string `env:"TEST_REQUIRED_TOKEN,required"`
}

type cachedConfig struct {
	Value string `env:"TEST_CACHED_VALUE" envDefault:"initial"`
}

type panicConfig struct {
	Secret string `env:"TEST_PANIC_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply for unset variables", func(t *testing.T) {
		t.Setenv("TEST_SERVER_PORT", "9090")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requiredConfig")
	})

	t.Run("nil target fails", func(t *testing.T) {
		err := config.Load[serverConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilConfig)
	})

	t.Run("same type is cached across loads", func(t *testing.T) {
		t.Setenv("TEST_CACHED_VALUE", "first")

		var cfg1 cachedConfig
		require.NoError(t, config.Load(&cfg1))
		assert.Equal(t, "first", cfg1.Value)

		t.Setenv("TEST_CACHED_VALUE", "second")

		var cfg2 cachedConfig
		require.NoError(t, config.Load(&cfg2))
		assert.Equal(t, "first", cfg2.Value, "second load must return the cached value")
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns loaded config", func(t *testing.T) {
		t.Setenv("TEST_SERVER_HOST", "example.com")

		var cfg serverConfig
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("panics on failure", func(t *testing.T) {
		var cfg panicConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}
