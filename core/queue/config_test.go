package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/balanceq/core/config"
	"github.com/dmitrymomot/balanceq/core/queue"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := queue.DefaultConfig()
	assert.Equal(t, queue.DefaultMaxWaitingTime, cfg.MaxWaitingTime)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.CleanupEnabled)
	assert.Equal(t, 1.0, cfg.CleanupIntervalDays)
	assert.Equal(t, 0, cfg.CleanupHour)
	assert.Equal(t, 0, cfg.CleanupMinute)
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("QUEUE_MAX_WAITING_TIME", "2m")
	t.Setenv("QUEUE_CLEANUP_INTERVAL_DAYS", "0.5")
	t.Setenv("QUEUE_CLEANUP_HOUR", "5")
	t.Setenv("QUEUE_CLEANUP_MINUTE", "30")

	var cfg queue.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 2*time.Minute, cfg.MaxWaitingTime)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout, "unset variables fall back to defaults")
	assert.True(t, cfg.CleanupEnabled)
	assert.Equal(t, 0.5, cfg.CleanupIntervalDays)
	assert.Equal(t, 5, cfg.CleanupHour)
	assert.Equal(t, 30, cfg.CleanupMinute)
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("applies config values", func(t *testing.T) {
		t.Parallel()

		cfg := queue.DefaultConfig()
		cfg.MaxWaitingTime = 5 * time.Minute
		cfg.CleanupEnabled = false

		r, err := queue.NewRegistryFromConfig[string, int](cfg, []string{"high", "low"})
		require.NoError(t, err)
		t.Cleanup(func() { _ = r.Close() })

		assert.Equal(t, 5*time.Minute, r.MaxWaitingTime())
		assert.False(t, r.Stats().CleanupRunning)
		assert.Equal(t, 2, r.QueueCount())
	})

	t.Run("user options override config", func(t *testing.T) {
		t.Parallel()

		cfg := queue.DefaultConfig()
		cfg.CleanupEnabled = false

		r, err := queue.NewRegistryFromConfig[string, int](cfg, []string{"only"},
			queue.WithMaxWaitingTime(time.Minute))
		require.NoError(t, err)
		t.Cleanup(func() { _ = r.Close() })

		assert.Equal(t, time.Minute, r.MaxWaitingTime())
	})

	t.Run("invalid cleanup settings fail", func(t *testing.T) {
		t.Parallel()

		cfg := queue.DefaultConfig()
		cfg.CleanupIntervalDays = -1

		r, err := queue.NewRegistryFromConfig[string, int](cfg, []string{"only"})
		assert.ErrorIs(t, err, queue.ErrInvalidCleanupPolicy)
		assert.Nil(t, r)
	})
}
