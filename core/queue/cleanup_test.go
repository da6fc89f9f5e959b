package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/balanceq/core/queue"
)

func TestCleanupPolicy_Validate(t *testing.T) {
	t.Parallel()

	t.Run("default policy is valid", func(t *testing.T) {
		t.Parallel()

		policy := queue.DefaultCleanupPolicy()
		require.NoError(t, policy.Validate())
		assert.Equal(t, 1.0, policy.IntervalDays)
		assert.Equal(t, 0, policy.Hour)
		assert.Equal(t, 0, policy.Minute)
	})

	t.Run("fractional interval is valid", func(t *testing.T) {
		t.Parallel()

		policy := queue.CleanupPolicy{IntervalDays: 0.5, Hour: 12, Minute: 30}
		assert.NoError(t, policy.Validate())
	})

	tests := []struct {
		name   string
		policy queue.CleanupPolicy
	}{
		{"zero interval", queue.CleanupPolicy{IntervalDays: 0, Hour: 0, Minute: 0}},
		{"negative interval", queue.CleanupPolicy{IntervalDays: -1, Hour: 0, Minute: 0}},
		{"hour too large", queue.CleanupPolicy{IntervalDays: 1, Hour: 24, Minute: 0}},
		{"negative hour", queue.CleanupPolicy{IntervalDays: 1, Hour: -1, Minute: 0}},
		{"minute not on the half hour", queue.CleanupPolicy{IntervalDays: 1, Hour: 0, Minute: 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.ErrorIs(t, tt.policy.Validate(), queue.ErrInvalidCleanupPolicy)
		})
	}
}

func TestRegistry_CleanupLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("cleanup runs by default", func(t *testing.T) {
		t.Parallel()

		r, err := queue.NewRegistry[int, string]([]int{0})
		require.NoError(t, err)

		assert.True(t, r.Stats().CleanupRunning)
		assert.NoError(t, r.Healthcheck(context.Background()))

		require.NoError(t, r.Close())
		assert.False(t, r.Stats().CleanupRunning)
	})

	t.Run("explicit policy", func(t *testing.T) {
		t.Parallel()

		r, err := queue.NewRegistry[int, string]([]int{0},
			queue.WithCleanupPolicy(queue.CleanupPolicy{IntervalDays: 2, Hour: 3, Minute: 30}),
			queue.WithShutdownTimeout(time.Second))
		require.NoError(t, err)
		t.Cleanup(func() { _ = r.Close() })

		assert.True(t, r.Stats().CleanupRunning)
	})

	t.Run("disabled cleanup never runs", func(t *testing.T) {
		t.Parallel()

		r, err := queue.NewRegistry[int, string]([]int{0}, queue.WithoutCleanup())
		require.NoError(t, err)
		t.Cleanup(func() { _ = r.Close() })

		assert.False(t, r.Stats().CleanupRunning)
		assert.Zero(t, r.Stats().ResetsRun)
		assert.NoError(t, r.Healthcheck(context.Background()),
			"disabled cleanup is a configuration choice, not a failure")
	})
}
