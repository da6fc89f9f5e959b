package queue

import (
	"io"
	"log/slog"
	"time"
)

// RegistryOption is a functional option for configuring a registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	maxWaitingTime  time.Duration
	cleanup         CleanupPolicy
	cleanupEnabled  bool
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

func defaultRegistryOptions() *registryOptions {
	return &registryOptions{
		maxWaitingTime:  DefaultMaxWaitingTime,
		cleanup:         DefaultCleanupPolicy(),
		cleanupEnabled:  true,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}
}

// WithMaxWaitingTime sets the starvation threshold used by the
// balanced-dequeue policy. The threshold stays adjustable at runtime via
// SetMaxWaitingTime.
func WithMaxWaitingTime(d time.Duration) RegistryOption {
	return func(o *registryOptions) {
		if d > 0 {
			o.maxWaitingTime = d
		}
	}
}

// WithCleanupPolicy schedules periodic history resets according to policy.
// The policy is validated at registry construction.
func WithCleanupPolicy(policy CleanupPolicy) RegistryOption {
	return func(o *registryOptions) {
		o.cleanup = policy
		o.cleanupEnabled = true
	}
}

// WithoutCleanup disables scheduled history resets. Histories then grow
// without bound unless Reset is invoked manually.
func WithoutCleanup() RegistryOption {
	return func(o *registryOptions) {
		o.cleanupEnabled = false
	}
}

// WithShutdownTimeout configures the maximum wait for an in-progress cleanup
// pass during Close.
func WithShutdownTimeout(d time.Duration) RegistryOption {
	return func(o *registryOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithRegistryLogger sets the logger for registry and cleanup operations.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
