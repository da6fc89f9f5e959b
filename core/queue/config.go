package queue

import "time"

// Config holds the registry configuration. Designed for environment-based
// configuration using popular env parsing libraries.
type Config struct {
	MaxWaitingTime  time.Duration `env:"QUEUE_MAX_WAITING_TIME" envDefault:"10m"`
	ShutdownTimeout time.Duration `env:"QUEUE_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Cleanup scheduler configuration
	CleanupEnabled      bool    `env:"QUEUE_CLEANUP_ENABLED" envDefault:"true"`
	CleanupIntervalDays float64 `env:"QUEUE_CLEANUP_INTERVAL_DAYS" envDefault:"1"`
	CleanupHour         int     `env:"QUEUE_CLEANUP_HOUR" envDefault:"0"`
	CleanupMinute       int     `env:"QUEUE_CLEANUP_MINUTE" envDefault:"0"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		MaxWaitingTime:      DefaultMaxWaitingTime,
		ShutdownTimeout:     30 * time.Second,
		CleanupEnabled:      true,
		CleanupIntervalDays: 1,
		CleanupHour:         0,
		CleanupMinute:       0,
	}
}
