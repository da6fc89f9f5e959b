package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// cache stores one parsed value per configuration type.
	cache sync.Map // reflect.Type -> parsed struct value

	// envOnce guards the one-time .env autoload.
	envOnce sync.Once
)

// Load parses environment variables into cfg using its `env` struct tags.
// A .env file in the working directory is loaded once per process before the
// first parse; a missing file is not an error. Each configuration type is
// parsed only once: subsequent calls for the same type return the cached
// value regardless of environment changes in between.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	envOnce.Do(func() { _ = godotenv.Load() })

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse config %T: %w", *cfg, err)
	}

	// First writer wins so concurrent loaders observe one consistent value.
	actual, _ := cache.LoadOrStore(key, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is Load that panics on failure, useful during application startup
// where a missing required variable should abort the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
