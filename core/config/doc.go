// Package config provides type-safe environment variable loading with
// per-type caching using Go generics. A .env file is loaded automatically on
// first use; parsing is handled by the caarlos0/env library.
//
// Basic usage:
//
//	import (
//		"github.com/dmitrymomot/balanceq/core/config"
//		"github.com/dmitrymomot/balanceq/core/queue"
//	)
//
//	func main() {
//		var cfg queue.Config
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//
//		registry, err := queue.NewRegistryFromConfig[int, string](cfg, []int{0, 1})
//		...
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 queue.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 queue.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently, so every component can define
// its own configuration struct without interfering with others.
package config
