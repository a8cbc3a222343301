package app

import "time"

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	poolSize     int
	drainTimeout time.Duration
}

// WithPoolSize sets the number of background workers
func WithPoolSize(size int) Option {
	return func(cfg *appConfig) {
		cfg.poolSize = size
	}
}

// WithDrainTimeout sets how long Close waits for in-flight database
// work before abandoning it
func WithDrainTimeout(d time.Duration) Option {
	return func(cfg *appConfig) {
		cfg.drainTimeout = d
	}
}
