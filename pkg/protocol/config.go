// Package protocol holds the configuration shared by the key exchange,
// signature and encoding layers.
package protocol

import (
	"crypto/rand"
	"io"

	"go.uber.org/zap"
)

// DefaultCacheSize bounds each memoization cache of a protocol instance.
const DefaultCacheSize = 1024

// Config holds the knobs of a protocol instance.
type Config struct {
	Logger    *zap.Logger // Defaults to a no-op logger
	CacheSize int         // Entries per memoization cache
	Random    io.Reader   // Source for nonces, crypto/rand by default
}

// Option mutates a Config.
type Option func(*Config)

// WithLogger sets the logger. Private keys and nonces are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithCacheSize sets the number of entries each cache keeps.
func WithCacheSize(n int) Option {
	return func(c *Config) {
		c.CacheSize = n
	}
}

// WithRandom replaces the randomness source.
func WithRandom(r io.Reader) Option {
	return func(c *Config) {
		c.Random = r
	}
}

// NewConfig applies opts over the defaults.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		Logger:    zap.NewNop(),
		CacheSize: DefaultCacheSize,
		Random:    rand.Reader,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Random == nil {
		cfg.Random = rand.Reader
	}
	return cfg
}
