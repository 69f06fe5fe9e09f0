// Package redis provides a Redis-backed search result cache.
package redis

import (
	"time"

	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
)

// Config holds the cache's connection settings.
type Config struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string

	// MaxRetries is the client's retry count per command. Search results
	// are cheap to recompute, so this stays low.
	MaxRetries int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	PoolSize     int
	MinIdleConns int
}

// DefaultConfig returns a local, single-process configuration.
func DefaultConfig() Config {
	return Config{
		Address:      "localhost:6379",
		KeyPrefix:    "askagent:",
		MaxRetries:   1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     4,
		MinIdleConns: 1,
	}
}

// FromCacheConfig overlays the configured cache section on DefaultConfig.
// Empty address and prefix keep their defaults.
func FromCacheConfig(cc domainconfig.CacheConfig) Config {
	cfg := DefaultConfig()
	if cc.Address != "" {
		cfg.Address = cc.Address
	}
	if cc.KeyPrefix != "" {
		cfg.KeyPrefix = cc.KeyPrefix
	}
	cfg.Password = cc.Password
	cfg.DB = cc.DB
	return cfg
}

// ConfigOption adjusts a Config before connecting.
type ConfigOption func(*Config)

// WithAddress sets host:port.
func WithAddress(addr string) ConfigOption {
	return func(c *Config) { c.Address = addr }
}

// WithKeyPrefix sets the namespace for every key.
func WithKeyPrefix(prefix string) ConfigOption {
	return func(c *Config) { c.KeyPrefix = prefix }
}

// WithTimeouts sets the dial, read and write timeouts.
func WithTimeouts(dial, read, write time.Duration) ConfigOption {
	return func(c *Config) {
		c.DialTimeout, c.ReadTimeout, c.WriteTimeout = dial, read, write
	}
}
