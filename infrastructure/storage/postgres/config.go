// Package postgres provides PostgreSQL-backed implementations of storage interfaces.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	"github.com/felixgeelhaar/react-agent/domain/run"
)

// Config holds PostgreSQL connection configuration.
type Config struct {
	// DSN, when set, is used verbatim and the discrete fields are ignored.
	DSN string

	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	// MaxConns is the maximum pool size.
	MaxConns int32

	// MinConns is the minimum number of idle connections.
	MinConns int32

	// MaxConnLifetime is the maximum connection lifetime.
	MaxConnLifetime time.Duration

	// MaxConnIdleTime is the maximum idle time for connections.
	MaxConnIdleTime time.Duration

	// ConnectTimeout bounds the initial connection.
	ConnectTimeout time.Duration

	// Schema qualifies table names.
	Schema string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            5432,
		Database:        "askagent",
		User:            "postgres",
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        0,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		Schema:          "public",
	}
}

// Option configures the PostgreSQL connection.
type Option func(*Config)

// WithDSN sets a full connection string.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		c.DSN = dsn
	}
}

// WithSchema sets the schema. An empty value keeps the current one.
func WithSchema(schema string) Option {
	return func(c *Config) {
		if schema != "" {
			c.Schema = schema
		}
	}
}

// FromStorageConfig builds a Config from the storage section of the
// configuration file.
func FromStorageConfig(cfg domainconfig.StorageConfig) Config {
	c := DefaultConfig()
	for _, opt := range []Option{WithDSN(cfg.DSN), WithSchema(cfg.Schema)} {
		opt(&c)
	}
	return c
}

// ConnectionString returns the libpq-style connection string.
func (c Config) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode)
}

// NewPool opens a connection pool and verifies it.
func NewPool(ctx context.Context, cfg Config, opts ...Option) (*pgxpool.Pool, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, errors.Join(run.ErrConnectionFailed, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Join(run.ErrConnectionFailed, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(run.ErrConnectionFailed, err)
	}

	return pool, nil
}
