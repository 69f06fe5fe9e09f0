// Package storage opens the configured outcome store and search cache.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/react-agent/domain/cache"
	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	"github.com/felixgeelhaar/react-agent/domain/run"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage/memory"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage/postgres"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage/redis"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage/sqlite"
)

// Backends holds the opened storage backends. Either field may be nil when
// the corresponding driver is not configured.
type Backends struct {
	Runs  run.Store
	Cache cache.Cache

	closers []func() error
}

// Open connects the run store and search cache named by cfg.
func Open(ctx context.Context, storage domainconfig.StorageConfig, cacheCfg domainconfig.CacheConfig) (*Backends, error) {
	b := &Backends{}

	runs, err := b.openRuns(ctx, storage)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Runs = runs

	c, err := b.openCache(ctx, cacheCfg)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Cache = c

	return b, nil
}

func (b *Backends) openRuns(ctx context.Context, cfg domainconfig.StorageConfig) (run.Store, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case domainconfig.DriverMemory:
		return memory.NewRunStore(), nil
	case domainconfig.DriverSQLite:
		store, err := sqlite.NewRunStore(sqlite.DefaultConfig(), sqlite.WithDSN(cfg.DSN))
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, store.Close)
		return store, nil
	case domainconfig.DriverPostgres:
		pc := postgres.FromStorageConfig(cfg)
		pool, err := postgres.NewPool(ctx, pc)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error { pool.Close(); return nil })
		store := postgres.NewRunStore(pool, pc.Schema)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", run.ErrUnknownDriver, cfg.Driver)
	}
}

func (b *Backends) openCache(ctx context.Context, cfg domainconfig.CacheConfig) (cache.Cache, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case domainconfig.DriverMemory:
		return memory.NewCache(memory.WithMaxSize(cfg.MaxEntries)), nil
	case domainconfig.DriverRedis:
		c, err := redis.NewCache(ctx, redis.FromCacheConfig(cfg))
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, c.Close)
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", cache.ErrUnknownDriver, cfg.Driver)
	}
}

// Close releases every opened backend.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
