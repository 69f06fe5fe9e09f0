package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/react-agent/domain/cache"
	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	infraconfig "github.com/felixgeelhaar/react-agent/infrastructure/config"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage"
)

// errNoCache indicates a cache command ran without search.cache.driver set.
var errNoCache = errors.New("no search cache configured")

// newCacheCmd creates the cache command group.
func (a *App) newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the search result cache",
		Long: `Inspect or clear the search result cache named by search.cache.

Only a redis cache outlives a single process, so these commands are mostly
useful with search.cache.driver: redis.`,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show cache statistics",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCache(cmd.Context(), configPath, func(ctx context.Context, c cache.Cache) error {
					sp, ok := c.(cache.StatsProvider)
					if !ok {
						return fmt.Errorf("cache does not report statistics")
					}
					stats, err := sp.Stats(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.stdout, "Entries: %d\n", stats.Size)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached search result",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCache(cmd.Context(), configPath, func(ctx context.Context, c cache.Cache) error {
					if err := c.Clear(ctx); err != nil {
						return err
					}
					fmt.Fprintln(a.stdout, "Search cache cleared.")
					return nil
				})
			},
		},
	)

	return cmd
}

// withCache opens only the configured search cache and passes it to fn.
func (a *App) withCache(ctx context.Context, configPath string, fn func(context.Context, cache.Cache) error) error {
	cfg, err := infraconfig.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.initLogging(cfg.Logging)

	if cfg.Search.Cache.Driver == "" {
		return fmt.Errorf("%w: set search.cache.driver", errNoCache)
	}

	backends, err := storage.Open(ctx, domainconfig.StorageConfig{}, cfg.Search.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() { _ = backends.Close() }()

	return fn(ctx, backends.Cache)
}
