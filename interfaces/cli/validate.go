package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	infraconfig "github.com/felixgeelhaar/react-agent/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate an askagent configuration file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Provider and driver names
  - Iteration budget, timeouts and resilience settings
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  askagent validate -c askagent.yaml

  # Strict validation (fail on missing env vars)
  askagent validate -c askagent.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("configuration file path is required (-c flag)")
	}

	loader := infraconfig.NewLoaderWithOptions(
		infraconfig.WithValidation(true),
		infraconfig.WithStrictEnv(opts.strict),
	)
	cfg, err := loader.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "Configuration is valid: %s\n", opts.configPath)
	a.printSummary(cfg)
	return nil
}

// printSummary prints the effective settings without credentials.
func (a *App) printSummary(cfg *domainconfig.Config) {
	fmt.Fprintf(a.stdout, "  Model: %s (%s)\n", cfg.Model.Provider, cfg.Model.Name)
	fmt.Fprintf(a.stdout, "  Search: %s (max %d results)\n", cfg.Search.Provider, cfg.Search.MaxResults)
	fmt.Fprintf(a.stdout, "  Max iterations: %d\n", cfg.Agent.MaxIterations)
	if cfg.Agent.Timeout > 0 {
		fmt.Fprintf(a.stdout, "  Timeout: %s\n", cfg.Agent.Timeout.Duration())
	}
	if cfg.Search.Cache.Driver != "" {
		fmt.Fprintf(a.stdout, "  Search cache: %s (ttl %s)\n", cfg.Search.Cache.Driver, cfg.Search.Cache.TTL.Duration())
	}
	if cfg.Storage.Driver != "" {
		fmt.Fprintf(a.stdout, "  Run history: %s\n", cfg.Storage.Driver)
	}
	if cfg.Telemetry.Enabled {
		fmt.Fprintf(a.stdout, "  Tracing: %s\n", cfg.Telemetry.Exporter)
	}
}
