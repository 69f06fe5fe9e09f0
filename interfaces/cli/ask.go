package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	infraconfig "github.com/felixgeelhaar/react-agent/infrastructure/config"
)

// askOptions holds options for the ask command.
type askOptions struct {
	configPath    string
	maxIterations int
	timeout       time.Duration
	provider      string
	modelName     string
	searchName    string
	logLevel      string
	verbose       bool
	jsonOutput    bool
}

// newAskCmd creates the ask command.
func (a *App) newAskCmd() *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question",
		Long: `Answer a question with the configured reasoning model and search provider.

The question is taken from the arguments, or from stdin when none are given.
The answer is printed to stdout; logs and the transcript go to stderr.

Exit codes:
  0  answered
  1  the question could not be answered
  2  the question was rejected (empty)

Examples:
  # Ask with the default configuration
  askagent ask "What is the capital of France?"

  # Ask with a config file and a larger budget
  askagent ask -c askagent.yaml --max-iterations 5 "Who won the 2024 Tour de France?"

  # Read the question from stdin and print the full run as JSON
  echo "Who wrote Dune?" | askagent ask --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (YAML or JSON)")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "Iteration budget for this question (overrides config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Deadline for the whole question (overrides config)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Model provider: gemini, openai, ollama or scripted")
	cmd.Flags().StringVar(&opts.modelName, "model", "", "Model identifier")
	cmd.Flags().StringVar(&opts.searchName, "search", "", "Search provider: duckduckgo, brave or static")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print the reasoning transcript to stderr")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the run as JSON")

	return cmd
}

// runAsk resolves one question and renders the outcome.
func (a *App) runAsk(cmd *cobra.Command, args []string, opts *askOptions) error {
	ctx := cmd.Context()

	cfg, err := infraconfig.Resolve(opts.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyAskFlags(cmd, cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.initLogging(cfg.Logging)

	question, err := a.readQuestion(args)
	if err != nil {
		return err
	}

	rt, err := a.newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.close(ctx) }()

	r, runErr := rt.engine.Resolve(ctx, question, cfg.Agent.MaxIterations)

	if opts.jsonOutput {
		if err := a.renderJSON(r, opts.verbose); err != nil {
			return err
		}
	} else {
		if opts.verbose {
			a.renderTranscript(r)
		}
		a.renderOutcome(r, runErr)
	}
	return exitFor(runErr)
}

// applyAskFlags overlays explicitly set flags on the loaded configuration.
func applyAskFlags(cmd *cobra.Command, cfg *domainconfig.Config, opts *askOptions) {
	flags := cmd.Flags()
	if flags.Changed("max-iterations") {
		cfg.Agent.MaxIterations = opts.maxIterations
	}
	if flags.Changed("timeout") {
		cfg.Agent.Timeout = domainconfig.Duration(opts.timeout)
	}
	if opts.provider != "" {
		cfg.Model.Provider = opts.provider
	}
	if opts.modelName != "" {
		cfg.Model.Name = opts.modelName
	}
	if opts.searchName != "" {
		cfg.Search.Provider = opts.searchName
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
}

// readQuestion joins the arguments, or reads stdin when there are none.
// An empty question is passed through so the engine can reject it.
func (a *App) readQuestion(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if a.stdin == nil {
		return "", nil
	}
	b, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read question: %w", err)
	}
	return string(b), nil
}
