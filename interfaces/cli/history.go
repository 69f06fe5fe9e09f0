package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/react-agent/application"
	"github.com/felixgeelhaar/react-agent/domain/agent"
	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	"github.com/felixgeelhaar/react-agent/domain/run"
	infraconfig "github.com/felixgeelhaar/react-agent/infrastructure/config"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage"
)

// historyOptions holds options for the history command.
type historyOptions struct {
	configPath string
	limit      int
	status     string
	summary    bool
	jsonOutput bool
}

// newHistoryCmd creates the history command.
func (a *App) newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded question outcomes",
		Long: `List the outcomes recorded in the configured run store.

Outcomes are recorded only when storage.driver is set. Transcripts are
never stored.

Examples:
  # Show the ten most recent outcomes
  askagent history -c askagent.yaml

  # Show only failures
  askagent history -c askagent.yaml --status failed

  # Show aggregate statistics
  askagent history -c askagent.yaml --summary

  # Show or delete one outcome
  askagent history show 3f1c... -c askagent.yaml
  askagent history delete 3f1c... -c askagent.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistory(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print as JSON")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of outcomes to list")
	cmd.Flags().StringVar(&opts.status, "status", "", "Filter by status: completed or failed")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Show aggregate statistics instead of a listing")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <run-id>",
			Short: "Show one recorded outcome",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withHistory(cmd.Context(), opts.configPath, func(ctx context.Context, svc *application.HistoryService) error {
					rec, err := svc.Get(ctx, args[0])
					if err != nil {
						return err
					}
					if opts.jsonOutput {
						return a.encodeJSON(rec)
					}
					a.printRecord(rec)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <run-id>",
			Short: "Delete one recorded outcome",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withHistory(cmd.Context(), opts.configPath, func(ctx context.Context, svc *application.HistoryService) error {
					if err := svc.Delete(ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(a.stdout, "Deleted %s\n", args[0])
					return nil
				})
			},
		},
	)

	return cmd
}

// withHistory opens only the configured run store and passes a history
// service over it to fn.
func (a *App) withHistory(ctx context.Context, configPath string, fn func(context.Context, *application.HistoryService) error) error {
	cfg, err := infraconfig.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.initLogging(cfg.Logging)

	backends, err := storage.Open(ctx, cfg.Storage, domainconfig.CacheConfig{})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = backends.Close() }()

	if backends.Runs == nil {
		return fmt.Errorf("%w: set storage.driver to record outcomes", application.ErrNoRunStore)
	}
	return fn(ctx, application.NewHistoryService(backends.Runs))
}

func (a *App) runHistory(cmd *cobra.Command, opts *historyOptions) error {
	filter := run.ListFilter{Limit: opts.limit}
	if opts.status != "" {
		status := agent.RunStatus(strings.ToLower(opts.status))
		if status != agent.RunStatusCompleted && status != agent.RunStatusFailed {
			return fmt.Errorf("invalid status %q: must be completed or failed", opts.status)
		}
		filter.Status = []agent.RunStatus{status}
	}

	return a.withHistory(cmd.Context(), opts.configPath, func(ctx context.Context, svc *application.HistoryService) error {
		if opts.summary {
			summary, err := svc.Summary(ctx, filter)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return a.encodeJSON(summary)
			}
			a.printHistorySummary(summary)
			return nil
		}

		records, err := svc.Recent(ctx, filter)
		if err != nil {
			return err
		}
		if opts.jsonOutput {
			return a.encodeJSON(records)
		}
		total, err := svc.Count(ctx, filter)
		if err != nil {
			return err
		}
		a.printRecords(records)
		if int64(len(records)) < total {
			fmt.Fprintf(a.stdout, "Showing %d of %d.\n", len(records), total)
		}
		return nil
	})
}

func (a *App) printRecord(rec run.Record) {
	fmt.Fprintf(a.stdout, "ID: %s\n", rec.ID)
	fmt.Fprintf(a.stdout, "Question: %s\n", rec.Question)
	fmt.Fprintf(a.stdout, "Status: %s\n", rec.Status)
	if rec.Answer != "" {
		fmt.Fprintf(a.stdout, "Answer: %s\n", rec.Answer)
	}
	if rec.ErrorKind != "" {
		fmt.Fprintf(a.stdout, "Error: %s (%s)\n", rec.ErrorKind.Message(), rec.ErrorKind)
	}
	fmt.Fprintf(a.stdout, "Iterations: %d (completions %d, searches %d)\n", rec.Iterations, rec.Completions, rec.Searches)
	fmt.Fprintf(a.stdout, "Started: %s\n", rec.StartTime.Format(time.RFC3339))
	fmt.Fprintf(a.stdout, "Duration: %s\n", rec.Duration())
}

func (a *App) printRecords(records []run.Record) {
	if len(records) == 0 {
		fmt.Fprintln(a.stdout, "No recorded outcomes.")
		return
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tITER\tQUESTION\tRESULT")
	for _, rec := range records {
		result := rec.Answer
		if rec.Status == agent.RunStatusFailed {
			result = string(rec.ErrorKind)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			rec.ID,
			rec.StartTime.Format("2006-01-02 15:04:05"),
			rec.Status,
			rec.Iterations,
			truncate(rec.Question, 40),
			truncate(result, 40),
		)
	}
	_ = w.Flush()
}

func (a *App) printHistorySummary(s run.Summary) {
	fmt.Fprintf(a.stdout, "Total: %d\n", s.TotalRuns)
	fmt.Fprintf(a.stdout, "Completed: %d\n", s.CompletedRuns)
	fmt.Fprintf(a.stdout, "Failed: %d\n", s.FailedRuns)
	fmt.Fprintf(a.stdout, "Average duration: %s\n", s.AverageDuration)

	if len(s.ByErrorKind) == 0 {
		return
	}
	kinds := make([]string, 0, len(s.ByErrorKind))
	for k := range s.ByErrorKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	fmt.Fprintln(a.stdout, "Failures by kind:")
	for _, k := range kinds {
		fmt.Fprintf(a.stdout, "  %s: %d\n", k, s.ByErrorKind[agent.ErrorKind(k)])
	}
}

func (a *App) encodeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
