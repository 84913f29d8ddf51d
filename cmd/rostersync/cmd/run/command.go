// Package run implements the sync command.
package run

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/internal/appcontext"
	"github.com/agentstation/rostersync/internal/cmd/alerts"
	"github.com/agentstation/rostersync/internal/cmd/output"
	"github.com/agentstation/rostersync/internal/cmd/table"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/sync"
)

// Flags holds the sync command flags.
type Flags struct {
	DryRun      bool
	Groups      []string
	Concurrency int
	MetricsFile string
}

// NewCommand creates the sync command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Use:     "sync [group...]",
		GroupID: "core",
		Short:   "Synchronize directory groups with their rosters",
		Long: `Sync runs the full reconciliation for every configured group, or only the
named ones: provision, demote, backfill and the holds pass.

A group that fails to load or resolve is skipped and reported; the others
still run. The command exits non-zero when any group was aborted.`,
		Example: `  rostersync sync                        # Sync every configured group
  rostersync sync Faculty                # Sync one group
  rostersync sync --dry-run -o yaml      # Show what would change
  rostersync sync --metrics-file /var/lib/node_exporter/rostersync.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Groups = append(flags.Groups, args...)
			return Run(cmd, app, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "record intended changes without applying them")
	cmd.Flags().StringSliceVarP(&flags.Groups, "group", "g", nil, "group to sync (repeatable)")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0, "concurrent directory calls per group")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	return cmd
}

// Run executes a sync with the given flags and prints the result.
func Run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	ctx := cmd.Context()
	logger := app.Logger()

	dir, err := app.Directory(ctx)
	if err != nil {
		return err
	}

	opts := append(app.SyncOptions(), sync.WithDryRun(flags.DryRun), sync.WithGroups(flags.Groups...))
	if flags.Concurrency > 0 {
		opts = append(opts, sync.WithConcurrency(flags.Concurrency))
	}

	orchestrator, err := sync.New(dir, app.RosterProvider(), app.Groups(), opts...)
	if err != nil {
		return err
	}

	result := orchestrator.Run(logging.WithLogger(ctx, logger))

	metricsFile := flags.MetricsFile
	if metricsFile == "" {
		metricsFile = app.MetricsFile()
	}
	if metricsFile != "" {
		if err := app.Metrics().WriteTextfile(metricsFile); err != nil {
			logger.Error().Err(err).Str("path", metricsFile).Msg("Failed to write metrics")
		}
	}

	format := output.DetectFormat(app.OutputFormat())
	if err := printResult(cmd.OutOrStdout(), format, result); err != nil {
		return err
	}
	if format.IsTable() {
		if err := alerts.NewWriter(cmd.ErrOrStderr(), !app.NoColor()).WriteAll(alerts.FromResult(result)); err != nil {
			return err
		}
	}
	return result.Err()
}

func printResult(w io.Writer, format output.Format, result *sync.Result) error {
	formatter := output.NewFormatter(format)
	if !format.IsTable() {
		return formatter.Format(w, result)
	}

	if err := formatter.Format(w, table.ResultToTableData(result, format == output.FormatWide)); err != nil {
		return err
	}
	if result.DryRun {
		if calls := table.CallsToTableData(result); len(calls.Rows) > 0 {
			if err := formatter.Format(w, calls); err != nil {
				return err
			}
		}
	}
	if failures := table.FailuresToTableData(result); len(failures.Rows) > 0 {
		return formatter.Format(w, failures)
	}
	return nil
}
