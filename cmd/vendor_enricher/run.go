package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/vendor-enricher/internal/db"
	"github.com/jonathan/vendor-enricher/internal/logging"
	"github.com/jonathan/vendor-enricher/internal/observability"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Enrich a single vendor and exit",
	Long: `Selects the next eligible vendor, looks up its tax id and reconciles the answer.
The selected vendor is always marked as processed, even when the lookup fails.

Intended to be invoked by an external scheduler such as cron.`,
	Args: cobra.NoArgs,
	RunE: runOnceCmd,
}

var runVerbose bool

func init() {
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print a summary of the run")
	rootCmd.AddCommand(runCommand)
}

func runOnceCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, _ := withLogger(cmd.Context(), cfg)

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	worker, err := newWorker(database, cfg)
	if err != nil {
		return err
	}

	return enrichOnce(ctx, worker, cmd.OutOrStdout(), runVerbose)
}

// enrichOnce runs a single unit of work. Cancelling ctx interrupts the run,
// but the selected vendor is still marked before it returns.
func enrichOnce(ctx context.Context, w runner, out io.Writer, verbose bool) error {
	report, err := w.RunOnce(ctx)
	if verbose {
		observability.NewPrinter(out).PrintRunReport(report)
	}
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info().Msg("Import finished")
	return nil
}
