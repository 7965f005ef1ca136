package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/vendor-enricher/internal/db"
	"github.com/jonathan/vendor-enricher/internal/logging"
	"github.com/jonathan/vendor-enricher/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Enrich vendors repeatedly until interrupted",
	Long: `Runs one enrichment unit of work per interval in each of --workers loops. Loops never
share a vendor; selection claims the vendor it returns. Stops on SIGINT or SIGTERM after
marking any vendor in progress.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchInterval time.Duration
	watchWorkers  int
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Time between runs (overrides watch.interval)")
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 0, "Number of concurrent loops (overrides watch.workers)")
	rootCmd.AddCommand(watchCmd)
}

// runner is one unit of work; *enrichment.Worker satisfies it.
type runner interface {
	RunOnce(ctx context.Context) (types.RunReport, error)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("interval") {
		cfg.Watch.Interval = watchInterval
	}
	if cmd.Flags().Changed("workers") {
		cfg.Watch.Workers = watchWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, logger := withLogger(cmd.Context(), cfg)

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	worker, err := newWorker(database, cfg)
	if err != nil {
		return err
	}

	logger.Info().
		Dur("interval", cfg.Watch.Interval).
		Int("workers", cfg.Watch.Workers).
		Msg("Watching for vendors")

	g, gCtx := errgroup.WithContext(ctx)
	for slot := 0; slot < cfg.Watch.Workers; slot++ {
		g.Go(func() error {
			return watchLoop(gCtx, worker, cfg.Watch.Interval, slot)
		})
	}
	err = g.Wait()
	logger.Info().Msg("Stopped watching")
	return err
}

// watchLoop calls RunOnce immediately and then once per interval until ctx is
// done. Run errors are logged and do not stop the loop.
func watchLoop(ctx context.Context, w runner, interval time.Duration, slot int) error {
	ctx = logging.WithField(ctx, "slot", strconv.Itoa(slot))
	log := logging.FromContext(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := w.RunOnce(ctx)
		switch {
		case err != nil:
			log.Error().Err(err).Msg("Run failed")
		case report.Idle:
			log.Debug().Msg("Nothing to do, waiting for next tick")
		}
		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
