// Package main provides the entry point for the vendor enrichment worker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vendor_enricher",
	Short: "Vendor tax registry enrichment worker",
	Long: `vendor_enricher picks the vendor most in need of tax registry data, looks up its tax id
and reconciles the registry answer into the stored vendor name and contacts.

Configuration is read from defaults, an optional --config file, VENDOR_ENRICHER_* environment
variables and command-line flags, in increasing order of precedence.`,
	SilenceUsage: true,
}

var (
	configPath string
	dbURL      string
	workerName string
	logLevel   string
	logFormat  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.PersistentFlags().StringVar(&workerName, "worker", "", "Worker identity recorded on every write")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: auto, json, console")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := shutdownContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// shutdownContext is cancelled on SIGINT or SIGTERM. Commands see it through
// cmd.Context(), so a vendor selected before the signal is still marked.
func shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
