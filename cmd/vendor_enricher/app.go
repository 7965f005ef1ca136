package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/vendor-enricher/internal/config"
	"github.com/jonathan/vendor-enricher/internal/enrichment"
	"github.com/jonathan/vendor-enricher/internal/logging"
	"github.com/jonathan/vendor-enricher/internal/lookup"
)

// loadConfig loads configuration and applies the persistent flag overrides.
// Callers validate the result for what their command needs.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db-url") {
		cfg.DatabaseURL = strings.TrimSpace(dbURL)
	}
	if flags.Changed("worker") {
		cfg.Worker.Name = strings.TrimSpace(workerName)
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = strings.ToLower(logLevel)
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = strings.ToLower(logFormat)
	}
	return cfg, nil
}

// withLogger builds the logger described by cfg and attaches it to ctx.
func withLogger(ctx context.Context, cfg *config.Config) (context.Context, *zerolog.Logger) {
	logger := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
		Worker: cfg.Worker.Name,
	})
	return logging.WithLogger(ctx, &logger), &logger
}

func newLookupClient(cfg *config.Config) (*lookup.Client, error) {
	client, err := lookup.New(lookup.Options{
		BaseURL:      cfg.Lookup.URL,
		APIKey:       cfg.Lookup.Key,
		UserAgent:    cfg.Lookup.UserAgent,
		Timeout:      cfg.Lookup.Timeout,
		RateLimitRPS: cfg.Lookup.RateLimitRPS,
	})
	if err != nil {
		return nil, &config.Error{Field: "lookup", Message: "invalid lookup settings", Cause: err}
	}
	return client, nil
}

func quotaPolicy(cfg *config.Config) enrichment.QuotaPolicy {
	return enrichment.QuotaPolicy{
		LowWaterMark: cfg.Quota.LowWaterMark,
		AlertOnZero:  cfg.Quota.AlertOnZero,
	}
}

// newWorker wires the enrichment core to a store and a fresh lookup client.
func newWorker(store enrichment.VendorStore, cfg *config.Config) (*enrichment.Worker, error) {
	client, err := newLookupClient(cfg)
	if err != nil {
		return nil, err
	}
	worker, err := enrichment.NewWorker(store, client, enrichment.Options{
		WorkerID: cfg.Worker.Name,
		ClaimTTL: cfg.Selection.ClaimTTL,
		Quota:    quotaPolicy(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}
	return worker, nil
}
