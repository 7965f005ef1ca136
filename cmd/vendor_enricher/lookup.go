package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/vendor-enricher/internal/observability"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <tax-id>",
	Short: "Query the tax registry without writing anything",
	Long: `Fetches the registry answer for one tax id and prints it together with the quota
signal. Nothing is written to the vendor store.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

var lookupJSON bool

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireLookup(); err != nil {
		return err
	}

	ctx, _ := withLogger(cmd.Context(), cfg)

	client, err := newLookupClient(cfg)
	if err != nil {
		return err
	}

	result, err := client.Fetch(ctx, strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}

	signal := quotaPolicy(cfg).Check(ctx, result.Quota)

	if lookupJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintLookupResult(result)
	printer.PrintQuotaSignal(signal)
	return nil
}
