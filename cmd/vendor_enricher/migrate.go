package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/vendor-enricher/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Applies the embedded schema migrations for vendors, contact types and contacts.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireStore(); err != nil {
		return err
	}

	ctx, _ := withLogger(cmd.Context(), cfg)

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	applied, err := database.Migrate(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(applied) == 0 {
		fmt.Fprintln(out, "Database schema is up to date")
		return nil
	}
	for _, v := range applied {
		fmt.Fprintf(out, "Applied migration %05d\n", v)
	}
	return nil
}
