package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/vendor-enricher/internal/db"
	"github.com/jonathan/vendor-enricher/internal/observability"
	"github.com/jonathan/vendor-enricher/internal/types"
)

var showCmd = &cobra.Command{
	Use:   "show <tax-id>",
	Short: "Print a stored vendor and its contacts",
	Long: `Reads the vendor with the given tax id and lists its contacts, including who created
each one. Nothing is written and the registry is not queried.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showType string

func init() {
	showCmd.Flags().StringVar(&showType, "type", "", "Only list contacts of this type (ADDRESS, EMAIL, TELEPHONE, MOBILEPHONE, WEBSITE, FAX)")
	rootCmd.AddCommand(showCmd)
}

// vendorReader is the read side of the store; *db.DB satisfies it.
type vendorReader interface {
	GetVendorByTaxID(ctx context.Context, taxID string) (*types.Vendor, error)
	ListContacts(ctx context.Context, vendorID uuid.UUID) ([]types.Contact, error)
}

func runShow(cmd *cobra.Command, args []string) error {
	var filter types.ContactType
	if showType != "" {
		ct, err := types.ParseContactType(showType)
		if err != nil {
			return fmt.Errorf("invalid --type: %w", err)
		}
		filter = ct
	}

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

	return showVendor(ctx, database, args[0], filter, observability.NewPrinter(cmd.OutOrStdout()))
}

// showVendor prints the vendor and its contacts, restricted to filter when it is set.
func showVendor(ctx context.Context, r vendorReader, taxID string, filter types.ContactType, p *observability.Printer) error {
	vendor, err := r.GetVendorByTaxID(ctx, taxID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return fmt.Errorf("vendor with tax id %s: %w", taxID, db.ErrNotFound)
	}

	contacts, err := r.ListContacts(ctx, vendor.ID)
	if err != nil {
		return err
	}
	if filter != "" {
		kept := contacts[:0]
		for _, c := range contacts {
			if c.Type == filter {
				kept = append(kept, c)
			}
		}
		contacts = kept
	}

	p.PrintVendor(vendor)
	p.PrintContacts(contacts)
	return nil
}
