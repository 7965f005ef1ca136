package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/vendor-enricher/internal/types"
)

// selectNextVendorSQL orders eligible vendors by fewest contacts, then vendors
// last touched by someone other than this worker, then oldest touch first.
// Rows claimed by a live run are skipped, as are rows locked by a concurrent
// selection.
const selectNextVendorSQL = `
SELECT p.id, p.tax_id, p.name, p.active, p.updated_by, p.updated_at,
       (SELECT count(*) FROM vendor_contacts c WHERE c.profile_id = p.id) AS contact_count
FROM vendor_profiles p
WHERE p.active
  AND btrim(p.tax_id) <> ''
  AND (p.claimed_at IS NULL OR p.claimed_at < now() - ($2::double precision * interval '1 second'))
ORDER BY contact_count ASC,
         (lower(coalesce(p.updated_by, '')) = lower($1)) ASC,
         p.updated_at ASC NULLS FIRST,
         p.id
LIMIT 1
FOR UPDATE OF p SKIP LOCKED`

// SelectNextEligibleVendor picks and claims the next vendor to enrich. It
// returns (nil, nil) when no vendor is eligible.
func (db *DB) SelectNextEligibleVendor(ctx context.Context, workerID string, claimTTL time.Duration) (vendor *types.Vendor, err error) {
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin selection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var v types.Vendor
	var updatedBy *string
	err = tx.QueryRow(ctx, selectNextVendorSQL, workerID, claimTTL.Seconds()).Scan(
		&v.ID, &v.TaxID, &v.Name, &v.Active, &updatedBy, &v.LastProcessedAt, &v.ContactCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select next vendor: %w", err)
	}
	if updatedBy != nil {
		v.LastProcessedBy = *updatedBy
	}

	if _, err = tx.Exec(ctx,
		`UPDATE vendor_profiles SET claimed_by = $2, claimed_at = now() WHERE id = $1`,
		v.ID, workerID,
	); err != nil {
		return nil, fmt.Errorf("failed to claim vendor %s: %w", v.ID, err)
	}

	return &v, nil
}

// MarkProcessed records that workerID finished with the vendor and releases its claim.
func (db *DB) MarkProcessed(ctx context.Context, vendorID uuid.UUID, workerID string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE vendor_profiles
		 SET updated_by = $2, updated_at = now(), claimed_by = NULL, claimed_at = NULL
		 WHERE id = $1`,
		vendorID, workerID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark vendor %s processed: %w", vendorID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("vendor %s: %w", vendorID, ErrNotFound)
	}
	return nil
}

// UpdateVendorName sets the vendor name together with its provenance.
func (db *DB) UpdateVendorName(ctx context.Context, vendorID uuid.UUID, name, workerID string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE vendor_profiles SET name = $2, updated_by = $3, updated_at = now() WHERE id = $1`,
		vendorID, name, workerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vendor %s name: %w", vendorID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("vendor %s: %w", vendorID, ErrNotFound)
	}
	return nil
}

// GetVendor retrieves a vendor by id. Returns nil if it does not exist.
func (db *DB) GetVendor(ctx context.Context, vendorID uuid.UUID) (*types.Vendor, error) {
	var v types.Vendor
	var updatedBy *string
	err := db.pool.QueryRow(ctx,
		`SELECT p.id, p.tax_id, p.name, p.active, p.updated_by, p.updated_at,
		        (SELECT count(*) FROM vendor_contacts c WHERE c.profile_id = p.id)
		 FROM vendor_profiles p WHERE p.id = $1`,
		vendorID,
	).Scan(&v.ID, &v.TaxID, &v.Name, &v.Active, &updatedBy, &v.LastProcessedAt, &v.ContactCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor %s: %w", vendorID, err)
	}
	if updatedBy != nil {
		v.LastProcessedBy = *updatedBy
	}
	return &v, nil
}

// GetVendorByTaxID retrieves a vendor by tax id. Returns nil if none matches.
func (db *DB) GetVendorByTaxID(ctx context.Context, taxID string) (*types.Vendor, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id FROM vendor_profiles WHERE tax_id = btrim($1) ORDER BY created_at LIMIT 1`,
		taxID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor by tax id: %w", err)
	}
	return db.GetVendor(ctx, id)
}
