package enrichment

import (
	"context"
	"fmt"

	"github.com/jonathan/vendor-enricher/internal/types"
)

// ProfileUpdater keeps the vendor name in line with the registry title.
type ProfileUpdater struct {
	store    VendorStore
	workerID string
}

// NewProfileUpdater creates a profile updater writing as workerID.
func NewProfileUpdater(store VendorStore, workerID string) *ProfileUpdater {
	return &ProfileUpdater{store: store, workerID: workerID}
}

// ReconcileName overwrites the vendor name when title is non-empty and differs
// ignoring case. It reports whether the name was changed and updates vendor
// in place on success.
func (p *ProfileUpdater) ReconcileName(ctx context.Context, vendor *types.Vendor, title string) (bool, error) {
	title = clean(title)
	if title == "" || SameText(title, vendor.Name) {
		return false, nil
	}
	if err := p.store.UpdateVendorName(ctx, vendor.ID, title, p.workerID); err != nil {
		return false, fmt.Errorf("failed to update vendor name: %w", err)
	}
	vendor.Name = title
	return true, nil
}
