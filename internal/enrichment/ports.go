// Package enrichment reconciles tax registry answers into stored vendor
// profiles: vendor selection and completion, name updates, contact
// reconciliation and quota monitoring.
package enrichment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/vendor-enricher/internal/types"
)

// VendorStore is the persistence the enrichment core depends on. All string
// arguments are data and must be bound as query parameters by implementations.
type VendorStore interface {
	SelectNextEligibleVendor(ctx context.Context, workerID string, claimTTL time.Duration) (*types.Vendor, error)
	MarkProcessed(ctx context.Context, vendorID uuid.UUID, workerID string) error
	UpdateVendorName(ctx context.Context, vendorID uuid.UUID, name, workerID string) error
	GetContactTypeID(ctx context.Context, ct types.ContactType) (uuid.UUID, error)
	FindMatchingContact(ctx context.Context, vendorID, typeID uuid.UUID, value, workerID string) (*types.Contact, error)
	InsertContact(ctx context.Context, in types.ContactInput) (uuid.UUID, error)
	UpdateContact(ctx context.Context, contactID, vendorID, typeID uuid.UUID, value, workerID string) (int64, error)
}

// Lookup fetches the registry answer for a tax id. Transport and decode
// failures are returned as errors; "no records" and other registry failures
// are reported through the result status.
type Lookup interface {
	Fetch(ctx context.Context, taxID string) (*types.LookupResult, error)
}
