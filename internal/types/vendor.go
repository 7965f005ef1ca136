// Package types provides type definitions for the records exchanged between the
// vendor store, the registry lookup client and the enrichment core.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a business profile subject to enrichment.
type Vendor struct {
	ID              uuid.UUID  `json:"id"`
	TaxID           string     `json:"tax_id"`
	Name            string     `json:"name"`
	Active          bool       `json:"active"`
	ContactCount    int        `json:"contact_count"`
	LastProcessedBy string     `json:"last_processed_by,omitempty"`
	LastProcessedAt *time.Time `json:"last_processed_at,omitempty"`
}
