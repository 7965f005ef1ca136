package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactType is the channel of a vendor contact. Values match the seeded
// names in the contact_types table.
type ContactType string

// Known contact types
const (
	ContactAddress     ContactType = "ADDRESS"
	ContactEmail       ContactType = "EMAIL"
	ContactTelephone   ContactType = "TELEPHONE"
	ContactMobilePhone ContactType = "MOBILEPHONE"
	ContactWebsite     ContactType = "WEBSITE"
	ContactFax         ContactType = "FAX"
)

// AllContactTypes lists every contact type in seed order.
func AllContactTypes() []ContactType {
	return []ContactType{
		ContactAddress,
		ContactEmail,
		ContactTelephone,
		ContactMobilePhone,
		ContactWebsite,
		ContactFax,
	}
}

// ParseContactType resolves a contact type name, ignoring case and surrounding spaces.
func ParseContactType(s string) (ContactType, error) {
	candidate := ContactType(strings.ToUpper(strings.TrimSpace(s)))
	for _, ct := range AllContactTypes() {
		if ct == candidate {
			return ct, nil
		}
	}
	return "", fmt.Errorf("unknown contact type %q", s)
}

func (c ContactType) String() string {
	return string(c)
}

// Contact is one typed communication channel value owned by a vendor.
type Contact struct {
	ID        uuid.UUID   `json:"id"`
	VendorID  uuid.UUID   `json:"vendor_id"`
	TypeID    uuid.UUID   `json:"type_id"`
	Type      ContactType `json:"type,omitempty"`
	Value     string      `json:"value"`
	Active    bool        `json:"active"`
	IsDefault bool        `json:"is_default"`
	CreatedBy string      `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedBy string      `json:"updated_by"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ContactInput is the data needed to insert a new contact row.
type ContactInput struct {
	VendorID  uuid.UUID
	TypeID    uuid.UUID
	Value     string
	Active    bool
	IsDefault bool
	CreatedBy string
}
