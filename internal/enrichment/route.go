package enrichment

import (
	"fmt"
	"strings"

	"github.com/jonathan/vendor-enricher/internal/types"
)

// MobilePrefix is the leading digit that marks a phone number as mobile.
const MobilePrefix = "9"

// Channel is a contact value routed to its contact type. An empty Value means
// the registry had nothing for the channel and it is skipped.
type Channel struct {
	Type  types.ContactType
	Value string
}

// AddressValue formats the registry address as "{address} {pc4}-{pc3} {city}".
// It returns "" when the raw address is empty.
func AddressValue(rec *types.Record) string {
	if rec == nil || clean(rec.Address) == "" {
		return ""
	}
	return fmt.Sprintf("%s %s-%s %s", clean(rec.Address), clean(rec.PostalCode4), clean(rec.PostalCode3), clean(rec.City))
}

// PhoneType routes a phone number to MOBILEPHONE or TELEPHONE.
func PhoneType(phone string) types.ContactType {
	if strings.HasPrefix(clean(phone), MobilePrefix) {
		return types.ContactMobilePhone
	}
	return types.ContactTelephone
}

// Route maps a registry record onto contact channels in a fixed order:
// address, email, phone, website, fax.
func Route(rec *types.Record) []Channel {
	var contacts types.Contacts
	if rec != nil && rec.Contacts != nil {
		contacts = *rec.Contacts
	}

	phone := clean(contacts.Phone)
	return []Channel{
		{Type: types.ContactAddress, Value: AddressValue(rec)},
		{Type: types.ContactEmail, Value: clean(contacts.Email)},
		{Type: PhoneType(phone), Value: phone},
		{Type: types.ContactWebsite, Value: clean(contacts.Website)},
		{Type: types.ContactFax, Value: clean(contacts.Fax)},
	}
}
