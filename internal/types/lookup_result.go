package types

// LookupStatus is the application-level outcome reported by the registry.
type LookupStatus string

// Lookup statuses
const (
	LookupSuccess LookupStatus = "success"
	LookupNoMatch LookupStatus = "no_match"
	LookupFailure LookupStatus = "failure"
)

// LookupResult is the registry's answer for one tax id. It is never persisted verbatim.
// Record is only set when Status is LookupSuccess and the registry returned an entry
// for the requested tax id.
type LookupResult struct {
	TaxID   string       `json:"tax_id"`
	Status  LookupStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Record  *Record      `json:"record,omitempty"`
	Quota   *Quota       `json:"quota,omitempty"`
}

// Succeeded reports whether the field-mapping path may run.
func (r *LookupResult) Succeeded() bool {
	return r != nil && r.Status == LookupSuccess && r.Record != nil
}

// Record holds the registry fields consumed by the enrichment core.
type Record struct {
	Title       string    `json:"title"`
	Address     string    `json:"address"`
	PostalCode4 string    `json:"pc4"`
	PostalCode3 string    `json:"pc3"`
	City        string    `json:"city"`
	Status      string    `json:"status,omitempty"`
	Contacts    *Contacts `json:"contacts,omitempty"`
}

// Contacts are the optional contact channels of a registry record.
type Contacts struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Fax     string `json:"fax,omitempty"`
}

// Quota holds the remaining-usage counters returned with every lookup.
type Quota struct {
	Used   string `json:"used,omitempty"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Paid   bool   `json:"paid"`
}
