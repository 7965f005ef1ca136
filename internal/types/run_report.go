package types

import "github.com/google/uuid"

// ContactOutcome is what the reconciler did with one contact channel.
type ContactOutcome string

// Contact outcomes
const (
	OutcomeInserted  ContactOutcome = "inserted"
	OutcomeUpdated   ContactOutcome = "updated"
	OutcomeUnchanged ContactOutcome = "unchanged"
	OutcomeSkipped   ContactOutcome = "skipped"
)

// QuotaSignal is the observation raised after inspecting the registry quota.
type QuotaSignal string

// Quota signals
const (
	QuotaNotChecked QuotaSignal = ""
	QuotaLow        QuotaSignal = "low"
	QuotaOK         QuotaSignal = "ok"
	QuotaUnknown    QuotaSignal = "unknown"
)

// ChannelReport is the reconciliation outcome of a single routed channel.
type ChannelReport struct {
	Type    ContactType    `json:"type"`
	Value   string         `json:"value,omitempty"`
	Outcome ContactOutcome `json:"outcome"`
}

// RunReport summarizes one unit of work.
type RunReport struct {
	Idle         bool            `json:"idle"`
	VendorID     uuid.UUID       `json:"vendor_id,omitempty"`
	TaxID        string          `json:"tax_id,omitempty"`
	LookupStatus LookupStatus    `json:"lookup_status,omitempty"`
	Message      string          `json:"message,omitempty"`
	NameChanged  bool            `json:"name_changed"`
	Channels     []ChannelReport `json:"channels,omitempty"`
	Quota        QuotaSignal     `json:"quota,omitempty"`
	Marked       bool            `json:"marked"`
	MarkedEarly  bool            `json:"marked_early"`
}

// Count returns how many channels ended with the given outcome.
func (r RunReport) Count(outcome ContactOutcome) int {
	n := 0
	for _, c := range r.Channels {
		if c.Outcome == outcome {
			n++
		}
	}
	return n
}
