package lookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/vendor-enricher/internal/types"
)

// response is the registry's JSON envelope. Records and credits are decoded
// separately so that a malformed credits block never hides the records.
type response struct {
	Result  string          `json:"result"`
	Message *string         `json:"message"`
	Records json.RawMessage `json:"records"`
	Credits json.RawMessage `json:"credits"`
}

type record struct {
	Title    *string         `json:"title"`
	Address  *string         `json:"address"`
	PC4      flexString      `json:"pc4"`
	PC3      flexString      `json:"pc3"`
	City     *string         `json:"city"`
	Status   *string         `json:"status"`
	Contacts json.RawMessage `json:"contacts"`
}

type contacts struct {
	Email   *string    `json:"email"`
	Phone   flexString `json:"phone"`
	Website *string    `json:"website"`
	Fax     flexString `json:"fax"`
}

type credits struct {
	Used flexString `json:"used"`
	Left *struct {
		Month  flexInt `json:"month"`
		Day    flexInt `json:"day"`
		Hour   flexInt `json:"hour"`
		Minute flexInt `json:"minute"`
		Paid   flexInt `json:"paid"`
	} `json:"left"`
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("null counter")
	}
	raw := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid counter %s: %w", data, err)
	}
	*f = flexInt(n)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// decodeResult maps a validated body onto a LookupResult for taxID.
func decodeResult(taxID string, body []byte) (*types.LookupResult, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Message: "invalid JSON body", Cause: err}
	}

	result := &types.LookupResult{
		TaxID:   taxID,
		Message: strings.TrimSpace(deref(resp.Message)),
		Quota:   decodeQuota(resp.Credits),
	}

	switch {
	case strings.EqualFold(strings.TrimSpace(resp.Result), "success"):
		result.Status = types.LookupSuccess
	case strings.EqualFold(result.Message, NoRecordsMessage):
		result.Status = types.LookupNoMatch
	default:
		result.Status = types.LookupFailure
	}

	if result.Status != types.LookupSuccess || !isObject(resp.Records) {
		return result, nil
	}

	var records map[string]record
	if err := json.Unmarshal(resp.Records, &records); err != nil {
		return nil, &DecodeError{Message: "invalid records", Cause: err}
	}
	rec, ok := records[strings.TrimSpace(taxID)]
	if !ok {
		return result, nil
	}

	out := &types.Record{
		Title:       strings.TrimSpace(deref(rec.Title)),
		Address:     strings.TrimSpace(deref(rec.Address)),
		PostalCode4: strings.TrimSpace(string(rec.PC4)),
		PostalCode3: strings.TrimSpace(string(rec.PC3)),
		City:        strings.TrimSpace(deref(rec.City)),
		Status:      strings.TrimSpace(deref(rec.Status)),
	}
	if isObject(rec.Contacts) {
		var c contacts
		if err := json.Unmarshal(rec.Contacts, &c); err != nil {
			return nil, &DecodeError{Message: "invalid contacts", Cause: err}
		}
		out.Contacts = &types.Contacts{
			Email:   strings.TrimSpace(deref(c.Email)),
			Phone:   strings.TrimSpace(string(c.Phone)),
			Website: strings.TrimSpace(deref(c.Website)),
			Fax:     strings.TrimSpace(string(c.Fax)),
		}
	}
	result.Record = out
	return result, nil
}

// decodeQuota returns nil when the credits block is absent or malformed.
func decodeQuota(raw json.RawMessage) *types.Quota {
	if !isObject(raw) {
		return nil
	}
	var c credits
	if err := json.Unmarshal(raw, &c); err != nil || c.Left == nil {
		return nil
	}
	return &types.Quota{
		Used:   string(c.Used),
		Month:  int(c.Left.Month),
		Day:    int(c.Left.Day),
		Hour:   int(c.Left.Hour),
		Minute: int(c.Left.Minute),
		Paid:   c.Left.Paid > 0,
	}
}
