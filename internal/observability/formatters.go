// Package observability provides formatted output utilities for the lookup
// command and verbose run mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/vendor-enricher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// valueWidth is where long field values are cut inside a box
	valueWidth = 44
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func field(sb *strings.Builder, label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(sb, "%-9s %s\n", label+":", truncate(value, valueWidth))
}

// PrintVendor outputs the selected vendor.
func (p *Printer) PrintVendor(vendor *types.Vendor) {
	if vendor == nil {
		return
	}

	var sb strings.Builder
	field(&sb, "Tax ID", vendor.TaxID)
	field(&sb, "Name", vendor.Name)
	field(&sb, "Contacts", fmt.Sprintf("%d", vendor.ContactCount))
	if vendor.LastProcessedAt != nil {
		field(&sb, "Last run", fmt.Sprintf("%s by %s", vendor.LastProcessedAt.Format("2006-01-02 15:04"), vendor.LastProcessedBy))
	}

	p.printBox("VENDOR "+vendor.ID.String(), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintContacts outputs a vendor's stored contacts, one per line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintContacts(contacts []types.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(p.out, "No contacts")
		return
	}
	for _, c := range contacts {
		flags := ""
		if !c.Active {
			flags += " (inactive)"
		}
		if c.IsDefault {
			flags += " (default)"
		}
		fmt.Fprintf(p.out, "  %-11s %s%s  [%s]\n", c.Type, truncate(c.Value, valueWidth), flags, c.CreatedBy)
	}
}

// PrintLookupResult outputs the registry answer for one tax id.
func (p *Printer) PrintLookupResult(result *types.LookupResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	field(&sb, "Tax ID", result.TaxID)
	field(&sb, "Status", string(result.Status))
	if result.Message != "" {
		field(&sb, "Message", result.Message)
	}

	if rec := result.Record; rec != nil {
		sb.WriteString("\n")
		field(&sb, "Title", rec.Title)
		field(&sb, "Address", rec.Address)
		if rec.PostalCode4 != "" {
			field(&sb, "Postal", rec.PostalCode4+"-"+rec.PostalCode3)
		}
		field(&sb, "City", rec.City)
		if c := rec.Contacts; c != nil {
			field(&sb, "Email", c.Email)
			field(&sb, "Phone", c.Phone)
			field(&sb, "Website", c.Website)
			field(&sb, "Fax", c.Fax)
		}
	}

	if q := result.Quota; q != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Credits:  month %d, day %d, hour %d, minute %d", q.Month, q.Day, q.Hour, q.Minute))
		if q.Paid {
			sb.WriteString(" (paid)")
		}
		sb.WriteString("\n")
	}

	p.printBox("REGISTRY LOOKUP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuotaSignal outputs the quota observation of a lookup.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintQuotaSignal(signal types.QuotaSignal) {
	switch signal {
	case types.QuotaLow:
		fmt.Fprintln(p.out, "⚠ LOW CREDITS: check service frequency")
	case types.QuotaUnknown:
		fmt.Fprintln(p.out, "⚠ credits information unavailable")
	case types.QuotaOK:
		fmt.Fprintln(p.out, "✓ credits ok")
	}
}

// PrintRunReport outputs what one run did.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunReport(report types.RunReport) {
	if report.Idle {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO VENDOR SELECTED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	field(&sb, "Vendor", report.VendorID.String())
	field(&sb, "Tax ID", report.TaxID)
	status := string(report.LookupStatus)
	if status == "" {
		status = "not available"
	}
	field(&sb, "Lookup", status)
	if report.Message != "" {
		field(&sb, "Message", report.Message)
	}
	if report.NameChanged {
		field(&sb, "Name", "updated")
	}

	if len(report.Channels) > 0 {
		sb.WriteString("\nContacts:\n")
		for _, ch := range report.Channels {
			line := fmt.Sprintf("  %-11s %-9s", ch.Type, ch.Outcome)
			if ch.Value != "" {
				line += " " + ch.Value
			}
			sb.WriteString(strings.TrimRight(line, " ") + "\n")
		}
	}

	sb.WriteString("\n")
	if string(report.Quota) != "" {
		field(&sb, "Quota", string(report.Quota))
	}
	switch {
	case report.MarkedEarly:
		field(&sb, "Marked", "yes (no records)")
	case report.Marked:
		field(&sb, "Marked", "yes")
	default:
		field(&sb, "Marked", "no")
	}

	p.printBox("ENRICHMENT RUN", strings.TrimSuffix(sb.String(), "\n"))
}
