package enrichment

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SameText reports whether a and b are equal ignoring case. It lowercases
// rune by rune, the same mapping PostgreSQL lower() applies, so a value the
// store matched and a value compared here never disagree. Unlike full case
// folding, "ß" and "ss" stay distinct.
func SameText(a, b string) bool {
	return a == b || strings.ToLower(a) == strings.ToLower(b)
}

// clean trims s and puts it in NFC so composed and decomposed accents
// compare and store as the same text.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
