// Package enrich turns one spreadsheet row into agent requests and merges
// the agent's answers back into the row. All merges are only-if-empty: a
// re-run over an already-enriched table never clobbers existing cells.
package enrich

import (
	"regexp"
	"strings"
)

// SourceColumns locates the input fields a phase 1 lookup is built from.
// Missing columns are reported as -1.
type SourceColumns struct {
	Address  int
	Postcode int
}

// Found reports whether both source columns were located.
func (s SourceColumns) Found() bool {
	return s.Address >= 0 && s.Postcode >= 0
}

var headerNormRe = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeader lowercases a header cell and collapses every non
// alphanumeric run to a single underscore, so "Post Code" and "POST-CODE"
// both become "post_code".
func normalizeHeader(cell string) string {
	s := strings.ToLower(strings.TrimSpace(cell))
	s = headerNormRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// FindSourceColumns resolves the address and postcode columns by normalized
// substring match, so "Site Address", "Post Code", or "POSTCODE" in any
// casing are all found. The first matching column wins.
func FindSourceColumns(header []string) SourceColumns {
	cols := SourceColumns{Address: -1, Postcode: -1}
	for i, h := range header {
		n := normalizeHeader(h)
		if cols.Address < 0 && strings.Contains(n, "address") {
			cols.Address = i
		}
		if cols.Postcode < 0 && (strings.Contains(n, "postcode") || strings.Contains(n, "post_code")) {
			cols.Postcode = i
		}
	}
	return cols
}
