package enrich

import (
	"regexp"
	"strings"
)

// minPhoneLen is the shortest cleaned number kept; shorter fragments are
// extensions or noise, not dialable numbers.
const minPhoneLen = 7

var phoneCleanRe = regexp.MustCompile(`[^\d+]`)

// CleanNumber strips everything but digits and "+" from a raw phone string.
func CleanNumber(raw string) string {
	return phoneCleanRe.ReplaceAllString(strings.TrimSpace(raw), "")
}

// CleanNumbers cleans every number, drops the ones shorter than seven
// characters, and dedupes the rest preserving first-seen order.
func CleanNumbers(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, r := range raw {
		n := CleanNumber(r)
		if len(n) < minPhoneLen || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
