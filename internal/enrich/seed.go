package enrich

import (
	"regexp"
	"strings"
)

// seedMaxLen caps the seed company string handed to the agent.
const seedMaxLen = 140

var (
	seedSplitRe  = regexp.MustCompile(`\s+-\s+|,|\n|\r`)
	unitPrefixRe = regexp.MustCompile(`(?i)^(unit|suite|apt|apartment|flat|office|room|floor|level|block|building|bldg|dept|department|the)\s+\w+\.?,?\s*`)
	houseNumRe   = regexp.MustCompile(`^\d+[A-Za-z\-]*\s*`)
)

// SeedCompany guesses a company name from a free-form address line: the
// first segment before any " - ", comma, or line break, with unit/suite
// style prefixes and leading house numbers stripped. When stripping leaves
// nothing it falls back to the whole address. The result is capped at 140
// characters.
func SeedCompany(address string) string {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return ""
	}
	cand := addr
	if loc := seedSplitRe.FindStringIndex(cand); loc != nil {
		cand = cand[:loc[0]]
	}
	cand = strings.TrimSpace(unitPrefixRe.ReplaceAllString(cand, ""))
	cand = strings.TrimSpace(houseNumRe.ReplaceAllString(cand, ""))
	if cand == "" {
		cand = addr
	}
	return capRunes(cand, seedMaxLen)
}

func capRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
