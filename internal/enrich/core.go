package enrich

import (
	"fmt"
	"strings"

	"github.com/sells-group/lookup-cli/internal/table"
	"github.com/sells-group/lookup-cli/pkg/agent"
)

// CoreColumns holds the output header indexes phase 1 merges into.
type CoreColumns struct {
	Address     int
	Postcode    int
	CompanyName int
	Website     int
	Email       int
	GovUK       int
	SourceURL   int
	Confidence  int
	Notes       int
}

// EnsureCoreColumns grows the header with every phase 1 output column,
// in canonical order for fresh files, and returns their indexes. Columns
// already present keep their positions.
func EnsureCoreColumns(header []string) ([]string, CoreColumns) {
	var c CoreColumns
	header, c.Address = table.EnsureColumn(header, table.ColAddress)
	header, c.Postcode = table.EnsureColumn(header, table.ColPostcode)
	header, c.CompanyName = table.EnsureColumn(header, table.ColCompanyName)
	header, c.Website = table.EnsureColumn(header, table.ColWebsite)
	header, c.Email = table.EnsureColumn(header, table.ColGeneralEmail)
	header, _ = table.EnsureColumn(header, table.ColPhone)
	header, c.GovUK = table.EnsureColumn(header, table.ColGovUKURL)
	header, c.SourceURL = table.EnsureColumn(header, table.ColSourceURL)
	header, c.Confidence = table.EnsureColumn(header, table.ColConfidence)
	header, c.Notes = table.EnsureColumn(header, table.ColNotes)
	return header, c
}

// Source is the raw row input a phase 1 lookup was built from.
type Source struct {
	Address  string
	Postcode string
}

// HasCore reports whether a lookup answer is good enough to stop retrying:
// a website with a general inbox, at least one phone number, or a company
// name anchored to a gov.uk page.
func HasCore(core *agent.CompanyCore) bool {
	if core == nil {
		return false
	}
	hasSiteInbox := core.Website != "" && core.Email != ""
	hasPhone := len(core.PhoneNumbers) > 0
	hasIdentity := core.CompanyName != "" && core.GovUKURL != ""
	return hasSiteInbox || hasPhone || hasIdentity
}

// MergeCore writes a lookup answer into the row, filling only empty cells.
// The address and postcode columns are backfilled from the source fields
// even when the agent came back empty-handed, and the notes cell always
// gains an attempts marker. Cleaned phone numbers are returned for the
// caller to fill at write time; core may be nil.
func MergeCore(row []string, cols CoreColumns, src Source, core *agent.CompanyCore, attempts, retries int) ([]string, []string) {
	row = table.SetIfEmpty(row, cols.Address, src.Address)

	var nums []string
	var agentNote string
	postcode := src.Postcode
	if core != nil {
		if pc := strings.TrimSpace(core.Postcode); pc != "" {
			postcode = pc
		}
		row = table.SetIfEmpty(row, cols.CompanyName, strings.TrimSpace(core.CompanyName))
		row = table.SetIfEmpty(row, cols.Website, strings.TrimSpace(core.Website))
		row = table.SetIfEmpty(row, cols.Email, strings.ToLower(strings.TrimSpace(core.Email)))
		row = table.SetIfEmpty(row, cols.GovUK, strings.TrimSpace(core.GovUKURL))
		row = table.SetIfEmpty(row, cols.SourceURL, strings.TrimSpace(core.SourceURL))
		if core.Confidence > 0 {
			row = table.SetIfEmpty(row, cols.Confidence, FormatConfidence(core.Confidence))
		}
		agentNote = core.Notes
		nums = CleanNumbers(core.PhoneNumbers)
	}
	row = table.SetIfEmpty(row, cols.Postcode, postcode)

	marker := fmt.Sprintf("Phase1 attempts: %d/%d", attempts, retries)
	row = table.PadRow(row, cols.Notes+1)
	row[cols.Notes] = JoinNotes(table.Cell(row, cols.Notes), agentNote, marker)
	return row, nums
}

// FormatConfidence renders a confidence score the way it appears in the
// sheet, fixed to two decimals.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.2f", c)
}

// JoinNotes joins non-empty note fragments with "; ", trimming each.
func JoinNotes(parts ...string) string {
	keep := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, "; ")
}
