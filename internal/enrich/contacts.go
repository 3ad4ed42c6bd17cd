package enrich

import (
	"fmt"
	"strings"

	"github.com/sells-group/lookup-cli/internal/table"
	"github.com/sells-group/lookup-cli/pkg/agent"
)

// ContactMeta holds the shared metadata column indexes phase 2 merges into.
type ContactMeta struct {
	CompanyName int
	GovUK       int
	SourceURL   int
	Confidence  int
	Notes       int
}

// EnsureContactColumns grows the header with phase 2's lookup and metadata
// columns plus n contact slots, and returns the indexes of each.
func EnsureContactColumns(header []string, n int) ([]string, ContactMeta, []table.ContactSlot) {
	var m ContactMeta
	header, m.CompanyName = table.EnsureColumn(header, table.ColCompanyName)
	header, m.GovUK = table.EnsureColumn(header, table.ColGovUKURL)
	header, m.SourceURL = table.EnsureColumn(header, table.ColContactSourceURL)
	header, m.Confidence = table.EnsureColumn(header, table.ColConfidence)
	header, m.Notes = table.EnsureColumn(header, table.ColNotes)
	var slots []table.ContactSlot
	header, slots = table.ContactSlots(header, n)
	return header, m, slots
}

// SanitizeContacts trims every contact, drops any missing a name or a
// title, lowercases emails, and caps the list at target.
func SanitizeContacts(contacts []agent.Contact, target int) []agent.Contact {
	out := make([]agent.Contact, 0, len(contacts))
	for _, c := range contacts {
		name := strings.TrimSpace(c.Name)
		title := strings.TrimSpace(c.Title)
		if name == "" || title == "" {
			continue
		}
		out = append(out, agent.Contact{
			Name:     name,
			Title:    title,
			LinkedIn: strings.TrimSpace(c.LinkedIn),
			Email:    strings.ToLower(strings.TrimSpace(c.Email)),
		})
		if len(out) == target {
			break
		}
	}
	return out
}

// MergeContacts writes sanitized contacts into their slots, filling only
// empty cells, sets the shared source/confidence metadata once, and
// appends a single attempts marker to the notes. The marker is written for
// every attempted row, contacts or not; res may be nil.
func MergeContacts(row []string, slots []table.ContactSlot, meta ContactMeta, res *agent.ContactsResult, contacts []agent.Contact, attempts, retries int) []string {
	for k, c := range contacts {
		if k >= len(slots) {
			break
		}
		s := slots[k]
		row = table.SetIfEmpty(row, s.Name, c.Name)
		row = table.SetIfEmpty(row, s.Title, c.Title)
		row = table.SetIfEmpty(row, s.LinkedIn, c.LinkedIn)
		row = table.SetIfEmpty(row, s.Email, c.Email)
	}

	var agentNote string
	if res != nil {
		row = table.SetIfEmpty(row, meta.SourceURL, strings.TrimSpace(res.SourceURL))
		if res.Confidence > 0 {
			row = table.SetIfEmpty(row, meta.Confidence, FormatConfidence(res.Confidence))
		}
		agentNote = res.Notes
	}

	marker := fmt.Sprintf("Phase2 attempts: %d/%d", attempts, retries)
	row = table.PadRow(row, meta.Notes+1)
	row[meta.Notes] = JoinNotes(table.Cell(row, meta.Notes), agentNote, marker)
	return row
}
