package table

import (
	"fmt"
	"strings"
)

// EnsureColumn returns the header with name present, appending it when
// absent, along with the column's index. Matching is exact, so re-ensuring
// an existing name never creates a duplicate.
func EnsureColumn(header []string, name string) ([]string, int) {
	for i, h := range header {
		if h == name {
			return header, i
		}
	}
	return append(header, name), len(header)
}

// FamilyColumn names slot k (1-based) of a column family: the bare base for
// slot 1, "{base} {k}" beyond that.
func FamilyColumn(base string, k int) string {
	if k <= 1 {
		return base
	}
	return fmt.Sprintf("%s %d", base, k)
}

// EnsurePhoneColumns grows the header to hold n phone slots.
func EnsurePhoneColumns(header []string, n int) []string {
	for k := 1; k <= n; k++ {
		header, _ = EnsureColumn(header, FamilyColumn(ColPhone, k))
	}
	return header
}

// ContactSlot holds the header indexes for one contact slot's quad of
// columns.
type ContactSlot struct {
	Name     int
	Title    int
	LinkedIn int
	Email    int
}

// ContactSlots grows the header to hold n contact slots and returns the
// index quad for each slot.
func ContactSlots(header []string, n int) ([]string, []ContactSlot) {
	slots := make([]ContactSlot, 0, n)
	for k := 1; k <= n; k++ {
		var s ContactSlot
		header, s.Name = EnsureColumn(header, FamilyColumn(ColContactName, k))
		header, s.Title = EnsureColumn(header, FamilyColumn(ColContactTitle, k))
		header, s.LinkedIn = EnsureColumn(header, FamilyColumn(ColContactLinkedIn, k))
		header, s.Email = EnsureColumn(header, FamilyColumn(ColContactEmail, k))
		slots = append(slots, s)
	}
	return header, slots
}

// FillPhones writes numbers into the phone family, growing the header when
// more numbers arrive than columns exist. Slot 1 is only filled when the
// cell is currently empty; later slots are overwritten unconditionally. The
// returned row is padded to the returned header's length.
func FillPhones(header []string, row []string, numbers []string) ([]string, []string) {
	for k, num := range numbers {
		var idx int
		header, idx = EnsureColumn(header, FamilyColumn(ColPhone, k+1))
		row = PadRow(row, len(header))
		if k == 0 {
			row = SetIfEmpty(row, idx, num)
		} else {
			row[idx] = num
		}
	}
	return header, row
}

// PadRow extends row with empty cells to length n. It never truncates.
func PadRow(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}

// Cell returns the trimmed value at idx, or "" when the row is too short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// SetIfEmpty writes val at idx only when the cell is currently blank, never
// overwriting existing content. Empty values are not written.
func SetIfEmpty(row []string, idx int, val string) []string {
	row = PadRow(row, idx+1)
	if strings.TrimSpace(row[idx]) == "" && val != "" {
		row[idx] = val
	}
	return row
}
