package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureColumn_AppendsOnce(t *testing.T) {
	t.Parallel()

	header := []string{"ADDRESS", "POSTCODE"}

	header, idx := EnsureColumn(header, ColCompanyName)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []string{"ADDRESS", "POSTCODE", "COMPANY NAME"}, header)

	again, idx2 := EnsureColumn(header, ColCompanyName)
	assert.Equal(t, 2, idx2)
	assert.Equal(t, header, again)
}

func TestEnsureColumn_ExactMatchOnly(t *testing.T) {
	t.Parallel()

	header := []string{"company name"}
	header, idx := EnsureColumn(header, ColCompanyName)
	assert.Equal(t, 1, idx)
	assert.Len(t, header, 2)
}

func TestFamilyColumn_Naming(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PHONE NUMBER", FamilyColumn(ColPhone, 1))
	assert.Equal(t, "PHONE NUMBER 2", FamilyColumn(ColPhone, 2))
	assert.Equal(t, "PHONE NUMBER 10", FamilyColumn(ColPhone, 10))
}

func TestEnsurePhoneColumns(t *testing.T) {
	t.Parallel()

	header := EnsurePhoneColumns([]string{"ADDRESS"}, 3)
	assert.Equal(t, []string{"ADDRESS", "PHONE NUMBER", "PHONE NUMBER 2", "PHONE NUMBER 3"}, header)

	// Idempotent on a second pass.
	assert.Equal(t, header, EnsurePhoneColumns(header, 3))
}

func TestContactSlots(t *testing.T) {
	t.Parallel()

	header, slots := ContactSlots([]string{"COMPANY NAME"}, 2)
	assert.Equal(t, []string{
		"COMPANY NAME",
		"DIRECT CONTACT", "JOBTITLE", "LINKEDIN", "EMAIL",
		"DIRECT CONTACT 2", "JOBTITLE 2", "LINKEDIN 2", "EMAIL 2",
	}, header)
	assert.Len(t, slots, 2)
	assert.Equal(t, ContactSlot{Name: 1, Title: 2, LinkedIn: 3, Email: 4}, slots[0])
	assert.Equal(t, ContactSlot{Name: 5, Title: 6, LinkedIn: 7, Email: 8}, slots[1])
}

func TestFillPhones_FirstSlotPreserved(t *testing.T) {
	t.Parallel()

	header := []string{"ADDRESS", "PHONE NUMBER"}
	row := []string{"1 High St", "02079460000"}

	header, row = FillPhones(header, row, []string{"+442079460000", "07700900001"})
	assert.Equal(t, []string{"ADDRESS", "PHONE NUMBER", "PHONE NUMBER 2"}, header)
	// Slot 1 already had a number and keeps it; slot 2 is written.
	assert.Equal(t, []string{"1 High St", "02079460000", "07700900001"}, row)
}

func TestFillPhones_LaterSlotsOverwrite(t *testing.T) {
	t.Parallel()

	header := []string{"PHONE NUMBER", "PHONE NUMBER 2"}
	row := []string{"", "stale"}

	header, row = FillPhones(header, row, []string{"111", "222"})
	assert.Equal(t, []string{"PHONE NUMBER", "PHONE NUMBER 2"}, header)
	assert.Equal(t, []string{"111", "222"}, row)
}

func TestFillPhones_GrowsHeaderAndPadsRow(t *testing.T) {
	t.Parallel()

	header, row := FillPhones([]string{"ADDRESS"}, []string{"1 High St"}, []string{"111"})
	assert.Equal(t, []string{"ADDRESS", "PHONE NUMBER"}, header)
	assert.Equal(t, []string{"1 High St", "111"}, row)
}

func TestPadRow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "", ""}, PadRow([]string{"a"}, 3))
	assert.Equal(t, []string{"a", "b"}, PadRow([]string{"a", "b"}, 1))
}

func TestSetIfEmpty(t *testing.T) {
	t.Parallel()

	row := SetIfEmpty([]string{"", "kept"}, 0, "new")
	assert.Equal(t, []string{"new", "kept"}, row)

	row = SetIfEmpty(row, 1, "clobber")
	assert.Equal(t, "kept", row[1])

	// Whitespace-only counts as empty.
	row = SetIfEmpty([]string{"   "}, 0, "v")
	assert.Equal(t, "v", row[0])

	// Writing past the end pads first.
	row = SetIfEmpty([]string{"a"}, 2, "c")
	assert.Equal(t, []string{"a", "", "c"}, row)
}

func TestCell(t *testing.T) {
	t.Parallel()

	row := []string{" spaced ", "plain"}
	assert.Equal(t, "spaced", Cell(row, 0))
	assert.Equal(t, "plain", Cell(row, 1))
	assert.Equal(t, "", Cell(row, 5))
	assert.Equal(t, "", Cell(row, -1))
}
