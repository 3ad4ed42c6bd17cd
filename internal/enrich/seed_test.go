package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedCompany(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		address string
		want    string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"plain name", "Acme Widgets Ltd", "Acme Widgets Ltd"},
		{"comma segment", "Acme Widgets Ltd, 12 High Street, Leeds", "Acme Widgets Ltd"},
		{"dash segment", "Acme Widgets Ltd - Leeds Office", "Acme Widgets Ltd"},
		{"newline segment", "Acme Widgets Ltd\n12 High Street", "Acme Widgets Ltd"},
		{"unit prefix", "Unit 5 Riverside Works, Bath", "Riverside Works"},
		{"suite prefix", "Suite 12B Pennine House, Manchester", "Pennine House"},
		{"the prefix", "The Old Mill, Bath", "Mill"},
		{"house number", "12 Acme House - London", "Acme House"},
		{"number with letter", "12a Acme House, London", "Acme House"},
		{"hyphen not a separator", "Acme-Widgets Ltd, Leeds", "Acme-Widgets Ltd"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, SeedCompany(tc.address))
		})
	}
}

func TestSeedCompany_FallsBackToAddress(t *testing.T) {
	t.Parallel()

	// Stripping eats the whole first segment, so the raw address is used.
	assert.Equal(t, "12, Somewhere", SeedCompany("12, Somewhere"))
}

func TestSeedCompany_CapsLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("A", 200)
	got := SeedCompany(long)
	assert.Len(t, got, 140)
}
