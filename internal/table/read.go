package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table is an in-memory delimited file: optional header, data rows, and the
// dialect it was read with.
type Table struct {
	Header  []string
	Rows    [][]string
	Dialect Dialect
}

// ReadFile loads a delimited file. The dialect is sniffed from the content,
// compressed files are decompressed by extension, a UTF-8/UTF-16 BOM is
// honored and stripped, and rows with no non-whitespace content are dropped.
func ReadFile(path string) (*Table, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(transform.NewReader(rc, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, eris.Wrapf(err, "table: read %s", path)
	}

	t, err := Read(bytes.NewReader(data), sniffSample(firstN(data, sniffSampleSize)))
	if err != nil {
		return nil, eris.Wrapf(err, "table: parse %s", path)
	}
	return t, nil
}

// Read parses delimited content using the given dialect. Ragged records and
// stray quotes are tolerated. Blank rows are dropped; a header row, when the
// dialect says one is present, is kept even if blank.
func Read(r io.Reader, d Dialect) (*Table, error) {
	reader := csv.NewReader(r)
	if d.Delimiter != 0 {
		reader.Comma = d.Delimiter
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "table: read records")
	}

	t := &Table{Dialect: d}
	if d.HasHeader && len(records) > 0 {
		t.Header = records[0]
		records = records[1:]
	}
	for _, rec := range records {
		if isBlankRow(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// isBlankRow reports whether no cell in the row has non-whitespace content.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func firstN(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
