package table

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadFile_DropsBlankRows(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "input.csv", []byte("ADDRESS,POSTCODE\n1 High St,AB1 2CD\n,\n   ,  \n2 Low Rd,EF3 4GH\n"))

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ADDRESS", "POSTCODE"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"1 High St", "AB1 2CD"}, tbl.Rows[0])
	assert.Equal(t, []string{"2 Low Rd", "EF3 4GH"}, tbl.Rows[1])
}

func TestReadFile_StripsBOM(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "bom.csv", []byte("\xef\xbb\xbfADDRESS,POSTCODE\nx,y\n"))

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ADDRESS", tbl.Header[0])
}

func TestReadFile_TabDelimited(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "input.tsv", []byte("ADDRESS\tPOSTCODE\n1 High St\tAB1 2CD\n"))

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, '\t', tbl.Dialect.Delimiter)
	assert.Equal(t, []string{"1 High St", "AB1 2CD"}, tbl.Rows[0])
}

func TestReadFile_Gzip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("ADDRESS,POSTCODE\n1 High St,AB1 2CD\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := writeTemp(t, "input.csv.gz", buf.Bytes())

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "1 High St", tbl.Rows[0][0])
}

func TestReadFile_Zstd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte("ADDRESS,POSTCODE\n1 High St,AB1 2CD\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := writeTemp(t, "input.csv.zst", buf.Bytes())

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "AB1 2CD", tbl.Rows[0][1])
}

func TestRead_NoHeader(t *testing.T) {
	t.Parallel()

	tbl, err := Read(strings.NewReader("1,2\n3,4\n"), Dialect{Delimiter: ',', HasHeader: false})
	require.NoError(t, err)
	assert.Nil(t, tbl.Header)
	assert.Len(t, tbl.Rows, 2)
}

func TestRead_RaggedRows(t *testing.T) {
	t.Parallel()

	tbl, err := Read(strings.NewReader("a,b,c\n1,2\n1,2,3,4\n"), Dialect{Delimiter: ',', HasHeader: true})
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Len(t, tbl.Rows[0], 2)
	assert.Len(t, tbl.Rows[1], 4)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	in := &Table{
		Header: []string{"ADDRESS", "COMPANY NAME", "notes"},
		Rows: [][]string{
			{"1 High St, Leeds", "Acme Ltd", "first; second"},
			{"2 Low Rd"},
		},
		Dialect: Dialect{Delimiter: ',', HasHeader: true},
	}
	require.NoError(t, WriteFile(path, in))

	out, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in.Header, out.Header)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, in.Rows[0], out.Rows[0])
	// Short rows are padded to the header on write.
	assert.Equal(t, []string{"2 Low Rd", "", ""}, out.Rows[1])
}

func TestWriteFile_PreservesTabDelimiter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.tsv")
	in := &Table{
		Header:  []string{"ADDRESS", "POSTCODE"},
		Rows:    [][]string{{"1 High St", "AB1 2CD"}},
		Dialect: Dialect{Delimiter: '\t', HasHeader: true},
	}
	require.NoError(t, WriteFile(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ADDRESS\tPOSTCODE\n1 High St\tAB1 2CD\n", string(raw))
}

func TestWriteFile_OverwritesWhole(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	first := &Table{
		Header:  []string{"A"},
		Rows:    [][]string{{"1"}, {"2"}, {"3"}},
		Dialect: DefaultDialect(),
	}
	require.NoError(t, WriteFile(path, first))

	second := &Table{Header: []string{"A"}, Rows: [][]string{{"9"}}, Dialect: DefaultDialect()}
	require.NoError(t, WriteFile(path, second))

	out, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "9", out.Rows[0][0])

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
