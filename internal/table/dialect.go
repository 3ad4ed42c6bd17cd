package table

import (
	"io"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

// sniffSampleSize is how much of the file is inspected to guess the dialect.
const sniffSampleSize = 8192

// Dialect describes how a delimited file is laid out. It is captured at read
// time and carried on the Table so writes preserve the input's shape.
type Dialect struct {
	Delimiter rune
	HasHeader bool
}

// DefaultDialect is used when a sample cannot be read or yields nothing
// usable: comma-delimited with a header row.
func DefaultDialect() Dialect {
	return Dialect{Delimiter: ',', HasHeader: true}
}

// delimiterCandidates are tried in order; earlier wins ties.
var delimiterCandidates = []rune{',', '\t', ';', '|'}

// maxSniffLines bounds how many sample lines the delimiter check considers.
const maxSniffLines = 10

// SniffDialect guesses the delimiter and header presence from the first
// 8 KiB of the file. Compressed files are sampled after decompression.
func SniffDialect(path string) (Dialect, error) {
	rc, err := openReader(path)
	if err != nil {
		return DefaultDialect(), err
	}
	defer rc.Close() //nolint:errcheck

	sample := make([]byte, sniffSampleSize)
	n, err := io.ReadFull(rc, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return DefaultDialect(), eris.Wrapf(err, "table: sample %s", path)
	}
	return sniffSample(sample[:n]), nil
}

// sniffSample applies the dialect heuristics to a raw sample.
//
// Primary: a delimiter qualifies when it appears a consistent, non-zero
// number of times on every sampled line; the qualifying delimiter with the
// highest count wins. Fallback: compare comma vs tab counts on the first
// line, comma winning ties. Header presence: the first line contains at
// least one letter. An empty sample yields the default dialect.
func sniffSample(sample []byte) Dialect {
	lines := sampleLines(string(sample))
	if len(lines) == 0 {
		return DefaultDialect()
	}
	first := lines[0]

	d := Dialect{Delimiter: 0, HasHeader: lineHasLetter(first)}

	best := -1
	for _, cand := range delimiterCandidates {
		count, ok := consistentCount(lines, cand)
		if ok && count > best {
			best = count
			d.Delimiter = cand
		}
	}
	if d.Delimiter == 0 {
		if strings.Count(first, ",") >= strings.Count(first, "\t") {
			d.Delimiter = ','
		} else {
			d.Delimiter = '\t'
		}
	}
	return d
}

// sampleLines returns up to maxSniffLines non-empty lines, discarding the
// final line when the sample was cut mid-line.
func sampleLines(sample string) []string {
	raw := strings.Split(strings.ReplaceAll(sample, "\r\n", "\n"), "\n")
	if len(raw) > 1 && !strings.HasSuffix(sample, "\n") {
		raw = raw[:len(raw)-1]
	}
	var lines []string
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
		if len(lines) == maxSniffLines {
			break
		}
	}
	return lines
}

// consistentCount reports the per-line occurrence count of delim when it is
// identical and non-zero across all lines.
func consistentCount(lines []string, delim rune) (int, bool) {
	count := strings.Count(lines[0], string(delim))
	if count == 0 {
		return 0, false
	}
	for _, l := range lines[1:] {
		if strings.Count(l, string(delim)) != count {
			return 0, false
		}
	}
	return count, true
}

func lineHasLetter(line string) bool {
	for _, r := range line {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
