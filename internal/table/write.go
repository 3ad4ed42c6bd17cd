package table

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// WriteFile writes t to path using the table's delimiter, minimal quoting,
// and \n record terminators. The file is written to a temp sibling and
// renamed into place so a crash mid-write never leaves a truncated output.
func WriteFile(path string, t *Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "table: create temp for %s", path)
	}
	tmpName := tmp.Name()

	if err := writeTo(tmp, t); err != nil {
		tmp.Close()          //nolint:errcheck,gosec
		os.Remove(tmpName)   //nolint:errcheck,gosec
		return eris.Wrapf(err, "table: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck,gosec
		return eris.Wrapf(err, "table: close temp for %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck,gosec
		return eris.Wrapf(err, "table: rename into %s", path)
	}
	return nil
}

func writeTo(f *os.File, t *Table) error {
	w := csv.NewWriter(f)
	if t.Dialect.Delimiter != 0 {
		w.Comma = t.Dialect.Delimiter
	}

	if t.Header != nil {
		if err := w.Write(t.Header); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if t.Header != nil {
			row = PadRow(row, len(t.Header))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
