package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lookup-cli/internal/table"
)

func snapshotTable(rows int) func() *table.Table {
	return func() *table.Table {
		t := &table.Table{
			Header:  []string{"ADDRESS", "POSTCODE"},
			Dialect: table.DefaultDialect(),
		}
		for i := 0; i < rows; i++ {
			t.Rows = append(t.Rows, []string{"12 High St", "LS1 4AB"})
		}
		return t
	}
}

func TestSnapshots_MaybeWritesOnInterval(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.csv")
	s := &Snapshots{Path: path, Every: 2}

	s.Maybe(1, snapshotTable(1))
	assert.NoFileExists(t, path)

	s.Maybe(2, snapshotTable(2))
	require.FileExists(t, path)
	got, err := table.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got.Rows, 2)

	// The next interval overwrites the file wholesale.
	s.Maybe(4, snapshotTable(4))
	got, err = table.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got.Rows, 4)
}

func TestSnapshots_EveryRowInterval(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.csv")
	s := &Snapshots{Path: path, Every: 1}

	for k := 1; k <= 3; k++ {
		s.Maybe(k, snapshotTable(k))
		got, err := table.ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, got.Rows, k, "snapshot after row %d", k)
	}
}

func TestSnapshots_DisabledInterval(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.csv")
	s := &Snapshots{Path: path, Every: 0}

	s.Maybe(1, snapshotTable(1))
	s.Maybe(20, snapshotTable(20))
	assert.NoFileExists(t, path)

	// Final still writes even when periodic snapshots are off.
	s.Final(snapshotTable(20))
	assert.FileExists(t, path)
}

func TestSnapshots_WriteFailureSwallowed(t *testing.T) {
	t.Parallel()

	// Point the snapshot inside a directory that does not exist; the write
	// fails but must not panic or propagate.
	blocked := filepath.Join(t.TempDir(), "missing")
	s := &Snapshots{Path: filepath.Join(blocked, "partial.csv"), Every: 1}
	s.Maybe(1, snapshotTable(1))
	s.Final(snapshotTable(1))
}
