package checkpoint

import (
	"go.uber.org/zap"

	"github.com/sells-group/lookup-cli/internal/table"
)

// Snapshots periodically rewrites the partial output file wholesale, so a
// crash loses at most Every rows of work and the partial path always holds
// a complete, independently parseable table.
type Snapshots struct {
	Path  string
	Every int
}

// Maybe writes a snapshot when processed is a positive multiple of the
// interval. The build callback assembles the table only when a write is
// due. An interval of zero disables periodic snapshots.
func (s *Snapshots) Maybe(processed int, build func() *table.Table) {
	if s.Every <= 0 || processed == 0 || processed%s.Every != 0 {
		return
	}
	s.write(build())
}

// Final writes the closing snapshot mirroring the phase's last state,
// regardless of the interval.
func (s *Snapshots) Final(build func() *table.Table) {
	s.write(build())
}

// write is best-effort: a failed snapshot is logged and swallowed.
func (s *Snapshots) write(t *table.Table) {
	if err := table.WriteFile(s.Path, t); err != nil {
		zap.L().Warn("autosave snapshot failed", zap.String("path", s.Path), zap.Error(err))
		return
	}
	zap.L().Info("autosave snapshot", zap.String("path", s.Path), zap.Int("rows", len(t.Rows)))
}
