package checkpoint

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lookup-cli/pkg/agent"
)

// Log is the append-only JSONL record stream for one phase run. Appends
// are best-effort: failures are logged and swallowed so a checkpointing
// problem never fails the row that produced the record.
type Log struct {
	path string
	f    *os.File
	sync bool
}

// OpenLog opens (or creates) the log at path for appending.
func OpenLog(path string, sync bool) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, eris.Wrapf(err, "checkpoint: open log %s", path)
	}
	return &Log{path: path, f: f, sync: sync}, nil
}

// Append writes one record as a single JSON line.
func (l *Log) Append(record any) {
	if l == nil || l.f == nil {
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		zap.L().Warn("checkpoint marshal failed", zap.Error(err))
		return
	}
	if _, err := l.f.Write(append(data, '\n')); err != nil {
		zap.L().Warn("checkpoint append failed", zap.String("path", l.path), zap.Error(err))
		return
	}
	if l.sync {
		if err := l.f.Sync(); err != nil {
			zap.L().Warn("checkpoint fsync failed", zap.String("path", l.path), zap.Error(err))
		}
	}
}

// Close closes the underlying file. A nil log closes cleanly.
func (l *Log) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	return eris.Wrapf(l.f.Close(), "checkpoint: close log %s", l.path)
}

// CoreRecord is the per-row checkpoint line written during phase 1.
type CoreRecord struct {
	RowIndex int         `json:"row_index"`
	Input    CoreInput   `json:"input"`
	Output   *CoreOutput `json:"output"`
	Note     string      `json:"note,omitempty"`
}

// CoreInput snapshots what the row offered before enrichment.
type CoreInput struct {
	Address     string `json:"address"`
	Postcode    string `json:"postcode"`
	SeedCompany string `json:"seed_company,omitempty"`
}

// CoreOutput snapshots the row's enrichment columns after the merge.
// Empty cells are omitted.
type CoreOutput struct {
	CompanyName string   `json:"company_name,omitempty"`
	Website     string   `json:"website,omitempty"`
	Email       string   `json:"email,omitempty"`
	Numbers     []string `json:"numbers,omitempty"`
	GovUKURL    string   `json:"govuk_url,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	Confidence  string   `json:"confidence,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// ContactsRecord is the per-row checkpoint line written during phase 2.
type ContactsRecord struct {
	RowIndex      int             `json:"row_index"`
	CompanyName   string          `json:"company_name"`
	GovUKURL      string          `json:"govuk_url,omitempty"`
	ContactsFound int             `json:"contacts_found"`
	Contacts      []agent.Contact `json:"contacts,omitempty"`
	Note          string          `json:"note,omitempty"`
}
