// Package checkpoint owns a phase execution's durable workspace on disk:
// a time-stamped run directory holding a manifest, an append-only JSONL
// record log, and the periodically rewritten partial snapshot.
package checkpoint

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest describes one phase execution, written to manifest.yaml when
// the run directory is created.
type Manifest struct {
	RunID     string    `yaml:"run_id"`
	Phase     string    `yaml:"phase"`
	Input     string    `yaml:"input"`
	Output    string    `yaml:"output"`
	Partial   string    `yaml:"partial"`
	Settings  Settings  `yaml:"settings"`
	StartedAt time.Time `yaml:"started_at"`
}

// Settings snapshots the knobs the phase ran with. Sleeps are recorded in
// seconds, matching the configuration keys.
type Settings struct {
	PartialEvery     int     `yaml:"partial_every"`
	RowRetries       int     `yaml:"row_retries"`
	RetryStartSleep  float64 `yaml:"retry_start_sleep"`
	RetryBackoffBase float64 `yaml:"retry_backoff_base"`
	RetryMaxSleep    float64 `yaml:"retry_max_sleep"`
	TargetContacts   int     `yaml:"target_contacts,omitempty"`
	MaxSteps         int     `yaml:"max_steps"`
}

// Run is one phase execution's workspace on disk.
type Run struct {
	ID  string
	Dir string
	Log *Log
}

// NewRun creates <root>/<phase>-<timestamp>/, writes the manifest, and
// opens the append-only record log. Two runs never share a directory
// unless started within the same second. sync forces an fsync per record.
func NewRun(root, phase string, m Manifest, sync bool) (*Run, error) {
	stamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(root, phase+"-"+stamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "checkpoint: create run dir %s", dir)
	}

	m.RunID = uuid.New().String()
	m.Phase = phase
	if m.StartedAt.IsZero() {
		m.StartedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, eris.Wrap(err, "checkpoint: marshal manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644); err != nil {
		return nil, eris.Wrapf(err, "checkpoint: write manifest in %s", dir)
	}

	log, err := OpenLog(filepath.Join(dir, "checkpoint.jsonl"), sync)
	if err != nil {
		return nil, err
	}
	return &Run{ID: m.RunID, Dir: dir, Log: log}, nil
}

// Close closes the run's record log.
func (r *Run) Close() error {
	return r.Log.Close()
}
