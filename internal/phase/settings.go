package phase

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/sells-group/lookup-cli/internal/checkpoint"
)

// maxTargetContacts caps how many contact slots a row may request.
const maxTargetContacts = 3

// Settings carries everything the phases need: file paths, retry knobs,
// snapshot cadence, and the checkpoint root.
type Settings struct {
	Input       string
	CoreOutput  string
	FinalOutput string

	PartialEvery   int
	RowRetries     int
	StartSleep     time.Duration
	BackoffBase    float64
	MaxSleep       time.Duration
	TargetContacts int
	MaxSteps       int

	RunRoot        string
	CheckpointSync bool
}

// normalize clamps the knobs to their legal ranges.
func (s Settings) normalize() Settings {
	if s.RowRetries < 1 {
		s.RowRetries = 1
	}
	if s.TargetContacts < 1 {
		s.TargetContacts = 1
	}
	if s.TargetContacts > maxTargetContacts {
		s.TargetContacts = maxTargetContacts
	}
	if s.PartialEvery < 0 {
		s.PartialEvery = 0
	}
	return s
}

// manifest records what a phase execution ran with. targetContacts is zero
// for phase 1, which has no contact slots.
func (s Settings) manifest(input, output string, targetContacts int) checkpoint.Manifest {
	return checkpoint.Manifest{
		Input:   input,
		Output:  output,
		Partial: partialPath(output),
		Settings: checkpoint.Settings{
			PartialEvery:     s.PartialEvery,
			RowRetries:       s.RowRetries,
			RetryStartSleep:  s.StartSleep.Seconds(),
			RetryBackoffBase: s.BackoffBase,
			RetryMaxSleep:    s.MaxSleep.Seconds(),
			TargetContacts:   targetContacts,
			MaxSteps:         s.MaxSteps,
		},
	}
}

// partialPath derives the autosave snapshot path from an output path:
// "output.core.csv" becomes "output.core.partial.csv".
func partialPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + ".partial" + ext
}
