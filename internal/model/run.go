package model

import "time"

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusStopped  RunStatus = "stopped"
	RunStatusFailed   RunStatus = "failed"
)

// RunInput records the file paths a run was started with.
type RunInput struct {
	Input       string `json:"input"`
	CoreOutput  string `json:"core_output"`
	FinalOutput string `json:"final_output"`
}

// Run represents a single pipeline run over one input file.
type Run struct {
	ID        string     `json:"id"`
	Input     RunInput   `json:"input"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	Status        RunStatus     `json:"status"`
	Phases        []PhaseResult `json:"phases"`
	RowsProcessed int           `json:"rows_processed"`
	Duration      int64         `json:"duration_ms"`
	Error         string        `json:"error,omitempty"`
}

// RunPhase represents a phase within a run.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// PhaseStatus represents the current state of a pipeline phase.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusStopped  PhaseStatus = "stopped"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Name          string      `json:"name"`
	Status        PhaseStatus `json:"status"`
	RowsTotal     int         `json:"rows_total"`
	RowsProcessed int         `json:"rows_processed"`
	RowsSucceeded int         `json:"rows_succeeded"`
	RowsExhausted int         `json:"rows_exhausted"`
	RowsSkipped   int         `json:"rows_skipped"`
	Attempts      int         `json:"attempts"`
	Duration      int64       `json:"duration_ms"`
	OutputPath    string      `json:"output_path,omitempty"`
	RunDir        string      `json:"run_dir,omitempty"`
	Error         string      `json:"error,omitempty"`
}
