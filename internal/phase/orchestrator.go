// Package phase runs the two-phase enrichment pipeline over a company
// spreadsheet: phase 1 discovers company core details from address rows,
// phase 2 finds named contacts at the companies phase 1 identified. Both
// phases are resumable: outputs merge into existing cells instead of
// overwriting them, so re-running continues where the last run got to.
package phase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lookup-cli/internal/model"
	"github.com/sells-group/lookup-cli/internal/store"
	"github.com/sells-group/lookup-cli/pkg/agent"
)

// Orchestrator sequences the enrichment phases over one input file and
// records the run in the catalog when a store is attached.
type Orchestrator struct {
	Agent    agent.Client
	Store    store.Store // optional; nil disables catalog recording
	Settings Settings

	SkipPhase1 bool
	SkipPhase2 bool
}

// Run executes the configured phases in order. Phase 2 only runs when
// phase 1 completed or was skipped; a stop request ends the run after the
// phase that observed it.
func (o *Orchestrator) Run(ctx context.Context) (*model.RunResult, error) {
	start := time.Now()
	cctx := context.WithoutCancel(ctx)

	runID := o.openRun(cctx)

	overall := &model.RunResult{Status: model.RunStatusComplete}
	finish := func(status model.RunStatus, err error) (*model.RunResult, error) {
		overall.Status = status
		if err != nil {
			overall.Error = err.Error()
		}
		overall.Duration = time.Since(start).Milliseconds()
		if o.Store != nil && runID != "" {
			if ferr := o.Store.FinishRun(cctx, runID, status, overall); ferr != nil {
				zap.L().Warn("catalog: finish run failed", zap.Error(ferr))
			}
		}
		return overall, err
	}

	if o.SkipPhase1 {
		zap.L().Info("phase1 skipped")
		overall.Phases = append(overall.Phases, model.PhaseResult{Name: "phase1", Status: model.PhaseStatusSkipped})
	} else {
		p := &Phase1{Agent: o.Agent, Settings: o.Settings}
		res, err := o.trackPhase(ctx, runID, "phase1", p.Run)
		overall.Phases = append(overall.Phases, *res)
		overall.RowsProcessed += res.RowsProcessed
		if err != nil {
			return finish(model.RunStatusFailed, err)
		}
		if res.Status == model.PhaseStatusStopped {
			return finish(model.RunStatusStopped, nil)
		}
	}

	if o.SkipPhase2 {
		zap.L().Info("phase2 skipped")
		overall.Phases = append(overall.Phases, model.PhaseResult{Name: "phase2", Status: model.PhaseStatusSkipped})
	} else {
		p := &Phase2{Agent: o.Agent, Settings: o.Settings}
		res, err := o.trackPhase(ctx, runID, "phase2", p.Run)
		overall.Phases = append(overall.Phases, *res)
		overall.RowsProcessed += res.RowsProcessed
		if err != nil {
			return finish(model.RunStatusFailed, err)
		}
		if res.Status == model.PhaseStatusStopped {
			return finish(model.RunStatusStopped, nil)
		}
	}

	return finish(model.RunStatusComplete, nil)
}

// openRun registers the run in the catalog. Catalog trouble never blocks
// the pipeline; it is logged and recording is disabled for the run.
func (o *Orchestrator) openRun(ctx context.Context) string {
	if o.Store == nil {
		return ""
	}
	run, err := o.Store.CreateRun(ctx, model.RunInput{
		Input:       o.Settings.Input,
		CoreOutput:  o.Settings.CoreOutput,
		FinalOutput: o.Settings.FinalOutput,
	})
	if err != nil {
		zap.L().Warn("catalog: create run failed", zap.Error(err))
		return ""
	}
	if err := o.Store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		zap.L().Warn("catalog: update run status failed", zap.Error(err))
	}
	return run.ID
}

// trackPhase brackets a phase with catalog records. A failed phase is
// reported as a synthesized result so the run summary still lists every
// phase that started.
func (o *Orchestrator) trackPhase(ctx context.Context, runID, name string, fn func(context.Context) (*model.PhaseResult, error)) (*model.PhaseResult, error) {
	cctx := context.WithoutCancel(ctx)

	var phaseID string
	if o.Store != nil && runID != "" {
		if ph, err := o.Store.CreatePhase(cctx, runID, name); err != nil {
			zap.L().Warn("catalog: create phase failed", zap.String("phase", name), zap.Error(err))
		} else {
			phaseID = ph.ID
		}
	}

	start := time.Now()
	res, err := fn(ctx)
	if err != nil {
		res = &model.PhaseResult{
			Name:     name,
			Status:   model.PhaseStatusFailed,
			Duration: time.Since(start).Milliseconds(),
			Error:    err.Error(),
		}
	}

	if phaseID != "" {
		if cerr := o.Store.CompletePhase(cctx, phaseID, res); cerr != nil {
			zap.L().Warn("catalog: complete phase failed", zap.String("phase", name), zap.Error(cerr))
		}
	}
	return res, err
}
