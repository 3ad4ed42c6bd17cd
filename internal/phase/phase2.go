package phase

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lookup-cli/internal/checkpoint"
	"github.com/sells-group/lookup-cli/internal/enrich"
	"github.com/sells-group/lookup-cli/internal/model"
	"github.com/sells-group/lookup-cli/internal/resilience"
	"github.com/sells-group/lookup-cli/internal/table"
	"github.com/sells-group/lookup-cli/pkg/agent"
)

// Phase2 finds named contacts for every company the core sheet names and
// writes the final output.
type Phase2 struct {
	Agent    agent.Client
	Settings Settings
}

// contactsOutcome pairs the agent's raw reply with its sanitized contact
// list so acceptance and merging see the same slice.
type contactsOutcome struct {
	res      *agent.ContactsResult
	contacts []agent.Contact
}

// Run processes the core sheet row by row. The input is phase 1's output;
// refusing to start without it keeps the phases runnable independently.
func (p *Phase2) Run(ctx context.Context) (*model.PhaseResult, error) {
	s := p.Settings.normalize()
	start := time.Now()

	if _, err := os.Stat(s.CoreOutput); err != nil {
		return nil, eris.Wrapf(err, "phase2: input not found: %s (run phase 1 first)", s.CoreOutput)
	}
	t, err := table.ReadFile(s.CoreOutput)
	if err != nil {
		return nil, eris.Wrap(err, "phase2: read input")
	}
	if len(t.Header) == 0 {
		return nil, eris.Errorf("phase2: %s has no header row", s.CoreOutput)
	}

	header, meta, slots := enrich.EnsureContactColumns(append([]string(nil), t.Header...), s.TargetContacts)

	run, err := checkpoint.NewRun(s.RunRoot, "phase2", s.manifest(s.CoreOutput, s.FinalOutput, s.TargetContacts), s.CheckpointSync)
	if err != nil {
		return nil, err
	}
	defer run.Close() //nolint:errcheck

	snaps := &checkpoint.Snapshots{Path: partialPath(s.FinalOutput), Every: s.PartialEvery}

	res := &model.PhaseResult{
		Name:       "phase2",
		Status:     model.PhaseStatusComplete,
		RowsTotal:  len(t.Rows),
		OutputPath: s.FinalOutput,
		RunDir:     run.Dir,
	}

	processed := make([][]string, 0, len(t.Rows))
	build := func() *table.Table {
		return &table.Table{Header: header, Rows: processed, Dialect: t.Dialect}
	}

	zap.L().Info("phase2 start",
		zap.String("input", s.CoreOutput),
		zap.Int("rows", len(t.Rows)),
		zap.Int("target_contacts", s.TargetContacts),
		zap.String("run_dir", run.Dir))

	stopped := false
	for i, in := range t.Rows {
		if ctx.Err() != nil {
			stopped = true
			break
		}
		idx := i + 1
		row := table.PadRow(append([]string(nil), in...), len(header))
		company := table.Cell(row, meta.CompanyName)
		govuk := table.Cell(row, meta.GovUK)
		rowLog := zap.L().With(zap.Int("row", idx), zap.Int("rows", len(t.Rows)))

		if company == "" {
			rowLog.Info("skipping row without company name")
			processed = append(processed, row)
			res.RowsProcessed++
			res.RowsSkipped++
			run.Log.Append(checkpoint.ContactsRecord{
				RowIndex: idx,
				Note:     "skipped: missing company name",
			})
			snaps.Maybe(idx, build)
			continue
		}

		rowLog.Info("finding contacts", zap.String("company", company))

		sched := resilience.NewSchedule(s.StartSleep, s.BackoffBase, s.MaxSleep)
		outcome, attempts, aerr := enrich.Attempt(ctx, rowLog, s.RowRetries, sched,
			func(ctx context.Context) (contactsOutcome, error) {
				r, err := p.Agent.Contacts(ctx, agent.ContactsRequest{
					CompanyName:    company,
					GovUKURL:       govuk,
					TargetContacts: s.TargetContacts,
					MaxSteps:       s.MaxSteps,
				})
				if err != nil {
					return contactsOutcome{}, err
				}
				return contactsOutcome{res: r, contacts: enrich.SanitizeContacts(r.Contacts, s.TargetContacts)}, nil
			},
			func(o contactsOutcome) bool { return len(o.contacts) > 0 })
		if aerr != nil {
			stopped = true
			break
		}

		res.Attempts += attempts
		row = enrich.MergeContacts(row, slots, meta, outcome.res, outcome.contacts, attempts, s.RowRetries)
		processed = append(processed, row)
		res.RowsProcessed++

		if len(outcome.contacts) > 0 {
			res.RowsSucceeded++
			rowLog.Info("contacts found",
				zap.String("company", company),
				zap.Int("contacts", len(outcome.contacts)),
				zap.Int("attempts", attempts))
		} else {
			res.RowsExhausted++
			rowLog.Warn("row exhausted",
				zap.String("company", company),
				zap.Int("attempts", attempts))
		}

		run.Log.Append(checkpoint.ContactsRecord{
			RowIndex:      idx,
			CompanyName:   company,
			GovUKURL:      govuk,
			ContactsFound: len(outcome.contacts),
			Contacts:      outcome.contacts,
		})
		snaps.Maybe(idx, build)
	}

	if stopped {
		res.Status = model.PhaseStatusStopped
		res.Duration = time.Since(start).Milliseconds()
		snaps.Final(build)
		zap.L().Warn("phase2 stopped",
			zap.Int("rows_processed", res.RowsProcessed),
			zap.Int("rows_total", res.RowsTotal),
			zap.String("partial", snaps.Path))
		return res, nil
	}

	// Keep the base phone column present even when no row carried a number.
	header = table.EnsurePhoneColumns(header, 1)

	out := build()
	if err := table.WriteFile(s.FinalOutput, out); err != nil {
		return nil, eris.Wrap(err, "phase2: write output")
	}
	snaps.Final(func() *table.Table { return out })

	res.Duration = time.Since(start).Milliseconds()
	zap.L().Info("phase2 complete",
		zap.Int("rows", res.RowsProcessed),
		zap.Int("succeeded", res.RowsSucceeded),
		zap.Int("exhausted", res.RowsExhausted),
		zap.Int("skipped", res.RowsSkipped),
		zap.String("output", s.FinalOutput),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}
