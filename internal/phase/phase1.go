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

// Phase1 discovers company core details for every address row of the
// input sheet and writes the enriched core output.
type Phase1 struct {
	Agent    agent.Client
	Settings Settings
}

// Run processes the input sheet row by row. It returns a stopped result
// when the context is cancelled mid-phase; only startup problems (missing
// input, no usable columns) and an unwritable output surface as errors.
func (p *Phase1) Run(ctx context.Context) (*model.PhaseResult, error) {
	s := p.Settings.normalize()
	start := time.Now()

	if _, err := os.Stat(s.Input); err != nil {
		return nil, eris.Wrapf(err, "phase1: input not found: %s", s.Input)
	}
	t, err := table.ReadFile(s.Input)
	if err != nil {
		return nil, eris.Wrap(err, "phase1: read input")
	}
	if len(t.Header) == 0 {
		return nil, eris.Errorf("phase1: %s has no header row", s.Input)
	}
	src := enrich.FindSourceColumns(t.Header)
	if !src.Found() {
		return nil, eris.Errorf("phase1: %s needs address and postcode columns", s.Input)
	}

	header, cols := enrich.EnsureCoreColumns(append([]string(nil), t.Header...))

	run, err := checkpoint.NewRun(s.RunRoot, "phase1", s.manifest(s.Input, s.CoreOutput, 0), s.CheckpointSync)
	if err != nil {
		return nil, err
	}
	defer run.Close() //nolint:errcheck

	snaps := &checkpoint.Snapshots{Path: partialPath(s.CoreOutput), Every: s.PartialEvery}

	res := &model.PhaseResult{
		Name:       "phase1",
		Status:     model.PhaseStatusComplete,
		RowsTotal:  len(t.Rows),
		OutputPath: s.CoreOutput,
		RunDir:     run.Dir,
	}

	processed := make([][]string, 0, len(t.Rows))
	phoneLists := make([][]string, 0, len(t.Rows))
	build := func() *table.Table {
		return assembleCoreTable(header, processed, phoneLists, t.Dialect)
	}

	zap.L().Info("phase1 start",
		zap.String("input", s.Input),
		zap.Int("rows", len(t.Rows)),
		zap.String("run_dir", run.Dir))

	stopped := false
	for i, in := range t.Rows {
		if ctx.Err() != nil {
			stopped = true
			break
		}
		idx := i + 1
		row := table.PadRow(append([]string(nil), in...), len(header))
		address := table.Cell(row, src.Address)
		postcode := table.Cell(row, src.Postcode)
		rowLog := zap.L().With(zap.Int("row", idx), zap.Int("rows", len(t.Rows)))

		if address == "" && postcode == "" {
			rowLog.Info("skipping blank row")
			processed = append(processed, row)
			phoneLists = append(phoneLists, nil)
			res.RowsProcessed++
			res.RowsSkipped++
			run.Log.Append(checkpoint.CoreRecord{
				RowIndex: idx,
				Input:    checkpoint.CoreInput{Address: address, Postcode: postcode},
				Note:     "skipped blank row",
			})
			snaps.Maybe(idx, build)
			continue
		}

		seed := enrich.SeedCompany(address)
		rowLog.Info("looking up company", zap.String("company", seed))

		sched := resilience.NewSchedule(s.StartSleep, s.BackoffBase, s.MaxSleep)
		core, attempts, aerr := enrich.Attempt(ctx, rowLog, s.RowRetries, sched,
			func(ctx context.Context) (*agent.CompanyCore, error) {
				return p.Agent.Lookup(ctx, agent.LookupRequest{
					Address:     address,
					Postcode:    postcode,
					SeedCompany: seed,
					MaxSteps:    s.MaxSteps,
				})
			}, enrich.HasCore)
		if aerr != nil {
			stopped = true
			break
		}

		res.Attempts += attempts
		var nums []string
		row, nums = enrich.MergeCore(row, cols, enrich.Source{Address: address, Postcode: postcode}, core, attempts, s.RowRetries)
		processed = append(processed, row)
		phoneLists = append(phoneLists, nums)
		res.RowsProcessed++

		if enrich.HasCore(core) {
			res.RowsSucceeded++
			rowLog.Info("company found",
				zap.String("company_name", table.Cell(row, cols.CompanyName)),
				zap.Int("attempts", attempts))
		} else {
			res.RowsExhausted++
			rowLog.Warn("row exhausted", zap.Int("attempts", attempts))
		}

		run.Log.Append(checkpoint.CoreRecord{
			RowIndex: idx,
			Input:    checkpoint.CoreInput{Address: address, Postcode: postcode, SeedCompany: seed},
			Output: &checkpoint.CoreOutput{
				CompanyName: table.Cell(row, cols.CompanyName),
				Website:     table.Cell(row, cols.Website),
				Email:       table.Cell(row, cols.Email),
				Numbers:     nums,
				GovUKURL:    table.Cell(row, cols.GovUK),
				SourceURL:   table.Cell(row, cols.SourceURL),
				Confidence:  table.Cell(row, cols.Confidence),
				Notes:       table.Cell(row, cols.Notes),
			},
		})
		snaps.Maybe(idx, build)
	}

	if stopped {
		res.Status = model.PhaseStatusStopped
		res.Duration = time.Since(start).Milliseconds()
		snaps.Final(build)
		zap.L().Warn("phase1 stopped",
			zap.Int("rows_processed", res.RowsProcessed),
			zap.Int("rows_total", res.RowsTotal),
			zap.String("partial", snaps.Path))
		return res, nil
	}

	out := build()
	if err := table.WriteFile(s.CoreOutput, out); err != nil {
		return nil, eris.Wrap(err, "phase1: write output")
	}
	snaps.Final(func() *table.Table { return out })

	res.Duration = time.Since(start).Milliseconds()
	zap.L().Info("phase1 complete",
		zap.Int("rows", res.RowsProcessed),
		zap.Int("succeeded", res.RowsSucceeded),
		zap.Int("exhausted", res.RowsExhausted),
		zap.Int("skipped", res.RowsSkipped),
		zap.String("output", s.CoreOutput),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// assembleCoreTable builds a complete copy of the output so far: the header
// grown to the widest phone family seen, every processed row padded, and its
// cleaned numbers filled into the family slots.
func assembleCoreTable(header []string, rows, phoneLists [][]string, d table.Dialect) *table.Table {
	maxPhones := 0
	for _, nums := range phoneLists {
		if len(nums) > maxPhones {
			maxPhones = len(nums)
		}
	}
	h := table.EnsurePhoneColumns(append([]string(nil), header...), maxPhones)

	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		row := table.PadRow(append([]string(nil), r...), len(h))
		h, row = table.FillPhones(h, row, phoneLists[i])
		out = append(out, row)
	}
	return &table.Table{Header: h, Rows: out, Dialect: d}
}
