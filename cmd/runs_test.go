package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lookup-cli/internal/model"
)

func sampleRuns() []model.Run {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []model.Run{
		{
			ID:     "run-aaa",
			Input:  model.RunInput{Input: "input.csv"},
			Status: model.RunStatusComplete,
			Result: &model.RunResult{
				Status:        model.RunStatusComplete,
				RowsProcessed: 120,
				Duration:      95000,
			},
			CreatedAt: now,
		},
		{
			ID:        "run-bbb",
			Input:     model.RunInput{Input: "batch2.csv"},
			Status:    model.RunStatusFailed,
			CreatedAt: now.Add(time.Hour),
		},
	}
}

func TestFormatRunsList(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, sampleRuns())

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-aaa")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "input.csv")
	// Runs without a recorded result show a placeholder row count.
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "run-bbb")
}

func TestFormatRunsStats(t *testing.T) {
	var buf bytes.Buffer
	formatRunsStats(&buf, sampleRuns())

	out := buf.String()
	assert.Contains(t, out, "total runs")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "rows processed")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "1m35s")
}

func TestFormatRunsStats_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatRunsStats(&buf, nil)

	out := buf.String()
	assert.Contains(t, out, "total runs")
	assert.NotContains(t, out, "total duration")
}

// TestRunsList_SQLite exercises the list path against a real store.
func TestRunsList_SQLite(t *testing.T) {
	dir := t.TempDir()
	cfg = testConfig(dir)
	t.Cleanup(func() { cfg = nil })

	ctx := context.Background()
	st, err := initStore(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))

	run, err := st.CreateRun(ctx, model.RunInput{Input: "input.csv"})
	require.NoError(t, err)
	require.NoError(t, st.FinishRun(ctx, run.ID, model.RunStatusComplete, &model.RunResult{
		Status:        model.RunStatusComplete,
		RowsProcessed: 7,
	}))
	require.NoError(t, st.Close())

	var out bytes.Buffer
	runsListCmd.SetContext(ctx)
	runsListCmd.SetOut(&out)
	require.NoError(t, runsListCmd.RunE(runsListCmd, nil))
	assert.Contains(t, out.String(), run.ID)
	assert.Contains(t, out.String(), "complete")
}
