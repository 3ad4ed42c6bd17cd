package phase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lookup-cli/internal/model"
	"github.com/sells-group/lookup-cli/internal/store"
	"github.com/sells-group/lookup-cli/pkg/agent"
)

func fullAgent() *fakeAgent {
	return &fakeAgent{
		lookup: func(agent.LookupRequest) (*agent.CompanyCore, error) {
			return &agent.CompanyCore{
				CompanyName: "Acme Widgets Ltd",
				Website:     "https://acme.example",
				Email:       "info@acme.example",
			}, nil
		},
		contacts: func(agent.ContactsRequest) (*agent.ContactsResult, error) {
			return &agent.ContactsResult{Contacts: []agent.Contact{
				{Name: "Jane Smith", Title: "Managing Director"},
			}}, nil
		},
	}
}

func TestOrchestratorRun(t *testing.T) {
	dir := t.TempDir()
	s := testSettings(dir)
	writeCSV(t, s.Input, "ADDRESS,POSTCODE\n12 High St,AB1 2CD\n")

	o := &Orchestrator{Agent: fullAgent(), Settings: s}
	res, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, res.Status)
	require.Len(t, res.Phases, 2)
	assert.Equal(t, model.PhaseStatusComplete, res.Phases[0].Status)
	assert.Equal(t, model.PhaseStatusComplete, res.Phases[1].Status)
	assert.Equal(t, 2, res.RowsProcessed, "one row through each phase")
}

func TestOrchestratorRun_SkipFlags(t *testing.T) {
	dir := t.TempDir()
	s := testSettings(dir)
	writeCSV(t, s.Input, "ADDRESS,POSTCODE\n12 High St,AB1 2CD\n")

	ag := fullAgent()
	o := &Orchestrator{Agent: ag, Settings: s, SkipPhase2: true}
	res, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, res.Status)
	require.Len(t, res.Phases, 2)
	assert.Equal(t, model.PhaseStatusSkipped, res.Phases[1].Status)
	assert.Zero(t, ag.contactsCalls)
}

// Skipping phase 1 without its output on disk fails the run but still
// reports the phase that broke.
func TestOrchestratorRun_PhaseFailure(t *testing.T) {
	s := testSettings(t.TempDir())

	o := &Orchestrator{Agent: &fakeAgent{}, Settings: s, SkipPhase1: true}
	res, err := o.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, model.RunStatusFailed, res.Status)
	assert.NotEmpty(t, res.Error)
	require.Len(t, res.Phases, 2)
	assert.Equal(t, model.PhaseStatusFailed, res.Phases[1].Status)
}

func TestOrchestratorRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	s := testSettings(dir)
	writeCSV(t, s.Input, "ADDRESS,POSTCODE\n12 High St,AB1 2CD\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := &Orchestrator{Agent: fullAgent(), Settings: s}
	res, err := o.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusStopped, res.Status)
	require.Len(t, res.Phases, 1, "phase 2 never starts after a stop")
}

// TestOrchestratorRun_Catalog checks the run and both phases land in the
// store with final statuses.
func TestOrchestratorRun_Catalog(t *testing.T) {
	dir := t.TempDir()
	s := testSettings(dir)
	writeCSV(t, s.Input, "ADDRESS,POSTCODE\n12 High St,AB1 2CD\n")

	ctx := context.Background()
	st, err := store.NewSQLite(dir + "/lookup.db")
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	require.NoError(t, st.Migrate(ctx))

	o := &Orchestrator{Agent: fullAgent(), Store: st, Settings: s}
	_, err = o.Run(ctx)
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	require.NotNil(t, runs[0].Result)
	assert.Equal(t, 2, runs[0].Result.RowsProcessed)

	phases, err := st.ListPhases(ctx, runs[0].ID)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	for _, ph := range phases {
		assert.Equal(t, model.PhaseStatusComplete, ph.Status)
	}
}
