package phase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/lookup-cli/internal/table"
	"github.com/sells-group/lookup-cli/pkg/agent"
)

// fakeAgent scripts both agent calls and counts invocations.
type fakeAgent struct {
	lookup   func(req agent.LookupRequest) (*agent.CompanyCore, error)
	contacts func(req agent.ContactsRequest) (*agent.ContactsResult, error)

	lookupCalls   int
	contactsCalls int
}

func (f *fakeAgent) Lookup(_ context.Context, req agent.LookupRequest) (*agent.CompanyCore, error) {
	f.lookupCalls++
	if f.lookup == nil {
		return &agent.CompanyCore{}, nil
	}
	return f.lookup(req)
}

func (f *fakeAgent) Contacts(_ context.Context, req agent.ContactsRequest) (*agent.ContactsResult, error) {
	f.contactsCalls++
	if f.contacts == nil {
		return &agent.ContactsResult{}, nil
	}
	return f.contacts(req)
}

// testSettings points every path into dir and keeps retry sleeps tiny.
func testSettings(dir string) Settings {
	return Settings{
		Input:          filepath.Join(dir, "input.csv"),
		CoreOutput:     filepath.Join(dir, "output.core.csv"),
		FinalOutput:    filepath.Join(dir, "output.with_contacts.csv"),
		PartialEvery:   1,
		RowRetries:     2,
		StartSleep:     time.Millisecond,
		BackoffBase:    1.8,
		MaxSleep:       2 * time.Millisecond,
		TargetContacts: 2,
		MaxSteps:       10,
		RunRoot:        filepath.Join(dir, "runs"),
	}
}

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// col finds a header column by exact name.
func col(t *testing.T, tbl *table.Table, name string) int {
	t.Helper()
	for i, h := range tbl.Header {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %q not in header %v", name, tbl.Header)
	return -1
}

// runDirs lists the checkpoint directories created under root for a phase.
func runDirs(t *testing.T, root, phase string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var dirs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), phase+"-") {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs
}
