package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lookup-cli/internal/phase"
	"github.com/sells-group/lookup-cli/pkg/agent"
)

var (
	runInput       string
	runCoreOutput  string
	runFinalOutput string
	runRunRoot     string
	runSkipPhase1  bool
	runSkipPhase2  bool
	runOffline     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the two-phase enrichment pipeline",
	Long:  "Phase 1 reads the input CSV and discovers company core info per address row; phase 2 re-reads phase 1's output and finds named contacts. Ctrl-C stops between rows and keeps the partial snapshot.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		settings := pipelineSettings()
		if runInput != "" {
			settings.Input = runInput
		}
		if runCoreOutput != "" {
			settings.CoreOutput = runCoreOutput
		}
		if runFinalOutput != "" {
			settings.FinalOutput = runFinalOutput
		}
		if runRunRoot != "" {
			settings.RunRoot = runRunRoot
		}

		ag, err := initAgent()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			zap.L().Warn("run catalog unavailable, continuing without it", zap.Error(err))
			st = nil
		} else {
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				zap.L().Warn("run catalog migrate failed, continuing without it", zap.Error(err))
				st.Close() //nolint:errcheck
				st = nil
			}
		}

		orch := &phase.Orchestrator{
			Agent:      ag,
			Store:      st,
			Settings:   settings,
			SkipPhase1: runSkipPhase1,
			SkipPhase2: runSkipPhase2,
		}

		result, err := orch.Run(ctx)
		if result != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			_ = enc.Encode(result)
		}
		return err
	},
}

// pipelineSettings translates configuration into phase settings.
func pipelineSettings() phase.Settings {
	p := cfg.Pipeline
	return phase.Settings{
		Input:          p.Input,
		CoreOutput:     p.CoreOutput,
		FinalOutput:    p.FinalOutput,
		PartialEvery:   p.PartialEvery,
		RowRetries:     p.RowRetries,
		StartSleep:     time.Duration(p.RetryStartSleep * float64(time.Second)),
		BackoffBase:    p.RetryBackoffBase,
		MaxSleep:       time.Duration(p.RetryMaxSleep * float64(time.Second)),
		TargetContacts: p.TargetContacts,
		MaxSteps:       cfg.Agent.MaxSteps,
		RunRoot:        p.RunRoot,
		CheckpointSync: p.CheckpointSync,
	}
}

// initAgent builds the enrichment agent client. A missing API key is fatal
// before any row is touched, unless the run is offline.
func initAgent() (agent.Client, error) {
	if runOffline {
		return offlineAgent{}, nil
	}
	if cfg.Agent.Key == "" {
		return nil, eris.New("agent API key is required (LOOKUP_AGENT_KEY)")
	}

	opts := []agent.Option{
		agent.WithBaseURL(cfg.Agent.BaseURL),
		agent.WithMaxSteps(cfg.Agent.MaxSteps),
	}
	if cfg.Agent.TimeoutSecs > 0 {
		opts = append(opts, agent.WithTimeout(time.Duration(cfg.Agent.TimeoutSecs)*time.Second))
	}
	if cfg.Agent.RateLimit > 0 {
		opts = append(opts, agent.WithRateLimit(cfg.Agent.RateLimit))
	}
	return agent.NewClient(cfg.Agent.Key, opts...), nil
}

// offlineAgent answers every request empty-handed. It exists so the
// pipeline's file handling can be exercised without agent credentials;
// every row comes out exhausted with only its attempts marker.
type offlineAgent struct{}

func (offlineAgent) Lookup(context.Context, agent.LookupRequest) (*agent.CompanyCore, error) {
	return nil, nil
}

func (offlineAgent) Contacts(context.Context, agent.ContactsRequest) (*agent.ContactsResult, error) {
	return nil, nil
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "phase 1 input CSV (default from config: input.csv)")
	runCmd.Flags().StringVar(&runCoreOutput, "core-output", "", "phase 1 output CSV / phase 2 input (default: output.core.csv)")
	runCmd.Flags().StringVar(&runFinalOutput, "final-output", "", "phase 2 output CSV (default: output.with_contacts.csv)")
	runCmd.Flags().StringVar(&runRunRoot, "run-root", "", "directory for per-run checkpoint folders (default: runs)")
	runCmd.Flags().BoolVar(&runSkipPhase1, "skip-phase1", false, "skip company discovery (reuse an existing core CSV)")
	runCmd.Flags().BoolVar(&runSkipPhase2, "skip-phase2", false, "skip contact discovery")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "run without the agent (rows pass through unenriched)")
	rootCmd.AddCommand(runCmd)
}
