package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// starterConfig is written by `lookup init`. Every key shows its default;
// any key can also be set via LOOKUP_-prefixed environment variables
// (LOOKUP_AGENT_KEY, LOOKUP_PIPELINE_ROW_RETRIES, ...).
const starterConfig = `agent:
  base_url: http://127.0.0.1:8701
  key: ""
  max_steps: 120
  timeout_secs: 120
  rate_limit: 0

pipeline:
  input: input.csv
  core_output: output.core.csv
  final_output: output.with_contacts.csv
  partial_every: 20
  row_retries: 5
  retry_start_sleep: 1.0
  retry_backoff_base: 1.8
  retry_max_sleep: 12.0
  target_contacts: 3
  run_root: runs
  checkpoint_sync: false

store:
  driver: sqlite
  dsn: lookup.db

fetch:
  timeout_secs: 60
  concurrency: 4
  rate_limit: 5.0

notion:
  token: ""
  database_id: ""

salesforce:
  login_url: https://login.salesforce.com
  username: ""
  client_id: ""
  key_path: ""

log:
  level: info
  format: json
`

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml",
	RunE: func(cmd *cobra.Command, _ []string) error {
		const path = "config.yaml"

		if !initForce {
			if _, err := os.Stat(path); err == nil {
				return eris.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
			return eris.Wrap(err, "write config.yaml")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "wrote config.yaml")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config.yaml")
	rootCmd.AddCommand(initCmd)
}
