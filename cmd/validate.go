package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lookup-cli/internal/enrich"
	"github.com/sells-group/lookup-cli/internal/table"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check an input CSV before running the pipeline",
	Long:  "Verifies the file is readable, has a header and at least one data row, and contains address and postcode columns (matched case-insensitively).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if _, err := os.Stat(path); err != nil {
			return eris.Wrapf(err, "validate: %s", path)
		}

		t, err := table.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "validate: read %s", path)
		}
		if len(t.Header) == 0 {
			return eris.Errorf("validate: %s has no header row", path)
		}
		if len(t.Rows) == 0 {
			return eris.Errorf("validate: %s has no data rows", path)
		}

		src := enrich.FindSourceColumns(t.Header)
		if src.Address < 0 {
			return eris.Errorf("validate: %s has no address column", path)
		}
		if src.Postcode < 0 {
			return eris.Errorf("validate: %s has no postcode column", path)
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"OK: %d rows, %d columns, delimiter %q\naddress column: %q\npostcode column: %q\n",
			len(t.Rows), len(t.Header), string(t.Dialect.Delimiter),
			t.Header[src.Address], t.Header[src.Postcode])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
