package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lookup-cli/internal/fetcher"
	"github.com/sells-group/lookup-cli/internal/table"
)

var (
	convertSheet    string
	convertSheetIdx int
	convertSkipRows int
	convertOut      string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.xlsx>",
	Short: "Convert an Excel workbook to CSV",
	Long:  "Reads one sheet of an .xlsx workbook and writes it as a comma-delimited CSV ready for the pipeline.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]

		rows, err := fetcher.ReadXLSX(src, fetcher.XLSXOptions{
			SheetIndex: convertSheetIdx,
			SheetName:  convertSheet,
			SkipRows:   convertSkipRows,
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return eris.Errorf("convert: %s has no rows", src)
		}

		out := convertOut
		if out == "" {
			out = strings.TrimSuffix(src, ".xlsx") + ".csv"
		}

		t := &table.Table{
			Header:  rows[0],
			Rows:    rows[1:],
			Dialect: table.DefaultDialect(),
		}
		if err := table.WriteFile(out, t); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows)\n", out, len(t.Rows))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertSheet, "sheet", "", "sheet name (default: first sheet)")
	convertCmd.Flags().IntVar(&convertSheetIdx, "sheet-index", 0, "sheet index when no name is given")
	convertCmd.Flags().IntVar(&convertSkipRows, "skip-rows", 0, "leading rows to discard before the header")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "output CSV path (default: input path with .csv)")
	rootCmd.AddCommand(convertCmd)
}
