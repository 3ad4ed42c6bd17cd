package main

import (
	"fmt"
	"os"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lookup-cli/internal/table"
	"github.com/sells-group/lookup-cli/pkg/notion"
	sfpkg "github.com/sells-group/lookup-cli/pkg/salesforce"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Push enriched results to downstream systems",
}

var exportNotionDB string

var exportNotionCmd = &cobra.Command{
	Use:   "notion <csv>",
	Short: "Export company rows to a Notion database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Notion.Token == "" {
			return eris.New("notion token is required (LOOKUP_NOTION_TOKEN)")
		}
		dbID := exportNotionDB
		if dbID == "" {
			dbID = cfg.Notion.DatabaseID
		}
		if dbID == "" {
			return eris.New("notion database ID is required (--db or LOOKUP_NOTION_DATABASE_ID)")
		}

		t, err := table.ReadFile(args[0])
		if err != nil {
			return err
		}

		c := notion.NewClient(cfg.Notion.Token)
		created, err := notion.ExportRows(ctx, c, dbID, t.Header, t.Rows)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d Notion pages\n", created)
		return nil
	},
}

var exportSalesforceCmd = &cobra.Command{
	Use:   "salesforce <csv>",
	Short: "Export contact rows as Salesforce Leads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sf, err := initSalesforce()
		if err != nil {
			return err
		}

		t, err := table.ReadFile(args[0])
		if err != nil {
			return err
		}

		leads, skipped := sfpkg.LeadsFromTable(t.Header, t.Rows)
		if skipped > 0 {
			zap.L().Warn("rows without contact and company skipped", zap.Int("skipped", skipped))
		}

		results, err := sfpkg.InsertLeads(ctx, sf, leads)
		if err != nil {
			return err
		}

		ok := 0
		for _, r := range results {
			if r.Success {
				ok++
			} else {
				zap.L().Warn("lead insert failed", zap.Strings("errors", r.Errors))
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d/%d leads (%d rows skipped)\n", ok, len(leads), skipped)
		return nil
	},
}

// initSalesforce authenticates via the JWT bearer flow.
func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (LOOKUP_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}

func init() {
	exportNotionCmd.Flags().StringVar(&exportNotionDB, "db", "", "Notion database ID (default from config)")
	exportCmd.AddCommand(exportNotionCmd)
	exportCmd.AddCommand(exportSalesforceCmd)
	rootCmd.AddCommand(exportCmd)
}
