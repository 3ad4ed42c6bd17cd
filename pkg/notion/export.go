package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Column names the exporter treats specially. They match the pipeline's
// output header.
const (
	colCompanyName = "COMPANY NAME"
	colWebsite     = "WEBSITE"
	colGovUK       = "GOV.UK URL"
)

// ExportRows creates one Notion page per company row. The COMPANY NAME
// cell becomes the page title; website and GOV.UK cells become URL
// properties; every other non-empty cell is stored as rich text. Rows with
// no company name are skipped, duplicate company names (within the sheet or
// already present in the database) are exported once. Returns the number of
// pages created.
func ExportRows(ctx context.Context, c Client, dbID string, header []string, rows [][]string) (int, error) {
	nameIdx := -1
	for i, h := range header {
		if h == colCompanyName {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return 0, eris.Errorf("notion: header has no %q column", colCompanyName)
	}

	seen, err := existingTitles(ctx, c, dbID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, row := range rows {
		if ctx.Err() != nil {
			return created, eris.Wrap(ctx.Err(), "notion: export cancelled")
		}

		name := ""
		if nameIdx < len(row) {
			name = strings.TrimSpace(row[nameIdx])
		}
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			zap.L().Debug("notion: skipping duplicate company", zap.String("company", name))
			continue
		}
		seen[key] = struct{}{}

		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: buildRowProperties(header, row, name),
		}
		if _, err := c.CreatePage(ctx, req); err != nil {
			return created, eris.Wrapf(err, "notion: create page for %s", name)
		}
		created++
	}

	return created, nil
}

// existingTitles pages through the database and collects lowercased page
// titles, so re-exporting a sheet never creates duplicate companies.
func existingTitles(ctx context.Context, c Client, dbID string) (map[string]struct{}, error) {
	titles := make(map[string]struct{})
	req := &notionapi.DatabaseQueryRequest{}

	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query existing pages")
		}
		for _, page := range resp.Results {
			for _, prop := range page.Properties {
				tp, ok := prop.(*notionapi.TitleProperty)
				if !ok {
					continue
				}
				var sb strings.Builder
				for _, rt := range tp.Title {
					sb.WriteString(rt.PlainText)
				}
				if t := strings.ToLower(strings.TrimSpace(sb.String())); t != "" {
					titles[t] = struct{}{}
				}
			}
		}
		if !resp.HasMore {
			return titles, nil
		}
		req = &notionapi.DatabaseQueryRequest{StartCursor: resp.NextCursor}
	}
}

// buildRowProperties converts one row into Notion page properties.
func buildRowProperties(header []string, row []string, name string) notionapi.Properties {
	props := make(notionapi.Properties)

	props[colCompanyName] = notionapi.TitleProperty{
		Type: notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: name}},
		},
	}
	props["Status"] = notionapi.StatusProperty{
		Status: notionapi.Status{Name: "Queued"},
	}

	for i, h := range header {
		if h == colCompanyName || i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		switch h {
		case colWebsite, colGovUK:
			props[h] = notionapi.URLProperty{
				Type: notionapi.PropertyTypeURL,
				URL:  normalizeURL(v),
			}
		default:
			props[h] = notionapi.RichTextProperty{
				Type: notionapi.PropertyTypeRichText,
				RichText: []notionapi.RichText{
					{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: v}},
				},
			}
		}
	}

	return props
}

// normalizeURL ensures a bare domain gets an https:// scheme prefix.
func normalizeURL(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return ""
	}
	if !strings.Contains(domain, "://") {
		return "https://" + domain
	}
	return domain
}
