package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Output column names the lead builder reads. Contact columns are families:
// slot 1 is the bare name, slot k is "{base} {k}".
const (
	colCompanyName  = "COMPANY NAME"
	colWebsite      = "WEBSITE"
	colPhone        = "PHONE NUMBER"
	colContactName  = "DIRECT CONTACT"
	colContactTitle = "JOBTITLE"
	colContactEmail = "EMAIL"
)

// maxContactSlots matches the pipeline's contact family cap.
const maxContactSlots = 3

// Lead is one Salesforce Lead record built from a contact slot.
type Lead struct {
	FirstName string
	LastName  string
	Company   string
	Title     string
	Email     string
	Phone     string
	Website   string
}

// fields maps the lead onto Salesforce API names, dropping empty values.
// LastName and Company are Salesforce-required and always present.
func (l Lead) fields() map[string]any {
	m := map[string]any{
		"LastName":   l.LastName,
		"Company":    l.Company,
		"LeadSource": "UK company lookup",
	}
	if l.FirstName != "" {
		m["FirstName"] = l.FirstName
	}
	if l.Title != "" {
		m["Title"] = l.Title
	}
	if l.Email != "" {
		m["Email"] = l.Email
	}
	if l.Phone != "" {
		m["Phone"] = l.Phone
	}
	if l.Website != "" {
		m["Website"] = l.Website
	}
	return m
}

func familyColumn(base string, k int) string {
	if k <= 1 {
		return base
	}
	return fmt.Sprintf("%s %d", base, k)
}

func cell(header, row []string, name string) string {
	for i, h := range header {
		if h == name {
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
	}
	return ""
}

// splitName divides a full contact name into first and last, treating the
// final token as the surname. A single-token name is all surname.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	last = parts[len(parts)-1]
	first = strings.Join(parts[:len(parts)-1], " ")
	return first, last
}

// LeadsFromTable builds one Lead per filled contact slot of every row.
// A slot needs both a contact name and the row's company name; slots
// missing either are skipped and counted.
func LeadsFromTable(header []string, rows [][]string) (leads []Lead, skipped int) {
	for _, row := range rows {
		company := cell(header, row, colCompanyName)
		website := cell(header, row, colWebsite)
		phone := cell(header, row, colPhone)

		for k := 1; k <= maxContactSlots; k++ {
			name := cell(header, row, familyColumn(colContactName, k))
			if name == "" && k > 1 {
				continue
			}
			if name == "" || company == "" {
				skipped++
				continue
			}
			first, last := splitName(name)
			leads = append(leads, Lead{
				FirstName: first,
				LastName:  last,
				Company:   company,
				Title:     cell(header, row, familyColumn(colContactTitle, k)),
				Email:     cell(header, row, familyColumn(colContactEmail, k)),
				Phone:     phone,
				Website:   website,
			})
		}
	}
	return leads, skipped
}

// InsertLeads pushes leads in collection batches of 200 and returns the
// per-record results in input order.
func InsertLeads(ctx context.Context, c Client, leads []Lead) ([]CollectionResult, error) {
	if len(leads) == 0 {
		return nil, nil
	}

	var all []CollectionResult
	for start := 0; start < len(leads); start += maxBatchSize {
		end := min(start+maxBatchSize, len(leads))

		records := make([]map[string]any, 0, end-start)
		for _, l := range leads[start:end] {
			records = append(records, l.fields())
		}

		results, err := c.InsertCollection(ctx, "Lead", records)
		if err != nil {
			return all, eris.Wrapf(err, "sf: insert leads batch %d-%d", start, end)
		}
		all = append(all, results...)
	}

	return all, nil
}
