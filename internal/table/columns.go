// Package table reads and writes the delimited company spreadsheets the
// pipeline operates on, preserving each file's dialect, and grows their
// schema (phone and contact column families) as enrichment results arrive.
package table

// Canonical output column names. The casing matches the spreadsheets the
// sales team already works with, so these are matched exactly and never
// normalized.
const (
	ColAddress          = "ADDRESS"
	ColPostcode         = "POSTCODE"
	ColCompanyName      = "COMPANY NAME"
	ColWebsite          = "WEBSITE"
	ColGeneralEmail     = "GENERAL EMAIL"
	ColPhone            = "PHONE NUMBER"
	ColContactName      = "DIRECT CONTACT"
	ColContactTitle     = "JOBTITLE"
	ColContactLinkedIn  = "LINKEDIN"
	ColContactEmail     = "EMAIL"
	ColGovUKURL         = "GOV.UK URL"
	ColSourceURL        = "source_url"
	ColConfidence       = "confidence"
	ColNotes            = "notes"
	ColContactSourceURL = "contact_source_url"
)
