package agent

// LookupRequest asks the agent for a company's core details, anchored on
// the row's address and postcode. SeedCompany is a best-effort company name
// extracted from the address to start the agent from.
type LookupRequest struct {
	Address     string `json:"address"`
	Postcode    string `json:"postcode"`
	SeedCompany string `json:"seed_company,omitempty"`
	MaxSteps    int    `json:"max_steps,omitempty"`
}

// CompanyCore is the agent's answer to a lookup. Field names follow the
// agent's wire format.
type CompanyCore struct {
	CompanyName  string   `json:"company_name"`
	Postcode     string   `json:"post_code"`
	Website      string   `json:"website"`
	Email        string   `json:"email"`
	PhoneNumbers []string `json:"numbers"`
	GovUKURL     string   `json:"govuk_url"`
	SourceURL    string   `json:"source_url"`
	Confidence   float64  `json:"confidence"`
	Notes        string   `json:"notes"`
}

// ContactsRequest asks the agent for named decision-makers at a company
// already identified by a lookup.
type ContactsRequest struct {
	CompanyName    string `json:"company_name"`
	Website        string `json:"website,omitempty"`
	GovUKURL       string `json:"govuk_url,omitempty"`
	Address        string `json:"address,omitempty"`
	Postcode       string `json:"postcode,omitempty"`
	TargetContacts int    `json:"target_contacts"`
	MaxSteps       int    `json:"max_steps,omitempty"`
}

// Contact is one person returned by a contacts request.
type Contact struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	LinkedIn string `json:"linkedin"`
	Email    string `json:"email"`
}

// ContactsResult is the agent's answer to a contacts request.
type ContactsResult struct {
	Contacts   []Contact `json:"contacts"`
	SourceURL  string    `json:"source_url"`
	Confidence float64   `json:"confidence"`
	Notes      string    `json:"notes"`
}
