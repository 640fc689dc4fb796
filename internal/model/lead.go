package model

import "strings"

// WebsiteNA is the website value stored for leads without a working website.
const WebsiteNA = "N/A"

// LeadColumns is the header row written by spreadsheet-style sinks, in the
// same order as Lead.Row.
var LeadColumns = []string{
	"Business Name",
	"Email",
	"Phone",
	"Rating",
	"Website",
	"Address",
	"Website Exists",
	"Cold Email",
}

// Lead is an enriched, outreach-ready business record.
//
// WebsiteExists=false implies Website=WebsiteNA and Email="". ColdEmail is
// empty until the drafter has run and never empty afterwards.
type Lead struct {
	BusinessName  string `json:"business_name" yaml:"business_name"`
	OwnerName     string `json:"owner_name" yaml:"owner_name"`
	Rating        string `json:"rating" yaml:"rating"`
	OpeningHours  string `json:"opening_hours" yaml:"opening_hours"`
	Phone         string `json:"phone" yaml:"phone"`
	Address       string `json:"address" yaml:"address"`
	Email         string `json:"email" yaml:"email"`
	Website       string `json:"website" yaml:"website"`
	WebsiteExists bool   `json:"website_exists" yaml:"website_exists"`
	ColdEmail     string `json:"cold_email" yaml:"cold_email"`

	// AttemptedWebsite is the URL the provider reported when fetching it
	// failed. It is informational and never persisted.
	AttemptedWebsite string `json:"attempted_website,omitempty" yaml:"attempted_website,omitempty"`
}

// HasWebsite reports whether the lead should be pitched as having a website.
func (l Lead) HasWebsite() bool {
	return l.WebsiteExists && l.Website != WebsiteNA
}

// Row returns the persisted columns in LeadColumns order.
func (l Lead) Row() []string {
	return []string{
		l.BusinessName,
		l.Email,
		l.Phone,
		l.Rating,
		l.Website,
		l.Address,
		boolString(l.WebsiteExists),
		l.ColdEmail,
	}
}

// boolString matches the capitalised booleans already present in existing
// lead sheets.
func boolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Valid reports whether the lead satisfies the website invariants.
func (l Lead) Valid() bool {
	if !l.WebsiteExists {
		return l.Website == WebsiteNA && l.Email == ""
	}
	return strings.TrimSpace(l.Website) != "" && l.Website != WebsiteNA
}
