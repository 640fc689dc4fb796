package model

import "strings"

// Candidate is an unverified business hit returned by a discovery provider.
// Link is empty exactly when the business has no known website.
type Candidate struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Rating  string `json:"rating"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Hours   string `json:"hours"`
	IsPlace bool   `json:"is_place"`
	MapsURL string `json:"maps_url,omitempty"`
}

// HasWebsite reports whether the candidate carries a fetchable website link.
func (c Candidate) HasWebsite() bool {
	return strings.TrimSpace(c.Link) != ""
}
