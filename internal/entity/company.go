package entity

import "strings"

// DefaultLeaders is used when the profile provider does not report leadership.
const DefaultLeaders = "unknown leaders"

const referenceBaseURL = "https://en.wikipedia.org/wiki/"

// Company represents an enriched business, either the transient last search
// result or a row in the saved list.
type Company struct {
	ID          int64   `json:"id,omitempty"`
	CompanyName string  `json:"companyname"`
	Founded     *string `json:"founded,omitempty"`
	Size        *int    `json:"size,omitempty"`
	Leaders     string  `json:"leaders"`
	Product     string  `json:"product"`
	Clients     string  `json:"clients"`
	Mission     string  `json:"mission"`
	Location    string  `json:"location"`
	Domain      string  `json:"domain"`
	Logo        string  `json:"logo"`
	Notes       *string `json:"notes,omitempty"`
}

// ReferenceLink builds the encyclopedia link derived from a company name.
// Runs of spaces collapse into a single underscore.
func ReferenceLink(name string) string {
	return referenceBaseURL + strings.Join(strings.Fields(name), "_")
}
