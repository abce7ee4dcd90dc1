package dto

// SearchRequest captures the search form.
type SearchRequest struct {
	SearchTerm string `form:"searchTerm" json:"searchTerm"`
}

// CompanyForm is the add/edit form payload. Every field arrives as text;
// the service layer parses and validates it.
type CompanyForm struct {
	CompanyName string `form:"companyname" json:"companyname"`
	Founded     string `form:"founded" json:"founded"`
	Size        string `form:"size" json:"size"`
	Leaders     string `form:"leaders" json:"leaders"`
	Product     string `form:"product" json:"product"`
	Clients     string `form:"clients" json:"clients"`
	Mission     string `form:"mission" json:"mission"`
	Location    string `form:"location" json:"location"`
	Domain      string `form:"domain" json:"domain"`
	Logo        string `form:"logo" json:"logo"`
	Notes       string `form:"notes" json:"notes"`
}
