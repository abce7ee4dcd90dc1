package service

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/octobees/company-finder/internal/dto"
	"github.com/octobees/company-finder/internal/entity"
)

var idnaProfile = idna.Lookup

// ErrInvalidCompanyID is returned when a route id is not a positive integer.
var ErrInvalidCompanyID = errors.New("invalid company id")

// ValidationError reports a rejected form field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseCompanyID converts a path parameter into a saved company id.
func ParseCompanyID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidCompanyID
	}
	return id, nil
}

// ParseCompanyForm validates the add/edit form and builds the company to store.
// Blank clients and mission links are derived from the name.
func ParseCompanyForm(form dto.CompanyForm) (*entity.Company, error) {
	name := strings.TrimSpace(form.CompanyName)
	if name == "" {
		return nil, ValidationError{Field: "companyname", Message: "is required"}
	}

	domain, err := normalizeDomain(form.Domain)
	if err != nil {
		return nil, ValidationError{Field: "domain", Message: err.Error()}
	}

	size, err := parseOptionalInt(form.Size)
	if err != nil || (size != nil && *size < 0) {
		return nil, ValidationError{Field: "size", Message: "must be a non-negative whole number"}
	}

	company := &entity.Company{
		CompanyName: name,
		Founded:     normalizeString(form.Founded),
		Size:        size,
		Leaders:     strings.TrimSpace(form.Leaders),
		Product:     strings.TrimSpace(form.Product),
		Clients:     strings.TrimSpace(form.Clients),
		Mission:     strings.TrimSpace(form.Mission),
		Location:    strings.TrimSpace(form.Location),
		Domain:      domain,
		Logo:        sanitizeLogo(form.Logo),
		Notes:       normalizeString(form.Notes),
	}
	if company.Leaders == "" {
		company.Leaders = entity.DefaultLeaders
	}
	if company.Clients == "" {
		company.Clients = entity.ReferenceLink(name)
	}
	if company.Mission == "" {
		company.Mission = entity.ReferenceLink(name)
	}
	return company, nil
}

// normalizeDomain lower-cases a host name, strips any scheme or path the user
// pasted along with it and converts internationalized labels to ASCII.
func normalizeDomain(raw string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(raw))
	if domain == "" {
		return "", errors.New("is required")
	}
	if strings.Contains(domain, "://") {
		if u, err := url.Parse(domain); err == nil && u.Host != "" {
			domain = u.Hostname()
		}
	}
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	domain = strings.TrimSuffix(domain, ".")

	ascii, err := idnaProfile.ToASCII(domain)
	if err != nil || !isDomainValid(ascii) {
		return "", fmt.Errorf("%q is not a valid domain", raw)
	}
	return ascii, nil
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

// sanitizeLogo drops values carrying a scheme other than http or https.
func sanitizeLogo(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return raw
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	// The size column is a Postgres INTEGER.
	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return nil, err
	}
	i := int(parsed)
	return &i, nil
}

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
