package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/octobees/company-finder/internal/enrichment"
	"github.com/octobees/company-finder/internal/entity"
)

// Normalize maps the two upstream payloads onto a Company. Optional fields
// fall back to defaults; only a missing name or domain is an error.
func Normalize(result enrichment.Result) (entity.Company, error) {
	name := strings.TrimSpace(result.Domain.Name)
	if name == "" {
		name = strings.TrimSpace(result.Profile.Name)
	}
	if name == "" {
		return entity.Company{}, fmt.Errorf("%w: no company name in either response", enrichment.ErrUpstreamMalformed)
	}

	domain, err := normalizeDomain(result.Domain.Domain)
	if err != nil {
		return entity.Company{}, fmt.Errorf("%w: domain %v", enrichment.ErrUpstreamMalformed, err)
	}

	company := entity.Company{
		CompanyName: name,
		Size:        employeeCount(result.Profile.Employees),
		Leaders:     leadersName(result.Profile.DataAddOns),
		Product:     strings.TrimSpace(result.Profile.Bio),
		Clients:     entity.ReferenceLink(name),
		Mission:     entity.ReferenceLink(name),
		Location:    locationText(result.Profile.Location),
		Domain:      domain,
		Logo:        strings.TrimSpace(result.Domain.Logo),
	}
	if result.Profile.Founded.Valid {
		founded := result.Profile.Founded.Value
		company.Founded = &founded
	}
	return company, nil
}

// employeeCount drops headcounts the size column cannot hold.
func employeeCount(n *int) *int {
	if n == nil || *n < 0 || *n > math.MaxInt32 {
		return nil
	}
	v := *n
	return &v
}

// leadersName reads dataAddOns as either {"name": ...} or a list whose first
// named entry wins.
func leadersName(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return entity.DefaultLeaders
	}

	type named struct {
		Name string `json:"name"`
	}

	switch raw[0] {
	case '{':
		var obj named
		if err := json.Unmarshal(raw, &obj); err == nil {
			if name := strings.TrimSpace(obj.Name); name != "" {
				return name
			}
		}
	case '[':
		var list []named
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, item := range list {
				if name := strings.TrimSpace(item.Name); name != "" {
					return name
				}
			}
		}
	}
	return entity.DefaultLeaders
}

// locationText keeps string locations as-is and stores structured ones as
// compact JSON.
func locationText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}
