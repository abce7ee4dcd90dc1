package enrichment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DomainResult is the domain finder's answer for a company name.
type DomainResult struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
}

// ProfileResult is the profile service's description of a domain. Location and
// DataAddOns vary in shape between providers and are kept raw for the normalizer.
type ProfileResult struct {
	Name       string          `json:"name"`
	Founded    FlexibleString  `json:"founded"`
	Employees  *int            `json:"employees"`
	Bio        string          `json:"bio"`
	Location   json.RawMessage `json:"location"`
	DataAddOns json.RawMessage `json:"dataAddOns"`
}

// Result bundles both lookups of one search.
type Result struct {
	Domain  DomainResult
	Profile ProfileResult
}

// FlexibleString accepts a JSON string or number and keeps its text form.
type FlexibleString struct {
	Value string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FlexibleString{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*f = FlexibleString{Value: s, Valid: s != ""}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = FlexibleString{Value: n.String(), Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexibleString) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
