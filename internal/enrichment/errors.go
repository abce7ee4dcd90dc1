package enrichment

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySearchTerm is returned when Enrich is called without a company name.
	ErrEmptySearchTerm = errors.New("search term must not be empty")
	// ErrUpstreamUnavailable covers transport failures, timeouts, 5xx responses
	// and open circuit breakers.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamMalformed covers non-2xx client errors, undecodable bodies and
	// responses missing mandatory fields.
	ErrUpstreamMalformed = errors.New("upstream response malformed")
	// ErrRequestCanceled means the caller gave up before the upstream answered.
	// It says nothing about upstream health.
	ErrRequestCanceled = errors.New("request canceled by caller")
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Upstream   string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned status %d", e.Upstream, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Upstream, e.StatusCode, e.Message)
}

// Unwrap classifies the status: 5xx means the service is unavailable,
// anything else means the exchange itself was not usable.
func (e *StatusError) Unwrap() error {
	if e.StatusCode >= 500 {
		return ErrUpstreamUnavailable
	}
	return ErrUpstreamMalformed
}
