package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/octobees/company-finder/internal/metrics"
)

const (
	upstreamDomainFinder = "domain_finder"
	upstreamProfile      = "profile"

	defaultTimeout  = 5 * time.Second
	maxResponseSize = 1 << 20
)

// Enricher resolves a company name into domain and profile data.
type Enricher interface {
	Enrich(ctx context.Context, searchTerm string) (Result, error)
}

// Config configures both upstream endpoints.
type Config struct {
	DomainFinderURL string
	DomainFinderKey string
	ProfileURL      string
	ProfileKey      string
	// Timeout bounds each upstream call separately.
	Timeout time.Duration
	Breaker BreakerConfig
}

type upstream struct {
	name    string
	url     string
	apiKey  string
	breaker *gobreaker.CircuitBreaker
}

// Client talks to the domain finder and the profile enrichment service.
type Client struct {
	client       *http.Client
	timeout      time.Duration
	domainFinder upstream
	profile      upstream
}

// NewClient builds a client. The http.Client is shared across requests and must
// be safe for concurrent use, which *http.Client is.
func NewClient(client *http.Client, cfg Config) *Client {
	if client == nil {
		client = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	breakerCfg := cfg.Breaker
	if breakerCfg == (BreakerConfig{}) {
		breakerCfg = DefaultBreakerConfig()
	}

	return &Client{
		client:  client,
		timeout: timeout,
		domainFinder: upstream{
			name:    upstreamDomainFinder,
			url:     cfg.DomainFinderURL,
			apiKey:  cfg.DomainFinderKey,
			breaker: newBreaker(upstreamDomainFinder, breakerCfg),
		},
		profile: upstream{
			name:    upstreamProfile,
			url:     cfg.ProfileURL,
			apiKey:  cfg.ProfileKey,
			breaker: newBreaker(upstreamProfile, breakerCfg),
		},
	}
}

var _ Enricher = (*Client)(nil)

// Enrich runs the two lookups in order. The profile call needs the domain
// returned by the first call, so any failure stops the chain.
func (c *Client) Enrich(ctx context.Context, searchTerm string) (Result, error) {
	searchTerm = strings.TrimSpace(searchTerm)
	if searchTerm == "" {
		return Result{}, ErrEmptySearchTerm
	}

	domain, err := c.FindDomain(ctx, searchTerm)
	if err != nil {
		return Result{}, err
	}

	profile, err := c.FetchProfile(ctx, domain.Domain)
	if err != nil {
		return Result{}, err
	}

	return Result{Domain: domain, Profile: profile}, nil
}

// FindDomain asks the domain finder for the canonical domain of name.
func (c *Client) FindDomain(ctx context.Context, name string) (DomainResult, error) {
	endpoint, err := url.Parse(c.domainFinder.url)
	if err != nil {
		return DomainResult{}, fmt.Errorf("parse domain finder url: %w", err)
	}
	query := endpoint.Query()
	query.Set("name", name)
	endpoint.RawQuery = query.Encode()

	var result DomainResult
	err = c.call(ctx, &c.domainFinder, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	}, &result)
	if err != nil {
		return DomainResult{}, err
	}

	result.Domain = strings.TrimSpace(result.Domain)
	if result.Domain == "" {
		return DomainResult{}, fmt.Errorf("%w: %s response has no domain", ErrUpstreamMalformed, upstreamDomainFinder)
	}
	return result, nil
}

// FetchProfile asks the profile service to describe domain.
func (c *Client) FetchProfile(ctx context.Context, domain string) (ProfileResult, error) {
	body, err := json.Marshal(map[string]string{"domain": domain})
	if err != nil {
		return ProfileResult{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var result ProfileResult
	err = c.call(ctx, &c.profile, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.profile.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &result)
	if err != nil {
		return ProfileResult{}, err
	}
	return result, nil
}

func (c *Client) call(ctx context.Context, up *upstream, build func(context.Context) (*http.Request, error), out any) error {
	start := time.Now()
	_, err := up.breaker.Execute(func() (interface{}, error) {
		err := c.roundTrip(ctx, up, build, out)
		// Only the caller's context is checked; the per-call timeout lives on a
		// derived context and still counts against the upstream.
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRequestCanceled, up.name, ctx.Err())
		}
		return nil, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %s circuit open: %v", ErrUpstreamUnavailable, up.name, err)
	}

	metrics.RecordUpstream(up.name, outcomeOf(err), time.Since(start))
	return err
}

func (c *Client) roundTrip(ctx context.Context, up *upstream, build func(context.Context) (*http.Request, error), out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := build(ctx)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", up.name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+up.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %v", ErrUpstreamUnavailable, up.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Upstream:   up.name,
			StatusCode: resp.StatusCode,
			Message:    extractUpstreamError(resp.Body),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", ErrUpstreamUnavailable, up.name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: could not decode %s response: %v", ErrUpstreamMalformed, up.name, err)
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrRequestCanceled):
		return metrics.OutcomeCanceled
	case errors.Is(err, ErrUpstreamUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeMalformed
	}
}

// extractUpstreamError pulls a readable message from an error body. Providers
// use either {"error": "..."} or {"message": "..."}.
func extractUpstreamError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if msg, ok := payload.Error.(string); ok && msg != "" {
			return msg
		}
		if nested, ok := payload.Error.(map[string]any); ok {
			if msg, ok := nested["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return strings.TrimSpace(string(data))
}
