package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDomainFinderURL = "https://company.clearbit.com/v1/domains/find"
	defaultProfileURL      = "https://api.fullcontact.com/v3/company.enrich"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// UpstreamConfig describes one external company-data API.
type UpstreamConfig struct {
	URL    string
	APIKey string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	Port            string
	DomainFinder    UpstreamConfig
	Profile         UpstreamConfig
	UpstreamTimeout time.Duration
	RateLimitSearch RateLimitConfig
	LogLevel        string
	LogFormat       string
	// StaticDir is served at the site root.
	StaticDir string
	// TeamFile optionally replaces the built-in about-page roster.
	TeamFile string
}

// Load reads configuration from environment variables and applies sane defaults.
// Missing credentials or database settings are reported as a single error so the
// process can refuse to start.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Port:        getEnv("PORT", "3000"),
		DomainFinder: UpstreamConfig{
			URL:    getEnv("DOMAIN_FINDER_URL", defaultDomainFinderURL),
			APIKey: strings.TrimSpace(os.Getenv("CLEARBIT_API_KEY")),
		},
		Profile: UpstreamConfig{
			URL:    getEnv("PROFILE_ENRICH_URL", defaultProfileURL),
			APIKey: strings.TrimSpace(os.Getenv("FULLCONTACT_API_KEY")),
		},
		UpstreamTimeout: parseDuration(getEnv("UPSTREAM_TIMEOUT", "5s"), 5*time.Second),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "json")),
		StaticDir:       getEnv("STATIC_DIR", "public"),
		TeamFile:        getEnv("TEAM_FILE", ""),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEARCH", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEARCH value: %w", err)
	}
	cfg.RateLimitSearch = rl

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.DomainFinder.APIKey == "" {
		errs = append(errs, errors.New("CLEARBIT_API_KEY is required"))
	}
	if c.Profile.APIKey == "" {
		errs = append(errs, errors.New("FULLCONTACT_API_KEY is required"))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be numeric, got %q", c.Port))
	}
	return errors.Join(errs...)
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
