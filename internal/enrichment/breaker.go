package enrichment

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker placed in front of each upstream.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// FailureThreshold is the failure ratio that trips the breaker.
	FailureThreshold float64
	// MinRequests must be observed before the ratio is considered.
	MinRequests uint32
}

// DefaultBreakerConfig suits paid third-party APIs called once per search.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      2,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		// Bad payloads and callers hanging up say nothing about the upstream's health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, ErrRequestCanceled) {
				return true
			}
			return !errors.Is(err, ErrUpstreamUnavailable)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
}
