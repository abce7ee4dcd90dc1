package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/company-finder/internal/config"
)

// SearchRateLimiter applies a token bucket limiter to the route it wraps. Each
// search spends paid quota on both upstream APIs.
func SearchRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	limiter := rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
	var mu sync.Mutex

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mu.Lock()
			allowed := limiter.Allow()
			mu.Unlock()

			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "search rate limit exceeded, try again shortly")
			}

			return next(c)
		}
	}
}
