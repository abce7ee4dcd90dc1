package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-finder/internal/enrichment"
	"github.com/octobees/company-finder/internal/logging"
	"github.com/octobees/company-finder/internal/repository"
	"github.com/octobees/company-finder/internal/service"
	"github.com/octobees/company-finder/internal/view"
)

// statusFor maps a service error onto the HTTP status and the message shown
// to the user.
func statusFor(err error) (int, string) {
	var validation service.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, service.ErrEmptySearchTerm):
		return http.StatusBadRequest, "please enter a company name"
	case errors.Is(err, service.ErrInvalidCompanyID):
		return http.StatusBadRequest, "invalid company id"
	case errors.Is(err, repository.ErrInvalidCompany):
		return http.StatusBadRequest, "company name and domain are required"
	case errors.Is(err, repository.ErrCompanyNotFound):
		return http.StatusNotFound, "company not found"
	case errors.Is(err, enrichment.ErrRequestCanceled):
		return http.StatusRequestTimeout, "the search was cancelled before it finished"
	case errors.Is(err, enrichment.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "the company data provider is unavailable, try again later"
	case errors.Is(err, enrichment.ErrUpstreamMalformed):
		return http.StatusBadGateway, "the company data provider could not describe that company"
	default:
		return http.StatusInternalServerError, "something went wrong while saving your data"
	}
}

// renderError logs err and renders the generic error page.
func renderError(c echo.Context, err error) error {
	status, message := statusFor(err)

	logger := logging.FromContext(c.Request().Context())
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(c.Request().Context(), level, "request failed",
		slog.Int("status", status),
		slog.Any("error", err))

	return c.Render(status, view.PageError, view.ErrorData{Status: status, Message: message})
}

// HTTPErrorHandler renders echo errors (unknown routes, rate limiting,
// panics) as the error page, or as the JSON envelope under /api.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	}

	var renderErr error
	switch {
	case c.Request().Method == http.MethodHead:
		renderErr = c.NoContent(status)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		renderErr = Error(c, status, message)
	default:
		renderErr = c.Render(status, view.PageError, view.ErrorData{Status: status, Message: message})
	}
	if renderErr != nil {
		logging.FromContext(c.Request().Context()).Error("failed to write error response", slog.Any("error", renderErr))
	}
}
