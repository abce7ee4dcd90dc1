package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-finder/internal/middleware"
)

// APIResponse describes the envelope returned by the JSON endpoints.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Status:    "success",
		Message:   message,
		Data:      data,
		RequestID: middleware.RequestIDFromContext(c),
	})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Status:    "error",
		Message:   message,
		RequestID: middleware.RequestIDFromContext(c),
	})
}
