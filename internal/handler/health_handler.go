package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and database health.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new handler instance.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return Error(c, http.StatusServiceUnavailable, "database unavailable")
	}
	return Success(c, http.StatusOK, "ok", map[string]string{"database": "up"})
}
