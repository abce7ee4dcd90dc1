package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-finder/internal/view"
)

// AboutHandler renders the team page.
type AboutHandler struct {
	members []view.TeamMember
}

// NewAboutHandler creates a new handler instance.
func NewAboutHandler(members []view.TeamMember) *AboutHandler {
	return &AboutHandler{members: members}
}

// Show handles GET /about. The roster order changes on every request.
func (h *AboutHandler) Show(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageAbout, view.AboutData{Members: view.Shuffled(h.members)})
}
