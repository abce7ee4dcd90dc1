package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-finder/internal/dto"
	"github.com/octobees/company-finder/internal/service"
	"github.com/octobees/company-finder/internal/view"
)

// SearchHandler serves the search form and its results.
type SearchHandler struct {
	service *service.CompaniesService
}

// NewSearchHandler creates a new handler instance.
func NewSearchHandler(service *service.CompaniesService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles POST /results.
func (h *SearchHandler) Search(c echo.Context) error {
	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, service.ErrEmptySearchTerm)
	}

	company, err := h.service.Search(c.Request().Context(), req.SearchTerm)
	if err != nil {
		return renderError(c, err)
	}
	return c.Render(http.StatusOK, view.PageResults, view.ResultsData{Company: company})
}

// NewSearch handles GET /results and shows the blank add form.
func (h *SearchHandler) NewSearch(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageResults, view.ResultsData{})
}

// LastSearched handles GET /api/last-searched.
func (h *SearchHandler) LastSearched(c echo.Context) error {
	company, err := h.service.LastSearched(c.Request().Context())
	if err != nil {
		status, message := statusFor(err)
		return Error(c, status, message)
	}
	return Success(c, http.StatusOK, "last searched company retrieved", company)
}
