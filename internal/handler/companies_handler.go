package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-finder/internal/dto"
	"github.com/octobees/company-finder/internal/service"
	"github.com/octobees/company-finder/internal/view"
)

// CompaniesHandler exposes the saved companies list.
type CompaniesHandler struct {
	service *service.CompaniesService
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service *service.CompaniesService) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// Home handles GET / requests.
func (h *CompaniesHandler) Home(c echo.Context) error {
	companies, err := h.service.ListSaved(c.Request().Context())
	if err != nil {
		return renderError(c, err)
	}
	return c.Render(http.StatusOK, view.PageIndex, view.IndexData{Companies: companies})
}

// ListJSON handles GET /api/companies requests.
func (h *CompaniesHandler) ListJSON(c echo.Context) error {
	companies, err := h.service.ListSaved(c.Request().Context())
	if err != nil {
		status, message := statusFor(err)
		return Error(c, status, message)
	}
	return Success(c, http.StatusOK, "companies retrieved", companies)
}

// Add handles POST /add.
func (h *CompaniesHandler) Add(c echo.Context) error {
	var form dto.CompanyForm
	if err := c.Bind(&form); err != nil {
		return renderError(c, service.ValidationError{Message: "invalid form payload"})
	}

	if _, err := h.service.AddSaved(c.Request().Context(), form); err != nil {
		return renderError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Edit handles PUT /update/:company_id. HTML forms reach it through the
// _method override.
func (h *CompaniesHandler) Edit(c echo.Context) error {
	var form dto.CompanyForm
	if err := c.Bind(&form); err != nil {
		return renderError(c, service.ValidationError{Message: "invalid form payload"})
	}

	if err := h.service.UpdateSaved(c.Request().Context(), c.Param("company_id"), form); err != nil {
		return renderError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Delete handles GET /delete/:company_id.
func (h *CompaniesHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteSaved(c.Request().Context(), c.Param("company_id")); err != nil {
		return renderError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
