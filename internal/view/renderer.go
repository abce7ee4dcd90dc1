// Package view renders the HTML pages served by the web handlers.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-finder/internal/entity"
)

// Page names accepted by Renderer.Render.
const (
	PageIndex   = "index"
	PageResults = "results"
	PageError   = "error"
	PageAbout   = "about"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexData feeds the home page.
type IndexData struct {
	Companies []entity.Company
}

// ResultsData feeds the results page. A nil Company renders the blank add form.
type ResultsData struct {
	Company *entity.Company
}

// ErrorData feeds the generic error page.
type ErrorData struct {
	Status  int
	Message string
}

// AboutData feeds the about page.
type AboutData struct {
	Members []TeamMember
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

var funcs = template.FuncMap{
	"text": func(value *string) string {
		if value == nil {
			return ""
		}
		return *value
	},
	"number": func(value *int) string {
		if value == nil {
			return ""
		}
		return strconv.Itoa(*value)
	},
}

// NewRenderer parses every page together with the shared layout and the
// company form fragment.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{PageIndex, PageResults, PageError, PageAbout} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/company_form.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
