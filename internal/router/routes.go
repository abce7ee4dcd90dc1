package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/company-finder/internal/config"
	"github.com/octobees/company-finder/internal/handler"
	middlewarepkg "github.com/octobees/company-finder/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Companies *handler.CompaniesHandler
	Search    *handler.SearchHandler
	About     *handler.AboutHandler
	Health    *handler.HealthHandler
}

// New builds the echo instance with the shared middleware stack and every route.
func New(cfg *config.Config, logger *slog.Logger, renderer echo.Renderer, handlers Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// HTML forms can only send GET and POST; edits arrive as POST with _method=PUT.
	e.Pre(echoMiddleware.MethodOverrideWithConfig(echoMiddleware.MethodOverrideConfig{
		Getter: echoMiddleware.MethodFromForm("_method"),
	}))

	e.Use(middlewarepkg.RequestID(logger))
	e.Use(middlewarepkg.Logging())
	e.Use(middlewarepkg.Metrics())
	e.Use(echoMiddleware.Recover())

	Register(e, cfg, handlers)
	return e
}

// Register wires all HTTP routes.
// Static assets are registered first so the explicit routes below take
// precedence on overlapping paths.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}

	e.GET("/healthz", handlers.Health.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/", handlers.Companies.Home)
	e.POST("/results", handlers.Search.Search, middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch))
	e.GET("/results", handlers.Search.NewSearch)
	e.PUT("/update/:company_id", handlers.Companies.Edit)
	e.POST("/add", handlers.Companies.Add)
	e.GET("/delete/:company_id", handlers.Companies.Delete)
	e.GET("/about", handlers.About.Show)

	api := e.Group("/api")
	api.GET("/companies", handlers.Companies.ListJSON)
	api.GET("/last-searched", handlers.Search.LastSearched)
}
