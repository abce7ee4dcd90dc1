package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"github.com/octobees/company-finder/internal/config"
	"github.com/octobees/company-finder/internal/database"
	"github.com/octobees/company-finder/internal/enrichment"
	"github.com/octobees/company-finder/internal/handler"
	"github.com/octobees/company-finder/internal/logging"
	"github.com/octobees/company-finder/internal/repository"
	"github.com/octobees/company-finder/internal/router"
	"github.com/octobees/company-finder/internal/service"
	"github.com/octobees/company-finder/internal/view"
)

func main() {
	if err := run(); err != nil {
		slog.Error("company finder stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := database.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(startupCtx, pool); err != nil {
		return err
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}
	team, err := view.LoadTeam(cfg.TeamFile)
	if err != nil {
		return err
	}

	enricher := enrichment.NewClient(&http.Client{}, enrichment.Config{
		DomainFinderURL: cfg.DomainFinder.URL,
		DomainFinderKey: cfg.DomainFinder.APIKey,
		ProfileURL:      cfg.Profile.URL,
		ProfileKey:      cfg.Profile.APIKey,
		Timeout:         cfg.UpstreamTimeout,
	})

	companiesRepo := repository.NewPGXCompaniesRepository(pool)
	companiesService := service.NewCompaniesService(companiesRepo, enricher)

	e := router.New(cfg, logger, renderer, router.Handlers{
		Companies: handler.NewCompaniesHandler(companiesService),
		Search:    handler.NewSearchHandler(companiesService),
		About:     handler.NewAboutHandler(team),
		Health:    handler.NewHealthHandler(pool),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", slog.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
