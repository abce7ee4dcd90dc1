package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/octobees/company-finder/internal/dto"
	"github.com/octobees/company-finder/internal/enrichment"
	"github.com/octobees/company-finder/internal/entity"
	"github.com/octobees/company-finder/internal/logging"
	"github.com/octobees/company-finder/internal/metrics"
	"github.com/octobees/company-finder/internal/repository"
)

// ErrEmptySearchTerm is returned when a search is submitted without a name.
var ErrEmptySearchTerm = enrichment.ErrEmptySearchTerm

// CompaniesService runs the search workflow and the saved-list operations.
type CompaniesService struct {
	repo     repository.CompaniesRepository
	enricher enrichment.Enricher
}

// NewCompaniesService creates a new instance of CompaniesService.
func NewCompaniesService(repo repository.CompaniesRepository, enricher enrichment.Enricher) *CompaniesService {
	return &CompaniesService{repo: repo, enricher: enricher}
}

// Search enriches term, stores the result as the last search and returns it.
// Nothing is written when enrichment fails. A failed write after a successful
// enrichment is logged and the company is still returned.
func (s *CompaniesService) Search(ctx context.Context, term string) (*entity.Company, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		metrics.RecordSearch(metrics.OutcomeInvalid)
		return nil, ErrEmptySearchTerm
	}

	result, err := s.enricher.Enrich(ctx, term)
	if err != nil {
		metrics.RecordSearch(searchOutcome(err))
		return nil, fmt.Errorf("enrich %q: %w", term, err)
	}

	company, err := Normalize(result)
	if err != nil {
		metrics.RecordSearch(metrics.OutcomeMalformed)
		return nil, fmt.Errorf("normalize %q: %w", term, err)
	}

	if err := s.repo.ReplaceLastSearched(ctx, &company); err != nil {
		metrics.RecordPersistenceFailure("replace_last_searched")
		logging.FromContext(ctx).Error("failed to store last searched company",
			slog.String("domain", company.Domain),
			slog.Any("error", err))
	}

	metrics.RecordSearch(metrics.OutcomeSuccess)
	return &company, nil
}

// LastSearched returns the stored snapshot of the most recent search.
func (s *CompaniesService) LastSearched(ctx context.Context) (*entity.Company, error) {
	company, err := s.repo.GetLastSearched(ctx)
	if err != nil {
		return nil, persistenceError("get_last_searched", err)
	}
	return company, nil
}

// ListSaved returns the saved companies list.
func (s *CompaniesService) ListSaved(ctx context.Context) ([]entity.Company, error) {
	companies, err := s.repo.ListSaved(ctx)
	if err != nil {
		return nil, persistenceError("list_saved", err)
	}
	return companies, nil
}

// AddSaved validates form and stores it as a new saved company.
func (s *CompaniesService) AddSaved(ctx context.Context, form dto.CompanyForm) (int64, error) {
	company, err := ParseCompanyForm(form)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.InsertSaved(ctx, company)
	if err != nil {
		return 0, persistenceError("insert_saved", err)
	}
	return id, nil
}

// UpdateSaved overwrites the saved company identified by rawID.
func (s *CompaniesService) UpdateSaved(ctx context.Context, rawID string, form dto.CompanyForm) error {
	id, err := ParseCompanyID(rawID)
	if err != nil {
		return err
	}
	company, err := ParseCompanyForm(form)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateSaved(ctx, id, company); err != nil {
		return persistenceError("update_saved", err)
	}
	return nil
}

// DeleteSaved removes the saved company identified by rawID.
func (s *CompaniesService) DeleteSaved(ctx context.Context, rawID string) error {
	id, err := ParseCompanyID(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSaved(ctx, id); err != nil {
		return persistenceError("delete_saved", err)
	}
	return nil
}

// persistenceError counts unexpected repository failures; not-found and
// validation results pass through untouched.
func persistenceError(operation string, err error) error {
	if errors.Is(err, repository.ErrCompanyNotFound) || errors.Is(err, repository.ErrInvalidCompany) {
		return err
	}
	metrics.RecordPersistenceFailure(operation)
	return fmt.Errorf("%s: %w", strings.ReplaceAll(operation, "_", " "), err)
}

func searchOutcome(err error) string {
	switch {
	case errors.Is(err, ErrEmptySearchTerm):
		return metrics.OutcomeInvalid
	case errors.Is(err, enrichment.ErrRequestCanceled):
		return metrics.OutcomeCanceled
	case errors.Is(err, enrichment.ErrUpstreamUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeMalformed
	}
}
