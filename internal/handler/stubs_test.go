package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-finder/internal/enrichment"
	"github.com/octobees/company-finder/internal/entity"
	"github.com/octobees/company-finder/internal/service"
)

type renderCall struct {
	name string
	data any
}

type stubRenderer struct {
	calls []renderCall
}

func (r *stubRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	r.calls = append(r.calls, renderCall{name: name, data: data})
	_, err := io.WriteString(w, name)
	return err
}

func (r *stubRenderer) last() renderCall {
	if len(r.calls) == 0 {
		return renderCall{}
	}
	return r.calls[len(r.calls)-1]
}

type stubCompaniesRepo struct {
	saved      []entity.Company
	last       *entity.Company
	replaced   int
	err        error
	replaceErr error
	updatedID  int64
	deletedID  int64
}

func (s *stubCompaniesRepo) ReplaceLastSearched(ctx context.Context, company *entity.Company) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced++
	s.last = company
	return nil
}

func (s *stubCompaniesRepo) GetLastSearched(ctx context.Context) (*entity.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.last, nil
}

func (s *stubCompaniesRepo) ListSaved(ctx context.Context) ([]entity.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.saved, nil
}

func (s *stubCompaniesRepo) InsertSaved(ctx context.Context, company *entity.Company) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	company.ID = int64(len(s.saved) + 1)
	s.saved = append(s.saved, *company)
	return company.ID, nil
}

func (s *stubCompaniesRepo) UpdateSaved(ctx context.Context, id int64, company *entity.Company) error {
	if s.err != nil {
		return s.err
	}
	s.updatedID = id
	return nil
}

func (s *stubCompaniesRepo) DeleteSaved(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deletedID = id
	return nil
}

type stubEnricher struct {
	result enrichment.Result
	err    error
}

func (s *stubEnricher) Enrich(ctx context.Context, searchTerm string) (enrichment.Result, error) {
	if s.err != nil {
		return enrichment.Result{}, s.err
	}
	return s.result, nil
}

var errDatabaseDown = errors.New("database down")

func newTestEcho() (*echo.Echo, *stubRenderer) {
	e := echo.New()
	renderer := &stubRenderer{}
	e.Renderer = renderer
	return e, renderer
}

func newTestService(repo *stubCompaniesRepo, enricher *stubEnricher) *service.CompaniesService {
	if enricher == nil {
		enricher = &stubEnricher{}
	}
	return service.NewCompaniesService(repo, enricher)
}

func newFormRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}
