package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/octobees/company-finder/internal/entity"
	"github.com/octobees/company-finder/internal/repository"
	"github.com/octobees/company-finder/internal/view"
)

func companyFormValues() url.Values {
	return url.Values{
		"companyname": {"Acme"},
		"domain":      {"acme.com"},
		"size":        {"50"},
		"notes":       {"call back"},
	}
}

func TestCompaniesHandler_Home(t *testing.T) {
	e, renderer := newTestEcho()
	repo := &stubCompaniesRepo{saved: []entity.Company{{ID: 1, CompanyName: "Acme", Domain: "acme.com"}}}
	handler := NewCompaniesHandler(newTestService(repo, nil))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := handler.Home(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	call := renderer.last()
	if call.name != view.PageIndex {
		t.Fatalf("expected index page, got %q", call.name)
	}
	if data := call.data.(view.IndexData); len(data.Companies) != 1 {
		t.Fatalf("expected one company, got %+v", data.Companies)
	}
}

func TestCompaniesHandler_Home_PersistenceFailure(t *testing.T) {
	e, renderer := newTestEcho()
	handler := NewCompaniesHandler(newTestService(&stubCompaniesRepo{err: errDatabaseDown}, nil))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := handler.Home(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError || renderer.last().name != view.PageError {
		t.Fatalf("expected 500 error page, got %d %q", rec.Code, renderer.last().name)
	}
}

func TestCompaniesHandler_ListJSON(t *testing.T) {
	e, _ := newTestEcho()
	repo := &stubCompaniesRepo{saved: []entity.Company{{ID: 1, CompanyName: "Acme", Domain: "acme.com"}}}
	handler := NewCompaniesHandler(newTestService(repo, nil))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/companies", nil), rec)
	if err := handler.ListJSON(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload := decodeEnvelope(t, rec)
	items, ok := payload.Data.([]any)
	if payload.Status != "success" || !ok || len(items) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	repo.err = errDatabaseDown
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/companies", nil), rec)
	if err := handler.ListJSON(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	_, wantMessage := statusFor(errDatabaseDown)
	if payload := decodeEnvelope(t, rec); payload.Status != "error" || payload.Message != wantMessage {
		t.Fatalf("expected shared error message, got %+v", payload)
	}

	repo.err = repository.ErrCompanyNotFound
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/companies", nil), rec)
	if err := handler.ListJSON(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for not found, got %d", rec.Code)
	}
}

func TestCompaniesHandler_Add(t *testing.T) {
	e, _ := newTestEcho()
	repo := &stubCompaniesRepo{}
	handler := NewCompaniesHandler(newTestService(repo, nil))

	rec := httptest.NewRecorder()
	c := e.NewContext(newFormRequest(http.MethodPost, "/add", companyFormValues()), rec)
	if err := handler.Add(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected company saved, got %d", len(repo.saved))
	}
	saved := repo.saved[0]
	if saved.CompanyName != "Acme" || saved.Size == nil || *saved.Size != 50 || saved.Notes == nil {
		t.Fatalf("unexpected saved company: %+v", saved)
	}
}

func TestCompaniesHandler_Add_Invalid(t *testing.T) {
	e, renderer := newTestEcho()
	repo := &stubCompaniesRepo{}
	handler := NewCompaniesHandler(newTestService(repo, nil))

	values := companyFormValues()
	values.Del("domain")
	rec := httptest.NewRecorder()
	c := e.NewContext(newFormRequest(http.MethodPost, "/add", values), rec)
	if err := handler.Add(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest || renderer.last().name != view.PageError {
		t.Fatalf("expected 400 error page, got %d %q", rec.Code, renderer.last().name)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("expected nothing saved")
	}
}

func TestCompaniesHandler_Edit(t *testing.T) {
	tests := map[string]struct {
		id      string
		repoErr error
		status  int
	}{
		"success":   {id: "3", status: http.StatusSeeOther},
		"bad id":    {id: "abc", status: http.StatusBadRequest},
		"not found": {id: "9", repoErr: repository.ErrCompanyNotFound, status: http.StatusNotFound},
		"db down":   {id: "3", repoErr: errDatabaseDown, status: http.StatusInternalServerError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e, _ := newTestEcho()
			repo := &stubCompaniesRepo{err: tt.repoErr}
			handler := NewCompaniesHandler(newTestService(repo, nil))

			rec := httptest.NewRecorder()
			c := e.NewContext(newFormRequest(http.MethodPut, "/update/"+tt.id, companyFormValues()), rec)
			c.SetPath("/update/:company_id")
			c.SetParamNames("company_id")
			c.SetParamValues(tt.id)

			if err := handler.Edit(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.status == http.StatusSeeOther && repo.updatedID != 3 {
				t.Fatalf("expected id 3 updated, got %d", repo.updatedID)
			}
		})
	}
}

func TestCompaniesHandler_Delete(t *testing.T) {
	e, _ := newTestEcho()
	repo := &stubCompaniesRepo{}
	handler := NewCompaniesHandler(newTestService(repo, nil))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/delete/4", nil), rec)
	c.SetParamNames("company_id")
	c.SetParamValues("4")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || repo.deletedID != 4 {
		t.Fatalf("expected redirect after deleting id 4, got %d / %d", rec.Code, repo.deletedID)
	}

	repo.err = repository.ErrCompanyNotFound
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/delete/4", nil), rec)
	c.SetParamNames("company_id")
	c.SetParamValues("4")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}
}
