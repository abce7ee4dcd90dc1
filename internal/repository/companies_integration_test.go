package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/octobees/company-finder/internal/database"
	"github.com/octobees/company-finder/internal/entity"
)

// newIntegrationRepo connects to TEST_DATABASE_URL and resets both tables.
func newIntegrationRepo(t *testing.T) *PGXCompaniesRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE lastsearched; TRUNCATE savedcompanies RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return NewPGXCompaniesRepository(pool)
}

func TestIntegration_ReplaceLastSearchedKeepsSingleRow(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	first := sampleCompany()
	second := sampleCompany()
	second.CompanyName = "Globex"
	second.Domain = "globex.com"
	second.Founded = nil

	if err := repo.ReplaceLastSearched(ctx, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := repo.ReplaceLastSearched(ctx, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	var count int
	if err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lastsearched`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one last searched row, got %d", count)
	}

	got, err := repo.GetLastSearched(ctx)
	if err != nil {
		t.Fatalf("get last searched: %v", err)
	}
	if diff := cmp.Diff(second, got); diff != "" {
		t.Fatalf("last searched mismatch (-want +got):\n%s", diff)
	}
}

func TestIntegration_ConcurrentReplaceKeepsSingleRow(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	const workers, rounds = 8, 25
	var wg sync.WaitGroup
	errs := make(chan error, workers*rounds)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				company := sampleCompany()
				company.Domain = fmt.Sprintf("worker%d-%d.com", w, i)
				if err := repo.ReplaceLastSearched(ctx, company); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent replace: %v", err)
	}

	var count int
	if err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lastsearched`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one last searched row after concurrent replaces, got %d", count)
	}
}

func TestIntegration_SavedCompaniesLifecycle(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	acme := sampleCompany()
	acmeID, err := repo.InsertSaved(ctx, acme)
	if err != nil {
		t.Fatalf("insert acme: %v", err)
	}
	globex := sampleCompany()
	globex.CompanyName = "Globex"
	globex.Domain = "globex.com"
	globexID, err := repo.InsertSaved(ctx, globex)
	if err != nil {
		t.Fatalf("insert globex: %v", err)
	}

	updated := sampleCompany()
	updated.Notes = strPtr("call back in Q3")
	updated.Size = intPtr(75)
	if err := repo.UpdateSaved(ctx, acmeID, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := repo.ListSaved(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	updated.ID = acmeID
	globex.ID = globexID
	want := []entity.Company{*updated, *globex}
	if diff := cmp.Diff(want, list, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("saved list mismatch (-want +got):\n%s", diff)
	}

	if err := repo.DeleteSaved(ctx, acmeID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err = repo.ListSaved(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(list) != 1 || list[0].ID != globexID {
		t.Fatalf("expected only globex to remain, got %+v", list)
	}

	if err := repo.UpdateSaved(ctx, acmeID, updated); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound on update of deleted id, got %v", err)
	}
	if err := repo.DeleteSaved(ctx, acmeID); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound on delete of deleted id, got %v", err)
	}
}
