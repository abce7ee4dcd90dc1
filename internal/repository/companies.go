package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/company-finder/internal/entity"
)

// CompaniesRepository describes persistence operations for the last search
// snapshot and the saved companies list.
type CompaniesRepository interface {
	ReplaceLastSearched(ctx context.Context, company *entity.Company) error
	GetLastSearched(ctx context.Context) (*entity.Company, error)
	ListSaved(ctx context.Context) ([]entity.Company, error)
	InsertSaved(ctx context.Context, company *entity.Company) (int64, error)
	UpdateSaved(ctx context.Context, id int64, company *entity.Company) error
	DeleteSaved(ctx context.Context, id int64) error
}

var (
	// ErrCompanyNotFound indicates no row matched the requested identifier.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInvalidCompany indicates a write without the mandatory name or domain.
	ErrInvalidCompany = errors.New("company name and domain are required")
)

// PGXCompaniesRepository implements CompaniesRepository using pgx.
type PGXCompaniesRepository struct {
	pool pgxPool
}

// NewPGXCompaniesRepository wires a pgx backed repository.
func NewPGXCompaniesRepository(pool *pgxpool.Pool) *PGXCompaniesRepository {
	return &PGXCompaniesRepository{pool: pool}
}

var (
	_ pgxPool             = (*pgxpool.Pool)(nil)
	_ CompaniesRepository = (*PGXCompaniesRepository)(nil)
)

const companyColumns = `companyname, founded, size, leaders, product, clients, mission, location, domain, logo, notes`

const (
	lockLastSearchedSQL   = `LOCK TABLE lastsearched IN SHARE ROW EXCLUSIVE MODE`
	clearLastSearchedSQL  = `DELETE FROM lastsearched`
	insertLastSearchedSQL = `
        INSERT INTO lastsearched (` + companyColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	selectLastSearchedSQL = `SELECT ` + companyColumns + ` FROM lastsearched LIMIT 1`

	listSavedSQL   = `SELECT id, ` + companyColumns + ` FROM savedcompanies ORDER BY id ASC`
	insertSavedSQL = `
        INSERT INTO savedcompanies (` + companyColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id`
	updateSavedSQL = `
        UPDATE savedcompanies SET
            companyname = $1,
            founded = $2,
            size = $3,
            leaders = $4,
            product = $5,
            clients = $6,
            mission = $7,
            location = $8,
            domain = $9,
            logo = $10,
            notes = $11
        WHERE id = $12`
	deleteSavedSQL = `DELETE FROM savedcompanies WHERE id = $1`
)

// ReplaceLastSearched swaps the single last-searched row for company. Delete
// and insert share a transaction so concurrent readers never see an empty
// table and a failed insert keeps the previous snapshot. The table lock
// serializes concurrent replacements; without it two READ COMMITTED
// transactions can each insert a row.
func (r *PGXCompaniesRepository) ReplaceLastSearched(ctx context.Context, company *entity.Company) error {
	if err := validateCompany(company); err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start replace last searched tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, lockLastSearchedSQL); err != nil {
		return fmt.Errorf("lock last searched: %w", err)
	}
	if _, err := tx.Exec(ctx, clearLastSearchedSQL); err != nil {
		return fmt.Errorf("clear last searched: %w", err)
	}
	if _, err := tx.Exec(ctx, insertLastSearchedSQL, companyArgs(company)...); err != nil {
		return fmt.Errorf("insert last searched: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace last searched tx: %w", err)
	}
	return nil
}

// GetLastSearched returns the current snapshot.
func (r *PGXCompaniesRepository) GetLastSearched(ctx context.Context) (*entity.Company, error) {
	var (
		company entity.Company
		row     companyRow
	)
	if err := r.pool.QueryRow(ctx, selectLastSearchedSQL).Scan(row.targets(&company)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("fetch last searched: %w", err)
	}
	row.apply(&company)
	return &company, nil
}

// ListSaved returns every saved company ordered by id.
func (r *PGXCompaniesRepository) ListSaved(ctx context.Context) ([]entity.Company, error) {
	rows, err := r.pool.Query(ctx, listSavedSQL)
	if err != nil {
		return nil, fmt.Errorf("list saved companies: %w", err)
	}
	defer rows.Close()

	return scanSavedCompanies(rows)
}

// InsertSaved stores company and returns its generated id.
func (r *PGXCompaniesRepository) InsertSaved(ctx context.Context, company *entity.Company) (int64, error) {
	if err := validateCompany(company); err != nil {
		return 0, err
	}

	var id int64
	if err := r.pool.QueryRow(ctx, insertSavedSQL, companyArgs(company)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert saved company: %w", err)
	}
	return id, nil
}

// UpdateSaved overwrites the saved company with the given id.
func (r *PGXCompaniesRepository) UpdateSaved(ctx context.Context, id int64, company *entity.Company) error {
	if err := validateCompany(company); err != nil {
		return err
	}

	args := append(companyArgs(company), id)
	cmd, err := r.pool.Exec(ctx, updateSavedSQL, args...)
	if err != nil {
		return fmt.Errorf("update saved company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// DeleteSaved removes the saved company with the given id.
func (r *PGXCompaniesRepository) DeleteSaved(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, deleteSavedSQL, id)
	if err != nil {
		return fmt.Errorf("delete saved company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func validateCompany(company *entity.Company) error {
	if company == nil {
		return fmt.Errorf("company payload is nil")
	}
	if strings.TrimSpace(company.CompanyName) == "" || strings.TrimSpace(company.Domain) == "" {
		return ErrInvalidCompany
	}
	return nil
}

// companyArgs returns the bind parameters in companyColumns order.
func companyArgs(c *entity.Company) []any {
	return []any{
		c.CompanyName,
		stringOrNil(c.Founded),
		intOrNil(c.Size),
		c.Leaders,
		c.Product,
		c.Clients,
		c.Mission,
		c.Location,
		c.Domain,
		c.Logo,
		stringOrNil(c.Notes),
	}
}

// companyRow holds the nullable columns while scanning.
type companyRow struct {
	founded sql.NullString
	size    sql.NullInt64
	notes   sql.NullString
}

func (cr *companyRow) targets(c *entity.Company) []any {
	return []any{
		&c.CompanyName,
		&cr.founded,
		&cr.size,
		&c.Leaders,
		&c.Product,
		&c.Clients,
		&c.Mission,
		&c.Location,
		&c.Domain,
		&c.Logo,
		&cr.notes,
	}
}

func (cr *companyRow) apply(c *entity.Company) {
	c.Founded = nullStringToPtr(cr.founded)
	if cr.size.Valid {
		cast := int(cr.size.Int64)
		c.Size = &cast
	}
	c.Notes = nullStringToPtr(cr.notes)
}

func scanSavedCompanies(rows pgx.Rows) ([]entity.Company, error) {
	companies := make([]entity.Company, 0)
	for rows.Next() {
		var (
			c   entity.Company
			row companyRow
		)
		targets := append([]any{&c.ID}, row.targets(&c)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan saved company: %w", err)
		}
		row.apply(&c)
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved companies: %w", err)
	}
	return companies, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	if *value == "" {
		return nil
	}
	return *value
}

func intOrNil(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
