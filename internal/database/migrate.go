package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of pgxpool.Pool used by Migrate.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Both tables share the company column set; savedcompanies adds a generated id.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS lastsearched (
    companyname TEXT NOT NULL,
    founded     TEXT,
    size        INTEGER,
    leaders     TEXT NOT NULL DEFAULT '',
    product     TEXT NOT NULL DEFAULT '',
    clients     TEXT NOT NULL DEFAULT '',
    mission     TEXT NOT NULL DEFAULT '',
    location    TEXT NOT NULL DEFAULT '',
    domain      TEXT NOT NULL CHECK (domain <> ''),
    logo        TEXT NOT NULL DEFAULT '',
    notes       TEXT
)`,
	`CREATE TABLE IF NOT EXISTS savedcompanies (
    id          SERIAL PRIMARY KEY,
    companyname TEXT NOT NULL,
    founded     TEXT,
    size        INTEGER,
    leaders     TEXT NOT NULL DEFAULT '',
    product     TEXT NOT NULL DEFAULT '',
    clients     TEXT NOT NULL DEFAULT '',
    mission     TEXT NOT NULL DEFAULT '',
    location    TEXT NOT NULL DEFAULT '',
    domain      TEXT NOT NULL CHECK (domain <> ''),
    logo        TEXT NOT NULL DEFAULT '',
    notes       TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_savedcompanies_domain ON savedcompanies(domain)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
