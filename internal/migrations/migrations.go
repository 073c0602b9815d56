// Package migrations holds the SQLite schema of the libSQL backend.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var fs embed.FS

// Run applies pending migrations and returns the versions it applied.
// An up-to-date database yields none.
func Run(ctx context.Context, db *sql.DB) ([]int64, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fs)
	if err != nil {
		return nil, fmt.Errorf("creating migration provider: %w", err)
	}

	applied, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	versions := make([]int64, 0, len(applied))
	for _, r := range applied {
		versions = append(versions, r.Source.Version)
	}
	return versions, nil
}
