package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Dialect selects the SQL flavor of the schema and write statements.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// ParseDialect maps a driver name to its Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("unknown database driver %q", driver)
	}
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// bind returns the placeholder for the n-th (1-based) statement parameter.
func (d Dialect) bind(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) floatType() string {
	if d == Postgres {
		return "DOUBLE PRECISION"
	}
	return "REAL"
}

// Initialize the site and timing histogram schema.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSitesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS sites (
		name TEXT PRIMARY KEY,
		latitude %[1]s NOT NULL,
		longitude %[1]s NOT NULL,
		azimuth INTEGER NOT NULL,
		region TEXT NOT NULL
	);
	`, d.floatType())

	createHistogramsQuery := `
	CREATE TABLE IF NOT EXISTS timing_histograms (
		name TEXT NOT NULL,
		bin INTEGER NOT NULL,
		samples INTEGER NOT NULL,
		PRIMARY KEY (name, bin)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_sites_region
	ON sites(region);
	`

	statements := []string{
		createSitesQuery,
		createHistogramsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
