// Package source selects where sites and timing histograms are loaded from.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"overshoot-detection-service/internal/adapters/csvsource"
	"overshoot-detection-service/internal/adapters/repositories"
	"overshoot-detection-service/internal/config"
	"overshoot-detection-service/internal/platform/db"
	"overshoot-detection-service/internal/ports"
	"strings"
	"unicode/utf8"
)

const (
	KindCSV      = "csv"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Settings describes one data source. CSV fields are used for KindCSV,
// DSN for the database kinds.
type Settings struct {
	Kind       string
	SitesPath  string
	TimingPath string
	CSV        csvsource.Options
	DSN        string
	Bins       int
}

// Source bundles the repositories of an opened data source.
type Source struct {
	Sites      ports.SiteRepository
	Histograms ports.HistogramRepository
	Kind       string

	db *sql.DB
}

// Close releases the database handle, if any.
func (s *Source) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SettingsFromEnv reads DATA_SOURCE and the matching location variables:
// SITES_CSV, TIMING_CSV, CSV_DELIMITER, CSV_ENCODING for csv,
// DB_PATH for sqlite and DATABASE_URL for postgres.
func SettingsFromEnv(bins int) (Settings, error) {
	return SettingsForKind(config.Get("DATA_SOURCE", KindCSV), bins)
}

// SettingsForKind is SettingsFromEnv with the source kind given explicitly.
func SettingsForKind(kind string, bins int) (Settings, error) {
	s := Settings{
		Kind:       strings.ToLower(strings.TrimSpace(kind)),
		SitesPath:  config.Get("SITES_CSV", "data/sites.csv"),
		TimingPath: config.Get("TIMING_CSV", "data/timing_advance.csv"),
		Bins:       bins,
	}

	delim, err := ParseDelimiter(config.Get("CSV_DELIMITER", ","))
	if err != nil {
		return Settings{}, fmt.Errorf("source settings: CSV_DELIMITER: %w", err)
	}
	s.CSV = csvsource.Options{
		Delimiter: delim,
		Encoding:  config.Get("CSV_ENCODING", csvsource.EncodingUTF8),
	}

	switch s.Kind {
	case KindCSV:
	case KindSQLite:
		s.DSN = config.Get("DB_PATH", "data/overshoot.db")
	case KindPostgres:
		s.DSN = config.Get("DATABASE_URL", "")
	default:
		return Settings{}, fmt.Errorf("source settings: unknown DATA_SOURCE %q", s.Kind)
	}

	return s, nil
}

// ParseDelimiter accepts a single character, or "tab" / `\t`.
func ParseDelimiter(v string) (rune, error) {
	switch v {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(v) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", v)
	}
	r, _ := utf8.DecodeRuneInString(v)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", v)
	}
	return r, nil
}

// Open builds the repositories for s. Database sources are connected (and
// pinged) here; the caller must Close the returned Source.
func Open(ctx context.Context, s Settings) (*Source, error) {
	switch s.Kind {
	case KindCSV:
		if strings.TrimSpace(s.SitesPath) == "" || strings.TrimSpace(s.TimingPath) == "" {
			return nil, fmt.Errorf("open source: csv source needs both a sites and a timing path")
		}
		return &Source{
			Sites:      csvsource.NewFileSiteRepository(s.SitesPath, s.CSV),
			Histograms: csvsource.NewFileHistogramRepository(s.TimingPath, s.Bins, s.CSV),
			Kind:       KindCSV,
		}, nil

	case KindSQLite, KindPostgres:
		if strings.TrimSpace(s.DSN) == "" {
			return nil, fmt.Errorf("open source: %s source needs a DSN", s.Kind)
		}

		driver := "sqlite"
		if s.Kind == KindPostgres {
			driver = "pgx"
		}
		conn, err := db.OpenDriver(ctx, driver, s.DSN)
		if err != nil {
			return nil, fmt.Errorf("open source: %w", err)
		}

		return &Source{
			Sites:      repositories.NewSQLSiteRepository(conn),
			Histograms: repositories.NewSQLHistogramRepository(conn, s.Bins),
			Kind:       s.Kind,
			db:         conn,
		}, nil

	default:
		return nil, fmt.Errorf("open source: unknown kind %q", s.Kind)
	}
}
