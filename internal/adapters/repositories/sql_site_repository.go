package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"overshoot-detection-service/internal/domain"
	"overshoot-detection-service/internal/platform/obs"
)

// SQL-backed implementation of the SiteRepository port.
// The queries are plain SELECTs, so one implementation serves SQLite and Postgres.
type SQLSiteRepository struct{ DB *sql.DB }

func NewSQLSiteRepository(db *sql.DB) *SQLSiteRepository {
	return &SQLSiteRepository{DB: db}
}

// Return all sites stored in the database, ordered by name.
func (s *SQLSiteRepository) ListSites(ctx context.Context) (_ []*domain.Site, err error) {
	defer obs.Time(ctx, "db.ListSites")(&err)

	if s.DB == nil {
		return nil, errors.New("sql site repository: DB is nil")
	}

	query := `
	SELECT
		name,
		latitude,
		longitude,
		azimuth,
		region
	FROM sites
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sites: query sites table: %w", err)
	}
	defer rows.Close()

	sites := make([]*domain.Site, 0, 1024)
	for rows.Next() {
		var (
			name, region string
			lat, lon     float64
			azimuth      int
		)
		if err := rows.Scan(&name, &lat, &lon, &azimuth, &region); err != nil {
			return nil, fmt.Errorf("list sites: scan row: %w", err)
		}
		sites = append(sites, domain.NewSite(name, lat, lon, azimuth, region))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sites: row iteration: %w", err)
	}

	return sites, nil
}

// SQL-backed implementation of the HistogramRepository port.
// Bins not stored for a site read as zero.
type SQLHistogramRepository struct {
	DB   *sql.DB
	Bins int
}

func NewSQLHistogramRepository(db *sql.DB, bins int) *SQLHistogramRepository {
	return &SQLHistogramRepository{DB: db, Bins: bins}
}

func (s *SQLHistogramRepository) ListHistograms(ctx context.Context) (_ map[string][]int, err error) {
	defer obs.Time(ctx, "db.ListHistograms")(&err)

	if s.DB == nil {
		return nil, errors.New("sql histogram repository: DB is nil")
	}
	if s.Bins < 1 {
		return nil, errors.New("sql histogram repository: bins must be >= 1")
	}

	query := `
	SELECT
		name,
		bin,
		samples
	FROM timing_histograms
	ORDER BY name, bin;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list histograms: query timing_histograms table: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]int)
	for rows.Next() {
		var name string
		var bin, samples int
		if err := rows.Scan(&name, &bin, &samples); err != nil {
			return nil, fmt.Errorf("list histograms: scan row: %w", err)
		}

		if bin < 0 || bin >= s.Bins {
			return nil, fmt.Errorf("list histograms: name=%q: bin %d outside [0, %d)", name, bin, s.Bins)
		}
		if samples < 0 {
			return nil, fmt.Errorf("list histograms: name=%q bin=%d: negative count %d", name, bin, samples)
		}

		h, ok := out[name]
		if !ok {
			h = make([]int, s.Bins)
			out[name] = h
		}
		h[bin] = samples
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list histograms: row iteration: %w", err)
	}

	return out, nil
}
