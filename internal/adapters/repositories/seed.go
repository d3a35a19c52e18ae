package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"overshoot-detection-service/internal/domain"
	"strings"
)

// SeedSites upserts site reference records.
func SeedSites(ctx context.Context, db *sql.DB, d Dialect, sites []*domain.Site) error {
	if db == nil {
		return errors.New("seed sites: DB is nil")
	}

	for i, s := range sites {
		if s == nil || strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("seed sites: site at index %d has no name", i)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed sites: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO sites (name, latitude, longitude, azimuth, region)
	VALUES (%s, %s, %s, %s, %s)
	ON CONFLICT (name) DO UPDATE
	SET latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		azimuth = EXCLUDED.azimuth,
		region = EXCLUDED.region;
	`, d.bind(1), d.bind(2), d.bind(3), d.bind(4), d.bind(5))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed sites: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sites {
		if _, err := stmt.ExecContext(ctx, s.Name, s.Latitude, s.Longitude, s.Azimuth, s.Region); err != nil {
			return fmt.Errorf("seed sites: insert name=%q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed sites: commit tx: %w", err)
	}

	return nil
}

// SeedHistograms upserts one row per (site, bin).
func SeedHistograms(ctx context.Context, db *sql.DB, d Dialect, histograms map[string][]int) error {
	if db == nil {
		return errors.New("seed histograms: DB is nil")
	}

	if len(histograms) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed histograms: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO timing_histograms (name, bin, samples)
	VALUES (%s, %s, %s)
	ON CONFLICT (name, bin) DO UPDATE
	SET samples = EXCLUDED.samples;
	`, d.bind(1), d.bind(2), d.bind(3))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed histograms: prepare insert: %w", err)
	}
	defer stmt.Close()

	for name, bins := range histograms {
		if strings.TrimSpace(name) == "" {
			return errors.New("seed histograms: empty site name")
		}

		for bin, samples := range bins {
			if samples < 0 {
				return fmt.Errorf("seed histograms: name=%q bin=%d: negative count %d", name, bin, samples)
			}
			if _, err := stmt.ExecContext(ctx, name, bin, samples); err != nil {
				return fmt.Errorf("seed histograms: insert name=%q bin=%d: %w", name, bin, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed histograms: commit tx: %w", err)
	}

	return nil
}
