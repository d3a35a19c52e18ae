package repositories

import (
	"context"
	"database/sql"
	"overshoot-detection-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(context.Background(), db, SQLite))
	return db
}

func TestInitSchemaIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, InitSchema(context.Background(), db, SQLite))
}

func TestSeedAndListSites(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	sites := []*domain.Site{
		domain.NewSite("CELL_B", -33.46, -70.64, 270, "SANTIAGO"),
		domain.NewSite("CELL_A", -33.45, -70.65, 90, "SANTIAGO"),
	}
	require.NoError(t, SeedSites(ctx, db, SQLite, sites))

	// upsert replaces the existing row
	moved := domain.NewSite("CELL_B", -33.47, -70.63, 180, "NUNOA")
	require.NoError(t, SeedSites(ctx, db, SQLite, []*domain.Site{moved}))

	got, err := NewSQLSiteRepository(db).ListSites(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "CELL_A", got[0].Name)
	assert.Equal(t, 90, got[0].Azimuth)
	assert.Equal(t, "CELL_B", got[1].Name)
	assert.Equal(t, 180, got[1].Azimuth)
	assert.Equal(t, "NUNOA", got[1].Region)
	assert.Equal(t, -33.47, got[1].Latitude)
	assert.Nil(t, got[1].Neighbors)
}

func TestSeedAndListHistograms(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, SeedHistograms(ctx, db, SQLite, map[string][]int{
		"CELL_A": {10, 0, 0, 2},
		"CELL_B": {0, 1, 2, 3},
	}))

	got, err := NewSQLHistogramRepository(db, 4).ListHistograms(ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string][]int{
		"CELL_A": {10, 0, 0, 2},
		"CELL_B": {0, 1, 2, 3},
	}, got)
}

func TestListHistogramsRejectsBinOutOfRange(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, SeedHistograms(ctx, db, SQLite, map[string][]int{
		"CELL_A": {1, 2, 3, 4, 5},
	}))

	_, err := NewSQLHistogramRepository(db, 4).ListHistograms(ctx)
	assert.Error(t, err)
}

func TestSeedRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := SeedSites(ctx, db, SQLite, []*domain.Site{domain.NewSite("", 0, 0, 0, "R")})
	assert.Error(t, err)

	err = SeedHistograms(ctx, db, SQLite, map[string][]int{"A": {1, -1}})
	assert.Error(t, err)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("pgx")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)
	assert.Equal(t, "$3", d.bind(3))

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)
	assert.Equal(t, "?", d.bind(3))

	_, err = ParseDialect("oracle")
	assert.Error(t, err)
}
