package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.db")

	db, err := OpenDriver(context.Background(), "sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpenDriverUnknown(t *testing.T) {
	_, err := OpenDriver(context.Background(), "oracle", "x")
	assert.Error(t, err)
}
