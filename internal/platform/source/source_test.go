package source

import (
	"context"
	"overshoot-detection-service/internal/adapters/csvsource"
	"overshoot-detection-service/internal/adapters/repositories"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: ",", want: ','},
		{in: ";", want: ';'},
		{in: "tab", want: '\t'},
		{in: `\t`, want: '\t'},
		{in: "", wantErr: true},
		{in: ";;", wantErr: true},
		{in: `"`, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDelimiter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("DATA_SOURCE", "SQLite")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("CSV_DELIMITER", ";")
	t.Setenv("CSV_ENCODING", "latin1")

	s, err := SettingsFromEnv(12)
	require.NoError(t, err)
	assert.Equal(t, KindSQLite, s.Kind)
	assert.Equal(t, "/tmp/x.db", s.DSN)
	assert.Equal(t, ';', s.CSV.Delimiter)
	assert.Equal(t, csvsource.EncodingLatin1, s.CSV.Encoding)
	assert.Equal(t, 12, s.Bins)
}

func TestSettingsFromEnvUnknownKind(t *testing.T) {
	t.Setenv("DATA_SOURCE", "kafka")

	_, err := SettingsFromEnv(12)
	assert.Error(t, err)
}

func TestOpenCSV(t *testing.T) {
	src, err := Open(context.Background(), Settings{
		Kind:       KindCSV,
		SitesPath:  "sites.csv",
		TimingPath: "timing.csv",
		Bins:       12,
	})
	require.NoError(t, err)
	defer src.Close()

	assert.IsType(t, &csvsource.FileSiteRepository{}, src.Sites)
	assert.IsType(t, &csvsource.FileHistogramRepository{}, src.Histograms)
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overshoot.db")

	src, err := Open(context.Background(), Settings{Kind: KindSQLite, DSN: path, Bins: 12})
	require.NoError(t, err)
	defer src.Close()

	assert.IsType(t, &repositories.SQLSiteRepository{}, src.Sites)
	assert.IsType(t, &repositories.SQLHistogramRepository{}, src.Histograms)
}

func TestOpenRejectsMissingLocation(t *testing.T) {
	_, err := Open(context.Background(), Settings{Kind: KindCSV, SitesPath: "sites.csv"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Settings{Kind: KindPostgres})
	assert.Error(t, err)
}

func TestSettingsForKindPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/overshoot")

	s, err := SettingsForKind(" Postgres ", 12)
	require.NoError(t, err)
	assert.Equal(t, KindPostgres, s.Kind)
	assert.Equal(t, "postgres://localhost/overshoot", s.DSN)
	assert.Equal(t, ',', s.CSV.Delimiter)
}
