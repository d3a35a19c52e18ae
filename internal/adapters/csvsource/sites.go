package csvsource

import (
	"context"
	"fmt"
	"io"
	"os"
	"overshoot-detection-service/internal/domain"
	"overshoot-detection-service/internal/platform/obs"
	"strconv"
)

// Site reference export columns.
const (
	ColCellName = "CELLNAME"
	ColLat      = "LAT"
	ColLon      = "LON"
	ColAzimuth  = "AZIMUTH"
	ColRegion   = "COMUNA"
)

// ReadSites parses a site reference export. Columns are located by header
// name; any missing or non-numeric required value aborts the read.
func ReadSites(r io.Reader, opts Options) ([]*domain.Site, error) {
	t, err := newTable(r, opts)
	if err != nil {
		return nil, fmt.Errorf("read sites: %w", err)
	}

	cols, err := t.require(ColCellName, ColLat, ColLon, ColAzimuth, ColRegion)
	if err != nil {
		return nil, fmt.Errorf("read sites: %w", err)
	}

	sites := make([]*domain.Site, 0, 1024)
	for {
		rec, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sites: %w", err)
		}

		site, err := t.parseSite(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("read sites: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, nil
}

func (t *table) parseSite(rec []string, cols map[string]int) (*domain.Site, error) {
	name, err := t.field(rec, cols[ColCellName], ColCellName)
	if err != nil {
		return nil, err
	}

	latRaw, err := t.field(rec, cols[ColLat], ColLat)
	if err != nil {
		return nil, err
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || !(lat >= -90 && lat <= 90) {
		return nil, fmt.Errorf("%w: line %d: invalid %s %q", ErrMalformedRow, t.line, ColLat, latRaw)
	}

	lonRaw, err := t.field(rec, cols[ColLon], ColLon)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil || !(lon >= -180 && lon <= 180) {
		return nil, fmt.Errorf("%w: line %d: invalid %s %q", ErrMalformedRow, t.line, ColLon, lonRaw)
	}

	azRaw, err := t.field(rec, cols[ColAzimuth], ColAzimuth)
	if err != nil {
		return nil, err
	}
	azimuth, err := strconv.Atoi(azRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: invalid %s %q", ErrMalformedRow, t.line, ColAzimuth, azRaw)
	}

	region, err := t.field(rec, cols[ColRegion], ColRegion)
	if err != nil {
		return nil, err
	}

	return domain.NewSite(name, lat, lon, azimuth, region), nil
}

// FileSiteRepository serves sites from a CSV export on disk.
// The file is re-read on every call.
type FileSiteRepository struct {
	Path    string
	Options Options
}

func NewFileSiteRepository(path string, opts Options) *FileSiteRepository {
	return &FileSiteRepository{Path: path, Options: opts}
}

func (f *FileSiteRepository) ListSites(ctx context.Context) (_ []*domain.Site, err error) {
	defer obs.Time(ctx, "csv.ListSites")(&err)

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("list sites: open %q: %w", f.Path, err)
	}
	defer file.Close()

	sites, err := ReadSites(file, f.Options)
	if err != nil {
		return nil, fmt.Errorf("list sites: %q: %w", f.Path, err)
	}

	return sites, nil
}
