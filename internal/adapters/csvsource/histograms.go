package csvsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"overshoot-detection-service/internal/platform/obs"
	"strconv"
)

// Timing export columns. Bin columns are TimingBinPrefix followed by the
// zero-based bin index.
const (
	ColTimingCellName = "Cell_Name"
	TimingBinPrefix   = "L_RA_TA_UE_Index"
)

// ReadHistograms parses a timing-advance export into site name -> bins.
// Every row must carry bins counters; a later row for the same site
// replaces an earlier one.
func ReadHistograms(r io.Reader, bins int, opts Options) (map[string][]int, error) {
	if bins < 1 {
		return nil, errors.New("read histograms: bins must be >= 1")
	}

	t, err := newTable(r, opts)
	if err != nil {
		return nil, fmt.Errorf("read histograms: %w", err)
	}

	names := make([]string, 0, bins+1)
	names = append(names, ColTimingCellName)
	for i := 0; i < bins; i++ {
		names = append(names, TimingBinPrefix+strconv.Itoa(i))
	}

	cols, err := t.require(names...)
	if err != nil {
		return nil, fmt.Errorf("read histograms: %w", err)
	}

	out := make(map[string][]int)
	for {
		rec, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read histograms: %w", err)
		}

		name, err := t.field(rec, cols[ColTimingCellName], ColTimingCellName)
		if err != nil {
			return nil, fmt.Errorf("read histograms: %w", err)
		}

		values := make([]int, bins)
		for i := 0; i < bins; i++ {
			col := names[i+1]
			raw, err := t.field(rec, cols[col], col)
			if err != nil {
				return nil, fmt.Errorf("read histograms: %w", err)
			}

			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("read histograms: %w: line %d: invalid %s %q", ErrMalformedRow, t.line, col, raw)
			}
			values[i] = v
		}

		out[name] = values
	}

	return out, nil
}

// FileHistogramRepository serves timing histograms from a CSV export on disk.
type FileHistogramRepository struct {
	Path    string
	Bins    int
	Options Options
}

func NewFileHistogramRepository(path string, bins int, opts Options) *FileHistogramRepository {
	return &FileHistogramRepository{Path: path, Bins: bins, Options: opts}
}

func (f *FileHistogramRepository) ListHistograms(ctx context.Context) (_ map[string][]int, err error) {
	defer obs.Time(ctx, "csv.ListHistograms")(&err)

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("list histograms: open %q: %w", f.Path, err)
	}
	defer file.Close()

	out, err := ReadHistograms(file, f.Bins, f.Options)
	if err != nil {
		return nil, fmt.Errorf("list histograms: %q: %w", f.Path, err)
	}

	return out, nil
}
