package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"overshoot-detection-service/internal/domain"
)

var ErrInvalidConfig = errors.New("invalid analysis config")

// AnalysisConfig holds the tuning constants of one overshooting analysis.
// It is built once, validated, and passed by value to every stage.
type AnalysisConfig struct {
	// Half of the antenna sector opening, in degrees.
	SectorHalfWidth float64
	// Neighbors kept per site after pruning.
	MaxNeighbors int
	// Share of timing samples (percent) the percentile bucket must cover.
	PercentileThreshold float64
	// Expected length of every timing histogram.
	HistogramBins int
	// Bin index -> distance range.
	Buckets domain.BucketTable
	// Parallel workers for the per-site stages.
	Workers int
}

func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		SectorHalfWidth:     50,
		MaxNeighbors:        5,
		PercentileThreshold: 85,
		HistogramBins:       12,
		Buckets:             domain.DefaultBucketTable(),
		Workers:             runtime.GOMAXPROCS(0),
	}
}

// Validate checks the configuration for internal consistency.
// Range checks are written so that NaN fails them.
// Every bucket lookup depends on the histogram length matching the bucket
// table, so a mismatch is reported here rather than during the run.
func (c AnalysisConfig) Validate() error {
	if !(c.SectorHalfWidth > 0 && c.SectorHalfWidth < 180) {
		return fmt.Errorf("%w: sector half width must be in (0, 180), got %v", ErrInvalidConfig, c.SectorHalfWidth)
	}

	if c.MaxNeighbors < 1 {
		return fmt.Errorf("%w: max neighbors must be >= 1, got %d", ErrInvalidConfig, c.MaxNeighbors)
	}

	if !(c.PercentileThreshold > 0 && c.PercentileThreshold <= 100) {
		return fmt.Errorf("%w: percentile threshold must be in (0, 100], got %v", ErrInvalidConfig, c.PercentileThreshold)
	}

	if c.HistogramBins < 1 {
		return fmt.Errorf("%w: histogram bins must be >= 1, got %d", ErrInvalidConfig, c.HistogramBins)
	}

	if len(c.Buckets) != c.HistogramBins {
		return fmt.Errorf(
			"%w: bucket table has %d entries, histogram has %d bins",
			ErrInvalidConfig, len(c.Buckets), c.HistogramBins,
		)
	}

	for i, b := range c.Buckets {
		if strings.TrimSpace(b.Label) == "" {
			return fmt.Errorf("%w: bucket %d has an empty label", ErrInvalidConfig, i)
		}
		if math.IsNaN(b.MaxDistanceMeters) || math.IsInf(b.MaxDistanceMeters, 0) {
			return fmt.Errorf("%w: bucket %d distance must be finite, got %v", ErrInvalidConfig, i, b.MaxDistanceMeters)
		}
		if i > 0 && b.MaxDistanceMeters <= c.Buckets[i-1].MaxDistanceMeters {
			return fmt.Errorf(
				"%w: bucket distances must increase: bucket %d=%v, bucket %d=%v",
				ErrInvalidConfig, i-1, c.Buckets[i-1].MaxDistanceMeters, i, b.MaxDistanceMeters,
			)
		}
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}

	return nil
}

// FromEnv overlays environment variables on the defaults and validates the result.
func FromEnv() (AnalysisConfig, error) {
	cfg := DefaultAnalysisConfig()

	var err error
	if cfg.SectorHalfWidth, err = getFloat("SECTOR_HALF_WIDTH", cfg.SectorHalfWidth); err != nil {
		return AnalysisConfig{}, err
	}
	if cfg.MaxNeighbors, err = getInt("MAX_NEIGHBORS", cfg.MaxNeighbors); err != nil {
		return AnalysisConfig{}, err
	}
	if cfg.PercentileThreshold, err = getFloat("PERCENTILE_THRESHOLD", cfg.PercentileThreshold); err != nil {
		return AnalysisConfig{}, err
	}
	if cfg.HistogramBins, err = getInt("HISTOGRAM_BINS", cfg.HistogramBins); err != nil {
		return AnalysisConfig{}, err
	}
	if cfg.Workers, err = getInt("NEIGHBOR_WORKERS", cfg.Workers); err != nil {
		return AnalysisConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return AnalysisConfig{}, err
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
	}
	return f, nil
}
