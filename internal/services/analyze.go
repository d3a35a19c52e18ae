package services

import (
	"context"
	"errors"
	"fmt"
	"overshoot-detection-service/internal/config"
	"overshoot-detection-service/internal/domain"
	"overshoot-detection-service/internal/platform/obs"
	"overshoot-detection-service/internal/ports"
	"strings"
)

// Report is the outcome of one overshooting analysis run.
type Report struct {
	Sites              int
	SitesWithNeighbors int
	SitesWithBucket    int
	Flags              []domain.Flag
}

// Analyze runs the whole pipeline over an in-memory batch:
// sector geometry, sector neighbor search, pruning, timing profiles and
// detection. It fills the derived fields of sites in place.
//
// histograms maps site name to its timing histogram; sites without an entry
// are never flagged. cache may be nil.
func Analyze(
	ctx context.Context,
	cfg config.AnalysisConfig,
	sites []*domain.Site,
	histograms map[string][]int,
	cache ports.DistanceCache,
) (_ *Report, err error) {
	defer obs.Time(ctx, "analyze.Analyze")(&err)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	for i, s := range sites {
		if s == nil {
			return nil, fmt.Errorf("analyze: site at index %d is nil", i)
		}
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("analyze: site at index %d has empty name", i)
		}
	}

	ApplySectorGeometry(sites, cfg.SectorHalfWidth)

	candidates, err := FindSectorCandidates(ctx, sites, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("analyze: find sector candidates: %w", err)
	}

	if err := PruneNeighbors(ctx, sites, candidates, cfg.MaxNeighbors, cache, cfg.Workers); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	if err := ApplyTimingProfiles(sites, histograms, cfg.HistogramBins, cfg.PercentileThreshold); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	report := &Report{
		Sites: len(sites),
		Flags: DetectOvershooting(sites, cfg.Buckets),
	}
	for _, s := range sites {
		if s.HasNeighbors() {
			report.SitesWithNeighbors++
		}
		if s.PercentileBucketIndex != nil {
			report.SitesWithBucket++
		}
	}

	obs.RecordRun(obs.RunCounts{
		Sites:     report.Sites,
		Neighbors: report.SitesWithNeighbors,
		Buckets:   report.SitesWithBucket,
		Flagged:   len(report.Flags),
	})

	return report, nil
}

// AnalyzeOvershooting loads sites and histograms from their repositories and
// runs Analyze. Any load failure aborts the run.
func AnalyzeOvershooting(
	ctx context.Context,
	cfg config.AnalysisConfig,
	siteRepo ports.SiteRepository,
	histogramRepo ports.HistogramRepository,
	cache ports.DistanceCache,
) (*Report, []*domain.Site, error) {
	if siteRepo == nil || histogramRepo == nil {
		return nil, nil, errors.New("analyze overshooting: repositories must be non-nil")
	}

	sites, err := siteRepo.ListSites(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze overshooting: list sites: %w", err)
	}

	histograms, err := histogramRepo.ListHistograms(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze overshooting: list histograms: %w", err)
	}

	report, err := Analyze(ctx, cfg, sites, histograms, cache)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze overshooting: %w", err)
	}

	return report, sites, nil
}
