package services

import (
	"fmt"
	"math"
	"overshoot-detection-service/internal/domain"
)

// PercentileBucketIndex returns the first bin at which the running sample
// count reaches floor(total * threshold / 100), with a target of at least
// one sample so that empty leading bins are never selected.
//
// Bins are ordered from nearest to farthest distance range. It returns nil
// when the histogram is empty or sums to zero; index 0 is a valid result.
func PercentileBucketIndex(histogram []int, threshold float64) *int {
	total := 0
	for _, v := range histogram {
		total += v
	}
	if total <= 0 {
		return nil
	}

	target := max(int(math.Floor(float64(total)*threshold/100)), 1)

	running := 0
	for i, v := range histogram {
		running += v
		if running >= target {
			idx := i
			return &idx
		}
	}

	return nil
}

// ApplyTimingProfiles attaches each site's histogram and percentile bucket.
// Sites missing from histograms keep an empty histogram and no bucket.
// A histogram whose length is not bins is malformed input.
func ApplyTimingProfiles(
	sites []*domain.Site,
	histograms map[string][]int,
	bins int,
	threshold float64,
) error {
	for name, h := range histograms {
		if len(h) != bins {
			return fmt.Errorf("apply timing profiles: site %q has %d bins, want %d", name, len(h), bins)
		}
		for i, v := range h {
			if v < 0 {
				return fmt.Errorf("apply timing profiles: site %q bin %d has negative count %d", name, i, v)
			}
		}
	}

	for _, s := range sites {
		h := histograms[s.Name]
		s.TimingHistogram = h
		s.PercentileBucketIndex = PercentileBucketIndex(h, threshold)
	}

	return nil
}
