package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"overshoot-detection-service/internal/domain"
	"overshoot-detection-service/internal/geo"
	"overshoot-detection-service/internal/platform/obs"
	"overshoot-detection-service/internal/ports"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ClosestNeighbors ranks candidates by great-circle distance to the pivot and
// keeps the closest maxNeighbors.
//
// Equal distances keep candidate order (stable sort), so results are
// deterministic for a given input order. cache may be nil.
func ClosestNeighbors(
	sites []*domain.Site,
	pivot int,
	candidates []int,
	maxNeighbors int,
	cache ports.DistanceCache,
) []domain.Neighbor {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]domain.Neighbor, 0, len(candidates))
	for _, c := range candidates {
		cs := sites[c]
		ranked = append(ranked, domain.Neighbor{
			SiteName:       cs.Name,
			SiteIndex:      c,
			DistanceMeters: pairDistance(sites, pivot, c, cache),
		})
	}

	slices.SortStableFunc(ranked, func(a, b domain.Neighbor) int {
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	})

	if len(ranked) > maxNeighbors {
		ranked = ranked[:maxNeighbors]
	}

	return ranked
}

// AverageDistance returns the mean neighbor distance, or nil for no neighbors.
func AverageDistance(neighbors []domain.Neighbor) *float64 {
	if len(neighbors) == 0 {
		return nil
	}

	distances := make([]float64, len(neighbors))
	for i, n := range neighbors {
		distances[i] = n.DistanceMeters
	}

	avg := stat.Mean(distances, nil)
	return &avg
}

// PruneNeighbors stores each site's closest sector neighbors and their
// average distance. Sites without candidates get no neighbors and no average;
// that is a normal outcome, not an error.
func PruneNeighbors(
	ctx context.Context,
	sites []*domain.Site,
	candidates [][]int,
	maxNeighbors int,
	cache ports.DistanceCache,
	workers int,
) (err error) {
	defer obs.Time(ctx, "neighbors.PruneNeighbors")(&err)

	if len(candidates) != len(sites) {
		return fmt.Errorf(
			"prune neighbors: %d candidate lists for %d sites",
			len(candidates), len(sites),
		)
	}

	if maxNeighbors < 1 {
		return errors.New("prune neighbors: maxNeighbors must be >= 1")
	}

	return forEachChunk(ctx, len(sites), workers, func(i int) {
		neighbors := ClosestNeighbors(sites, i, candidates[i], maxNeighbors, cache)
		sites[i].Neighbors = neighbors
		sites[i].SectorAverageDistance = AverageDistance(neighbors)
	})
}

func pairDistance(sites []*domain.Site, a, b int, cache ports.DistanceCache) float64 {
	if cache != nil {
		if d, ok := cache.Get(a, b); ok {
			return d
		}
	}

	d := geo.Distance(sites[a].Point(), sites[b].Point())

	if cache != nil {
		cache.Put(a, b, d)
	}
	return d
}
