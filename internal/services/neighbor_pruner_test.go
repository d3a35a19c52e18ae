package services

import (
	"context"
	"fmt"
	"overshoot-detection-service/internal/domain"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapDistanceCache struct {
	mu   sync.Mutex
	m    map[[2]int]float64
	hits int
}

func newMapDistanceCache() *mapDistanceCache {
	return &mapDistanceCache{m: map[[2]int]float64{}}
}

func (c *mapDistanceCache) key(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (c *mapDistanceCache) Get(a, b int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.m[c.key(a, b)]
	if ok {
		c.hits++
	}
	return d, ok
}

func (c *mapDistanceCache) Put(a, b int, meters float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[c.key(a, b)] = meters
}

func TestClosestNeighborsKeepsClosestSorted(t *testing.T) {
	sites := []*domain.Site{siteAt("PIVOT", "R1", 0, 0, 90)}
	distances := []float64{900, 100, 700, 300, 500, 200, 800}
	var candidates []int
	for i, d := range distances {
		sites = append(sites, siteAt(fmt.Sprintf("N%d", i), "R1", 90, d, 0))
		candidates = append(candidates, i+1)
	}

	got := ClosestNeighbors(sites, 0, candidates, 5, nil)
	require.Len(t, got, 5)

	want := []string{"N1", "N5", "N3", "N4", "N2"}
	for i, n := range got {
		assert.Equal(t, want[i], n.SiteName)
		assert.Equal(t, sites[n.SiteIndex].Name, n.SiteName)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].DistanceMeters, n.DistanceMeters)
		}
	}
	assert.InDelta(t, 100, got[0].DistanceMeters, 1e-3)
}

func TestClosestNeighborsStableOnTies(t *testing.T) {
	sites := []*domain.Site{
		siteAt("PIVOT", "R1", 0, 0, 0),
		siteAt("B", "R1", 10, 250, 0),
		siteAt("A", "R1", 10, 250, 0),
		siteAt("C", "R1", 10, 250, 0),
	}

	got := ClosestNeighbors(sites, 0, []int{1, 2, 3}, 2, nil)
	require.Len(t, got, 2)

	assert.Equal(t, "B", got[0].SiteName)
	assert.Equal(t, "A", got[1].SiteName)
}

func TestClosestNeighborsEmpty(t *testing.T) {
	sites := []*domain.Site{siteAt("PIVOT", "R1", 0, 0, 0)}

	assert.Nil(t, ClosestNeighbors(sites, 0, nil, 5, nil))
	assert.Nil(t, AverageDistance(nil))
}

func TestAverageDistance(t *testing.T) {
	avg := AverageDistance([]domain.Neighbor{
		{SiteName: "A", DistanceMeters: 100},
		{SiteName: "B", DistanceMeters: 200},
		{SiteName: "C", DistanceMeters: 600},
	})

	require.NotNil(t, avg)
	assert.InDelta(t, 300, *avg, 1e-9)
}

func TestPruneNeighborsUsesCache(t *testing.T) {
	// A and B face each other, so the pair distance is needed twice.
	sites := []*domain.Site{
		siteAt("A", "R1", 0, 0, 90),
		siteAt("B", "R1", 90, 400, 270),
		siteAt("LONELY", "R1", 180, 400, 180),
	}
	candidates := [][]int{{1}, {0}, nil}
	cache := newMapDistanceCache()

	err := PruneNeighbors(context.Background(), sites, candidates, 5, cache, 1)
	require.NoError(t, err)

	require.NotNil(t, sites[0].SectorAverageDistance)
	require.NotNil(t, sites[1].SectorAverageDistance)
	assert.InDelta(t, 400, *sites[0].SectorAverageDistance, 1e-3)
	assert.Equal(t, *sites[0].SectorAverageDistance, *sites[1].SectorAverageDistance)
	assert.Equal(t, 1, cache.hits)

	assert.Empty(t, sites[2].Neighbors)
	assert.Nil(t, sites[2].SectorAverageDistance)
	assert.False(t, sites[2].HasNeighbors())
}

func TestPruneNeighborsSameNameDifferentPlaces(t *testing.T) {
	// two records named DUP at different distances from TARGET
	sites := []*domain.Site{
		siteAt("TARGET", "R1", 0, 0, 0),
		siteAt("DUP", "R1", 90, 300, 270),
		siteAt("DUP", "R1", 90, 1200, 270),
	}
	candidates := [][]int{nil, {0}, {0}}
	cache := newMapDistanceCache()

	require.NoError(t, PruneNeighbors(context.Background(), sites, candidates, 5, cache, 1))

	require.NotNil(t, sites[1].SectorAverageDistance)
	require.NotNil(t, sites[2].SectorAverageDistance)
	assert.InDelta(t, 300, *sites[1].SectorAverageDistance, 1e-3)
	assert.InDelta(t, 1200, *sites[2].SectorAverageDistance, 1e-3)
	assert.Equal(t, 0, cache.hits)
}

func TestPruneNeighborsNeverExceedsMax(t *testing.T) {
	sites := []*domain.Site{siteAt("PIVOT", "R1", 0, 0, 90)}
	var candidates []int
	for i := 0; i < 20; i++ {
		sites = append(sites, siteAt(fmt.Sprintf("N%02d", i), "R1", 90, float64(2000-i*50), 0))
		candidates = append(candidates, i+1)
	}
	all := make([][]int, len(sites))
	all[0] = candidates

	require.NoError(t, PruneNeighbors(context.Background(), sites, all, 3, nil, 4))

	require.Len(t, sites[0].Neighbors, 3)
	assert.Equal(t, "N19", sites[0].Neighbors[0].SiteName)
	for _, s := range sites[1:] {
		assert.Nil(t, s.Neighbors)
	}
}

func TestPruneNeighborsRejectsMismatchedInput(t *testing.T) {
	sites := []*domain.Site{siteAt("A", "R1", 0, 0, 0)}

	err := PruneNeighbors(context.Background(), sites, nil, 5, nil, 1)
	assert.Error(t, err)

	err = PruneNeighbors(context.Background(), sites, [][]int{nil}, 0, nil, 1)
	assert.Error(t, err)
}
