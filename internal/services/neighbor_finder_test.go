package services

import (
	"context"
	"fmt"
	"overshoot-detection-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSectorCandidatesBasic(t *testing.T) {
	sites := []*domain.Site{
		siteAt("PIVOT", "R1", 0, 0, 90),
		siteAt("EAST", "R1", 90, 500, 0),
		siteAt("WEST", "R1", 270, 500, 0),
		siteAt("NORTHEAST", "R1", 45, 800, 0),
		siteAt("OTHER_REGION", "R2", 90, 300, 0),
	}
	ApplySectorGeometry(sites, 50)

	got, err := FindSectorCandidates(context.Background(), sites, 2)
	require.NoError(t, err)
	require.Len(t, got, len(sites))

	// pivot covers 40..140
	assert.Equal(t, []int{1, 3}, got[0])
}

func TestFindSectorCandidatesWrapAroundNorth(t *testing.T) {
	sites := []*domain.Site{
		siteAt("PIVOT", "R1", 0, 0, 10), // sector 320..60
		siteAt("NNW", "R1", 340, 400, 180),
		siteAt("N", "R1", 0.5, 400, 180),
		siteAt("NE", "R1", 55, 400, 180),
		siteAt("SE", "R1", 120, 400, 180),
		siteAt("W", "R1", 300, 400, 180),
	}
	ApplySectorGeometry(sites, 50)
	require.Greater(t, sites[0].SectorStart, sites[0].SectorEnd)

	got, err := FindSectorCandidates(context.Background(), sites, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, got[0])
}

func TestFindSectorCandidatesSkipsSelfAndDuplicateNames(t *testing.T) {
	sites := []*domain.Site{
		siteAt("A", "R1", 0, 0, 90),
		siteAt("A", "R1", 90, 200, 90),
		siteAt("B", "R1", 90, 300, 90),
	}
	ApplySectorGeometry(sites, 50)

	got, err := FindSectorCandidates(context.Background(), sites, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, got[0])
	for i, c := range got {
		assert.NotContains(t, c, i, "site %d lists itself", i)
	}
}

func TestFindSectorCandidatesRegionIsolation(t *testing.T) {
	sites := []*domain.Site{
		siteAt("A", "R1", 0, 0, 90),
		siteAt("B", "R2", 90, 100, 270),
	}
	ApplySectorGeometry(sites, 50)

	got, err := FindSectorCandidates(context.Background(), sites, 4)
	require.NoError(t, err)

	assert.Empty(t, got[0])
	assert.Empty(t, got[1])
}

func TestFindSectorCandidatesMatchesSerialScan(t *testing.T) {
	var sites []*domain.Site
	for i := 0; i < 600; i++ {
		region := fmt.Sprintf("R%d", i%3)
		sites = append(sites, siteAt(
			fmt.Sprintf("CELL_%03d", i),
			region,
			float64((i*37)%360),
			float64(50+(i*97)%5000),
			(i*53)%360,
		))
	}
	ApplySectorGeometry(sites, 50)

	serial, err := FindSectorCandidates(context.Background(), sites, 1)
	require.NoError(t, err)

	parallel, err := FindSectorCandidates(context.Background(), sites, 8)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)

	// Same result as a plain all-pairs scan restricted to shared regions.
	all := make([]int, len(sites))
	for i := range all {
		all[i] = i
	}
	for i := range sites {
		assert.Equal(t, sectorCandidates(sites, i, all), serial[i], "pivot %d", i)
	}
}

func TestBuildScanTasksSplitsLargeRegions(t *testing.T) {
	var sites []*domain.Site
	for i := 0; i < pivotsPerTask+10; i++ {
		sites = append(sites, siteAt(fmt.Sprintf("C%d", i), "BIG", 0, 0, 0))
	}
	sites = append(sites, siteAt("LONELY", "SMALL", 0, 0, 0))

	tasks := buildScanTasks(sites)
	require.Len(t, tasks, 3)

	assert.Equal(t, "BIG", tasks[0].region)
	assert.Len(t, tasks[0].pivots, pivotsPerTask)
	assert.Len(t, tasks[1].pivots, 10)
	assert.Len(t, tasks[0].members, pivotsPerTask+10)
	assert.Equal(t, "SMALL", tasks[2].region)
	assert.Equal(t, []int{pivotsPerTask + 10}, tasks[2].pivots)
}

func TestFindSectorCandidatesCanceled(t *testing.T) {
	sites := []*domain.Site{
		siteAt("A", "R1", 0, 0, 90),
		siteAt("B", "R1", 90, 100, 270),
	}
	ApplySectorGeometry(sites, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindSectorCandidates(ctx, sites, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
