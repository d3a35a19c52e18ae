package services

import (
	"context"
	"overshoot-detection-service/internal/domain"
	"overshoot-detection-service/internal/geo"
	"overshoot-detection-service/internal/platform/obs"

	"golang.org/x/sync/errgroup"
)

// Pivots handed to one worker at a time. Keeps large regions spread
// across workers without creating a goroutine per site.
const pivotsPerTask = 256

// scanTask is one unit of the neighbor search: a slice of pivots scanned
// against every site of their region.
type scanTask struct {
	region  string
	members []int
	pivots  []int
}

// run writes the sector candidates of each task pivot into out.
// Each pivot slot is owned by exactly one task, so no locking is needed.
func (t scanTask) run(sites []*domain.Site, out [][]int) {
	for _, p := range t.pivots {
		out[p] = sectorCandidates(sites, p, t.members)
	}
}

// sectorCandidates returns, in member order, the sites of members whose
// bearing from the pivot falls inside the pivot's sector.
func sectorCandidates(sites []*domain.Site, pivot int, members []int) []int {
	ps := sites[pivot]
	from := ps.Point()

	var found []int
	for _, c := range members {
		cs := sites[c]
		// Sites are never compared with themselves; a repeated name is
		// treated as the same site.
		if c == pivot || cs.Name == ps.Name {
			continue
		}
		if cs.Region != ps.Region {
			continue
		}

		if ps.CoversBearing(geo.Bearing(from, cs.Point())) {
			found = append(found, c)
		}
	}
	return found
}

// buildScanTasks groups site indices by region, in input order, and splits
// each region's pivots into tasks of at most pivotsPerTask.
func buildScanTasks(sites []*domain.Site) []scanTask {
	var order []string
	byRegion := make(map[string][]int)
	for i, s := range sites {
		if _, ok := byRegion[s.Region]; !ok {
			order = append(order, s.Region)
		}
		byRegion[s.Region] = append(byRegion[s.Region], i)
	}

	var tasks []scanTask
	for _, region := range order {
		members := byRegion[region]
		for start := 0; start < len(members); start += pivotsPerTask {
			end := min(start+pivotsPerTask, len(members))
			tasks = append(tasks, scanTask{
				region:  region,
				members: members,
				pivots:  members[start:end],
			})
		}
	}
	return tasks
}

// FindSectorCandidates returns, for each site index, the indices of other
// sites in the same region whose compass bearing from the site lies inside
// its sector. Sector bounds must already be set.
//
// The search is all-pairs within each region. Regions and pivot chunks are
// scanned in parallel by up to workers goroutines; results are independent
// of the worker count.
func FindSectorCandidates(
	ctx context.Context,
	sites []*domain.Site,
	workers int,
) (_ [][]int, err error) {
	defer obs.Time(ctx, "neighbors.FindSectorCandidates")(&err)

	out := make([][]int, len(sites))
	if len(sites) == 0 {
		return out, nil
	}
	if workers < 1 {
		workers = 1
	}

	tasks := buildScanTasks(sites)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			task.run(sites, out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
