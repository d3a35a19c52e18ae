package cache

import (
	"github.com/maypok86/otter/v2"
)

// OtterDistanceCache is an in-memory cache for site-to-site distances of one
// run, keyed by site index. Pair keys are order independent, so a distance
// computed for A->B also serves B->A. Safe for concurrent use.
type OtterDistanceCache struct {
	cache *otter.Cache[uint64, float64]
}

func NewOtterDistanceCache(maxSize int) *OtterDistanceCache {
	if maxSize < 1 {
		maxSize = 1
	}

	return &OtterDistanceCache{
		cache: otter.Must(&otter.Options[uint64, float64]{
			MaximumSize: maxSize,
		}),
	}
}

// pairKey packs the smaller index in the high half so both directions share a key.
func pairKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

// Get returns the cached distance between sites a and b in meters.
func (c *OtterDistanceCache) Get(a, b int) (float64, bool) {
	return c.cache.GetIfPresent(pairKey(a, b))
}

// Put stores the distance between sites a and b in meters.
func (c *OtterDistanceCache) Put(a, b int, meters float64) {
	c.cache.Set(pairKey(a, b), meters)
}
