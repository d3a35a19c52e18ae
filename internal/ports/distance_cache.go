package ports

// Memoizes great-circle distances between two sites of one analysis run.
// Sites are identified by their index in the run's site list, since names
// are not guaranteed to be unique. A cache must not be shared across runs.
// Implementations treat (a, b) and (b, a) as the same key and must be safe
// for concurrent use.
type DistanceCache interface {
	Get(a, b int) (float64, bool)
	Put(a, b int, meters float64)
}
