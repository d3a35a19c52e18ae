package domain

// Flag marks a site whose average distance to its closest sector neighbors
// exceeds the farthest distance of its percentile timing bucket.
type Flag struct {
	SiteName              string
	BucketIndex           int
	Label                 string
	MaxDistanceMeters     float64
	SectorAverageDistance float64
}
