package domain

import (
	"overshoot-detection-service/internal/geo"

	"github.com/paulmach/orb"
)

// Represents a single cell transmitter.
// Identity, geography and radio attributes come from the site reference data
// and do not change. Sector bounds, neighbors and the timing profile are
// derived by the analysis stages, each written once per run.
type Site struct {
	Name      string
	Latitude  float64
	Longitude float64
	Azimuth   int
	Region    string

	SectorStart float64
	SectorEnd   float64

	// Closest same-sector neighbors, ascending by distance.
	Neighbors []Neighbor
	// Nil when the site has no sector neighbors.
	SectorAverageDistance *float64

	TimingHistogram []int
	// Nil when the site has no timing data or its histogram sums to zero.
	PercentileBucketIndex *int
}

// Neighbor references another site by name and by its position in the
// analyzed site list.
type Neighbor struct {
	SiteName       string
	SiteIndex      int
	DistanceMeters float64
}

func NewSite(name string, lat, lon float64, azimuth int, region string) *Site {
	return &Site{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Azimuth:   azimuth,
		Region:    region,
	}
}

// Point returns the site location as an orb point ([lon, lat]).
func (s *Site) Point() orb.Point { return orb.Point{s.Longitude, s.Latitude} }

// SetSector derives the sector bounds from the azimuth.
func (s *Site) SetSector(halfWidth float64) {
	s.SectorStart, s.SectorEnd = geo.SectorBounds(float64(s.Azimuth), halfWidth)
}

// CoversBearing reports whether a compass bearing falls inside the sector.
func (s *Site) CoversBearing(bearing float64) bool {
	return geo.InSector(s.SectorStart, s.SectorEnd, bearing)
}

func (s *Site) HasNeighbors() bool { return len(s.Neighbors) > 0 }
