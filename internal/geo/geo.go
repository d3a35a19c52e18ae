// Package geo holds the spherical geometry used by the sector analysis:
// compass bearings, great-circle distances and angular sector membership.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// NormalizeDegrees maps any angle onto [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -1e-15 + 360 rounds to exactly 360.
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// SectorBounds returns the start and end of the sector centered on azimuth,
// each in [0, 360). start > end means the sector crosses north.
func SectorBounds(azimuth, halfWidth float64) (start, end float64) {
	return NormalizeDegrees(azimuth - halfWidth), NormalizeDegrees(azimuth + halfWidth)
}

// InSector reports whether bearing lies in the inclusive interval [start, end],
// walking clockwise from start.
func InSector(start, end, bearing float64) bool {
	if start <= end {
		return bearing >= start && bearing <= end
	}
	return bearing >= start || bearing <= end
}

// Bearing returns the initial great-circle compass bearing from -> to in [0, 360).
// It is not symmetric: Bearing(a, b) and Bearing(b, a) generally differ by
// something other than 180 degrees.
func Bearing(from, to orb.Point) float64 {
	return NormalizeDegrees(geo.Bearing(from, to))
}

// Distance returns the great-circle (haversine) distance in meters.
func Distance(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}
