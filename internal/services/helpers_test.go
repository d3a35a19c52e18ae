package services

import (
	"overshoot-detection-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

var origin = orb.Point{-70.65, -33.45}

// siteAt places a site meters away from origin along bearing.
func siteAt(name, region string, bearing, meters float64, azimuth int) *domain.Site {
	p := origin
	if meters > 0 {
		p = geo.PointAtBearingAndDistance(origin, bearing, meters)
	}
	return domain.NewSite(name, p.Lat(), p.Lon(), azimuth, region)
}

func histogram(bins int, counts map[int]int) []int {
	h := make([]int, bins)
	for i, c := range counts {
		h[i] = c
	}
	return h
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
