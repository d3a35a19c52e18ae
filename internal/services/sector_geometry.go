package services

import "overshoot-detection-service/internal/domain"

// ApplySectorGeometry sets every site's sector bounds from its azimuth.
func ApplySectorGeometry(sites []*domain.Site, halfWidth float64) {
	for _, s := range sites {
		s.SetSector(halfWidth)
	}
}
