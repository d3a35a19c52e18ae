package handlers

import (
	"log"
	"net/http"
	"overshoot-detection-service/internal/api/dto"
	"overshoot-detection-service/internal/domain"
	"overshoot-detection-service/internal/ports"
)

// SiteHandler exposes read-only site reference endpoints.
type SiteHandler struct {
	Repo ports.SiteRepository
}

func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sites, err := h.Repo.ListSites(r.Context())
	if err != nil {
		log.Printf("list sites failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListSitesResponse{
		Sites: make([]dto.SiteResponse, 0, len(sites)),
	}
	for _, s := range sites {
		res.Sites = append(res.Sites, siteResponse(s, false))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// siteResponse converts a site; derived fields are included when withDerived is set.
func siteResponse(s *domain.Site, withDerived bool) dto.SiteResponse {
	out := dto.SiteResponse{
		Name:      s.Name,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Azimuth:   s.Azimuth,
		Region:    s.Region,
	}
	if !withDerived {
		return out
	}

	start, end := s.SectorStart, s.SectorEnd
	out.SectorStart = &start
	out.SectorEnd = &end
	out.SectorAverageDistance = s.SectorAverageDistance
	out.PercentileBucketIndex = s.PercentileBucketIndex
	for _, n := range s.Neighbors {
		out.Neighbors = append(out.Neighbors, dto.NeighborResponse{
			Name:           n.SiteName,
			DistanceMeters: n.DistanceMeters,
		})
	}
	return out
}
