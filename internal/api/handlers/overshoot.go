package handlers

import (
	"log"
	"net/http"
	"overshoot-detection-service/internal/api/dto"
	"overshoot-detection-service/internal/config"
	"overshoot-detection-service/internal/ports"
	"overshoot-detection-service/internal/services"
	"strconv"
)

type OvershootHandler struct {
	Sites      ports.SiteRepository
	Histograms ports.HistogramRepository
	Config     config.AnalysisConfig
	// Builds a fresh distance cache per request; nil disables caching.
	NewCache func() ports.DistanceCache
}

// Analyze runs the overshooting pipeline against the configured repositories.
// Query parameters half_width, max_neighbors and percentile override the
// service configuration for this request; details=true adds per-site data.
func (h *OvershootHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cfg := h.Config
	q := r.URL.Query()

	if v := q.Get("half_width"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "half_width must be a number")
			return
		}
		cfg.SectorHalfWidth = f
	}

	if v := q.Get("max_neighbors"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "max_neighbors must be an integer")
			return
		}
		cfg.MaxNeighbors = n
	}

	if v := q.Get("percentile"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "percentile must be a number")
			return
		}
		cfg.PercentileThreshold = f
	}

	if err := cfg.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var distances ports.DistanceCache
	if h.NewCache != nil {
		distances = h.NewCache()
	}

	report, sites, err := services.AnalyzeOvershooting(r.Context(), cfg, h.Sites, h.Histograms, distances)
	if err != nil {
		log.Printf("analyze overshooting failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.OvershootReportResponse{
		Config: dto.OvershootConfigResponse{
			SectorHalfWidth:     cfg.SectorHalfWidth,
			MaxNeighbors:        cfg.MaxNeighbors,
			PercentileThreshold: cfg.PercentileThreshold,
		},
		Sites:              report.Sites,
		SitesWithNeighbors: report.SitesWithNeighbors,
		SitesWithBucket:    report.SitesWithBucket,
		Flags:              make([]dto.FlagResponse, 0, len(report.Flags)),
	}
	for _, f := range report.Flags {
		res.Flags = append(res.Flags, dto.FlagResponse{
			Name:                  f.SiteName,
			BucketIndex:           f.BucketIndex,
			Label:                 f.Label,
			MaxDistanceMeters:     f.MaxDistanceMeters,
			SectorAverageDistance: f.SectorAverageDistance,
		})
	}

	if q.Get("details") == "true" {
		res.Details = make([]dto.SiteResponse, 0, len(sites))
		for _, s := range sites {
			res.Details = append(res.Details, siteResponse(s, true))
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
