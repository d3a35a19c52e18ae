package api

import (
	"net/http"
	"overshoot-detection-service/internal/api/handlers"
	"overshoot-detection-service/internal/config"
	"overshoot-detection-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	sites ports.SiteRepository,
	histograms ports.HistogramRepository,
	cfg config.AnalysisConfig,
	newCache func() ports.DistanceCache,
	source string,
) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Source: source}
	siteHandler := &handlers.SiteHandler{Repo: sites}
	overshootHandler := &handlers.OvershootHandler{
		Sites:      sites,
		Histograms: histograms,
		Config:     cfg,
		NewCache:   newCache,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/sites", siteHandler.List)
	mux.HandleFunc("/overshooting", overshootHandler.Analyze)
	mux.Handle("/metrics", promhttp.Handler())

	// requestIDMiddleware runs first so the access log sees the id.
	return requestIDMiddleware(loggingMiddleware(mux))
}
