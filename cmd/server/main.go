package main

import (
	"context"
	"log"
	"net/http"
	"overshoot-detection-service/internal/adapters/cache"
	"overshoot-detection-service/internal/api"
	"overshoot-detection-service/internal/config"
	"overshoot-detection-service/internal/platform/source"
	"overshoot-detection-service/internal/ports"
	"time"

	"github.com/joho/godotenv"
)

// Upper bound on memoized pair distances per request.
const distanceCacheSize = 200_000

// main is the application composition root.
// It wires the configured data source behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	settings, err := source.SettingsFromEnv(cfg.HistogramBins)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	src, err := source.Open(ctx, settings)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	port := config.Get("PORT", "8080")
	newCache := func() ports.DistanceCache { return cache.NewOtterDistanceCache(distanceCacheSize) }
	router := api.NewRouter(src.Sites, src.Histograms, cfg, newCache, src.Kind)

	// Full-network runs re-read both sources; write timeout leaves room for that.
	log.Printf(
		"Server listening addr=:%s source=%s half_width=%v max_neighbors=%d percentile=%v workers=%d",
		port, src.Kind, cfg.SectorHalfWidth, cfg.MaxNeighbors, cfg.PercentileThreshold, cfg.Workers,
	)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
