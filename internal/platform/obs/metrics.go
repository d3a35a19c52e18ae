package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "overshoot_operation_duration_seconds",
		Help:    "Duration of analysis stages and data source calls, labeled by operation and outcome.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
	}, []string{"op", "outcome"})

	lastRunSites = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "overshoot_last_run_sites",
		Help: "Site counts of the most recent analysis run, labeled by stage outcome.",
	}, []string{"kind"})

	flaggedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "overshoot_flagged_sites_total",
		Help: "Total number of overshooting flags emitted across runs.",
	})
)

// RunCounts summarizes one analysis run for metrics.
type RunCounts struct {
	Sites     int
	Neighbors int
	Buckets   int
	Flagged   int
}

// RecordRun publishes the counts of a finished analysis run.
func RecordRun(c RunCounts) {
	lastRunSites.WithLabelValues("total").Set(float64(c.Sites))
	lastRunSites.WithLabelValues("with_neighbors").Set(float64(c.Neighbors))
	lastRunSites.WithLabelValues("with_bucket").Set(float64(c.Buckets))
	lastRunSites.WithLabelValues("flagged").Set(float64(c.Flagged))
	flaggedTotal.Add(float64(c.Flagged))
}
