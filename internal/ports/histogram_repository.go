package ports

import "context"

// Port: a boundary for retrieving per-site timing histograms.
type HistogramRepository interface {
	// Return site name -> per-bin sample counts. Sites without data are absent.
	ListHistograms(ctx context.Context) (map[string][]int, error)
}
