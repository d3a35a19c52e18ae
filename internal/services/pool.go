package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachChunk runs fn over [0, n) split into contiguous chunks, at most
// workers chunks at a time. fn must only write state owned by index i.
func forEachChunk(ctx context.Context, n, workers int, fn func(i int)) error {
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	// Ceiling division: spread indices as evenly as possible across workers.
	chunkSize := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)

		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				fn(i)
			}
			return nil
		})
	}

	return g.Wait()
}
