// Package parallel runs index-build stages over a bounded worker pool.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tensorann/resource"
)

// chunksPerWorker oversplits the range so uneven chunks balance out.
const chunksPerWorker = 4

// Options configures a parallel loop.
type Options struct {
	// Workers caps the goroutines of this loop. Defaults to GOMAXPROCS.
	Workers int

	// Controller, if set, additionally gates every chunk on a shared worker slot.
	Controller *resource.Controller
}

// For calls fn over disjoint half-open ranges [lo, hi) covering [0, n).
// fn must only write state owned by its range. The first error cancels ctx
// for the remaining chunks and is returned.
func For(ctx context.Context, n int, opts Options, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	chunk := (n + workers*chunksPerWorker - 1) / (workers * chunksPerWorker)
	chunk = max(chunk, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := opts.Controller.AcquireWorker(ctx); err != nil {
				return err
			}
			defer opts.Controller.ReleaseWorker()
			return fn(lo, hi)
		})
	}

	return g.Wait()
}
