// Package flat provides an exact brute-force baseline for the randomized indexes.
package flat

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/hupe1980/tensorann/distance"
	"github.com/hupe1980/tensorann/index"
	"github.com/hupe1980/tensorann/internal/parallel"
	"github.com/hupe1980/tensorann/resource"
)

// Options contains configuration options for the flat index.
type Options struct {
	// Workers caps the goroutines of a Search. Defaults to GOMAXPROCS.
	Workers int

	// Controller optionally bounds search concurrency.
	Controller *resource.Controller
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{}

// Flat scans every stored vector. It is immutable and safe for concurrent use.
type Flat struct {
	vectors [][]float64
	dim     int
	opts    Options
}

// New creates a flat index over copies of data. Vectors need not be normalized,
// but all must share one positive dimension.
func New(data [][]float64, optFns ...func(o *Options)) (*Flat, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(data) == 0 {
		return nil, index.ErrEmptyDataset
	}
	dim := len(data[0])
	if dim == 0 {
		return nil, index.ErrZeroDimension
	}

	vectors := make([][]float64, len(data))
	for i, v := range data {
		if len(v) != dim {
			return nil, &index.ErrDimensionMismatch{Index: i, Expected: dim, Actual: len(v)}
		}
		vectors[i] = slices.Clone(v)
	}

	return &Flat{vectors: vectors, dim: dim, opts: opts}, nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Dimension returns the vector dimension.
func (f *Flat) Dimension() int { return f.dim }

// Search returns the stored vector with the largest inner product with q.
// Ties go to the lowest position.
func (f *Flat) Search(ctx context.Context, q []float64) (index.Result, error) {
	if len(q) != f.dim {
		return index.NotFound, &index.ErrDimensionMismatch{Index: -1, Expected: f.dim, Actual: len(q)}
	}

	var (
		mu   sync.Mutex
		best = math.Inf(-1)
		pos  = -1
	)

	err := parallel.For(ctx, len(f.vectors), parallel.Options{Workers: f.opts.Workers, Controller: f.opts.Controller}, func(lo, hi int) error {
		lbest, lpos := math.Inf(-1), -1
		for i := lo; i < hi; i++ {
			if s := distance.Dot(q, f.vectors[i]); s > lbest {
				lbest, lpos = s, i
			}
		}

		mu.Lock()
		defer mu.Unlock()
		if lpos >= 0 && (lbest > best || (lbest == best && lpos < pos)) {
			best, pos = lbest, lpos
		}
		return nil
	})
	if err != nil {
		return index.NotFound, err
	}
	if pos < 0 {
		return index.NotFound, nil
	}

	return f.result(pos, best), nil
}

// Query returns the first stored vector, in insertion order, whose inner
// product with q is at least beta.
func (f *Flat) Query(q []float64, beta float64) (index.Result, error) {
	if len(q) != f.dim {
		return index.NotFound, &index.ErrDimensionMismatch{Index: -1, Expected: f.dim, Actual: len(q)}
	}
	for i, v := range f.vectors {
		if s := distance.Dot(q, v); s >= beta {
			return f.result(i, s), nil
		}
	}
	return index.NotFound, nil
}

func (f *Flat) result(pos int, sim float64) index.Result {
	return index.Result{
		Vector:     slices.Clone(f.vectors[pos]),
		ID:         uint32(pos),
		Similarity: sim,
		Found:      true,
	}
}
