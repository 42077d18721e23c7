package dataset

import (
	"context"
	"errors"

	"github.com/hupe1980/tensorann/distance"
	"github.com/hupe1980/tensorann/internal/gaussian"
	"github.com/hupe1980/tensorann/internal/parallel"
	"github.com/hupe1980/tensorann/resource"
)

// GenerateOptions configures Generate.
type GenerateOptions struct {
	// Sigma is the standard deviation of every coordinate.
	Sigma float64

	// Normalize scales every vector to unit length so it can be indexed.
	Normalize bool

	// Seed makes the output reproducible.
	Seed uint64

	// Workers caps the goroutines used. Defaults to GOMAXPROCS.
	Workers int

	// Controller optionally bounds concurrency across callers.
	Controller *resource.Controller
}

// DefaultGenerateOptions draws standard normal coordinates.
var DefaultGenerateOptions = GenerateOptions{
	Sigma: 1,
}

// Generate draws n i.i.d. Gaussian vectors of dimension d.
// Vector i depends only on the seed and i.
func Generate(ctx context.Context, n, d int, optFns ...func(o *GenerateOptions)) ([][]float64, error) {
	opts := DefaultGenerateOptions
	opts.Seed = gaussian.RandomSeed()
	for _, fn := range optFns {
		fn(&opts)
	}

	if n <= 0 {
		return nil, errors.New("n must be positive")
	}
	if d <= 0 {
		return nil, errors.New("d must be positive")
	}
	if opts.Sigma <= 0 {
		return nil, errors.New("sigma must be positive")
	}

	// Offset the stream ids so data never shares streams with directions
	// built from the same seed.
	const streamBase = 1 << 30

	out := make([][]float64, n)
	err := parallel.For(ctx, n, parallel.Options{Workers: opts.Workers, Controller: opts.Controller}, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			v := gaussian.Vector(d, opts.Sigma, gaussian.Stream(opts.Seed, streamBase+i))
			if opts.Normalize {
				distance.NormalizeL2InPlace(v)
			}
			out[i] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
