// Package gaussian draws the random directions that partition the sphere.
//
// Directions keep their raw N(0,1) coordinates. They are never normalized:
// the assignment thresholds assume Gaussian projections, and normalizing
// would change their distribution.
package gaussian

import (
	"context"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hupe1980/tensorann/internal/parallel"
)

// Options configures direction generation.
type Options struct {
	parallel.Options

	// Sigma is the standard deviation of every coordinate. Defaults to 1.
	Sigma float64
}

// Stream returns the random source for stream i under seed.
// Each direction, and each generated data vector, owns its stream, so the
// output does not depend on how work is scheduled across goroutines.
func Stream(seed uint64, i int) rand.Source {
	return rand.NewPCG(seed, uint64(i)^0x9e3779b97f4a7c15)
}

// Vector fills a new vector of dimension d from src.
func Vector(d int, sigma float64, src rand.Source) []float64 {
	normal := distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
	v := make([]float64, d)
	for j := range v {
		v[j] = normal.Rand()
	}
	return v
}

// Directions returns m independent directions of dimension d.
// Directions(ctx, m, d, seed) is deterministic for a fixed seed.
func Directions(ctx context.Context, m, d int, seed uint64, optFns ...func(o *Options)) ([][]float64, error) {
	opts := Options{Sigma: 1}
	for _, fn := range optFns {
		fn(&opts)
	}

	out := make([][]float64, m)
	err := parallel.For(ctx, m, opts.Options, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			out[i] = Vector(d, opts.Sigma, Stream(seed, i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RandomSeed returns a fresh seed for callers that did not pin one.
func RandomSeed() uint64 {
	return rand.Uint64()
}
