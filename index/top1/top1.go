package top1

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hupe1980/tensorann/distance"
	"github.com/hupe1980/tensorann/index"
	"github.com/hupe1980/tensorann/internal/bucket"
	"github.com/hupe1980/tensorann/internal/gaussian"
	"github.com/hupe1980/tensorann/internal/parallel"
	"github.com/hupe1980/tensorann/resource"
)

// Options contains configuration options for the base index.
type Options struct {
	// Policy selects the bucket assignment policy.
	Policy Policy

	// Seed drives direction generation. New fills it with a random value
	// before applying option functions, so leaving it untouched gives a
	// fresh index every time.
	Seed uint64

	// Directions, if set, replaces the random directions. The number of
	// directions then defines m. Every direction must have the data dimension.
	Directions [][]float64

	// Workers caps the goroutines used while building. Defaults to GOMAXPROCS.
	Workers int

	// Controller optionally bounds build concurrency across indexes.
	Controller *resource.Controller

	// Logger receives build diagnostics at debug level.
	Logger *slog.Logger
}

// DefaultOptions contains the default configuration options for the base index.
var DefaultOptions = Options{
	Policy: Argmax,
}

// Index is a built base index.
type Index struct {
	params     index.Params
	policy     Policy
	seed       uint64
	dim        int
	directions [][]float64
	threshold  float64
	labels     []int
	table      *bucket.Table[int]
}

// New builds an index over data. data is validated first and nothing is
// built when validation fails. The index keeps its own copies of the vectors.
func New(ctx context.Context, data [][]float64, p index.Params, optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	opts.Seed = gaussian.RandomSeed()
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := index.Validate(data, p); err != nil {
		return nil, err
	}

	dim := len(data[0])
	popts := parallel.Options{Workers: opts.Workers, Controller: opts.Controller}

	m := len(opts.Directions)
	if m == 0 {
		var err error
		if m, err = index.NumDirections(len(data), p.Alpha, p.Theta); err != nil {
			return nil, fmt.Errorf("top1: %w", err)
		}
	}
	// Directions plus the bucket-table copies of every point.
	working := int64(m+len(data)) * int64(dim) * 8
	if err := opts.Controller.AcquireMemory(ctx, working); err != nil {
		return nil, fmt.Errorf("top1: reserve %d bytes: %w", working, err)
	}
	defer opts.Controller.ReleaseMemory(working)

	directions := opts.Directions
	if directions == nil {
		var err error
		directions, err = gaussian.Directions(ctx, m, dim, opts.Seed, func(o *gaussian.Options) {
			o.Options = popts
		})
		if err != nil {
			return nil, fmt.Errorf("top1: generate directions: %w", err)
		}
	} else {
		if len(directions) == 0 {
			return nil, fmt.Errorf("top1: no directions supplied")
		}
		for j, dir := range directions {
			if len(dir) != dim {
				return nil, fmt.Errorf("top1: direction %d: %w", j, &index.ErrDimensionMismatch{Index: j, Expected: dim, Actual: len(dir)})
			}
		}
		directions = cloneAll(directions)
	}
	logger.DebugContext(ctx, "directions generated", "m", len(directions), "dim", dim, "seed", opts.Seed)

	labels, err := assign(ctx, data, directions, opts.Policy, popts)
	if err != nil {
		return nil, fmt.Errorf("top1: assign points: %w", err)
	}
	logger.DebugContext(ctx, "points assigned", "n", len(data), "policy", opts.Policy)

	b := bucket.NewBuilder[int]()
	for i, label := range labels {
		if label == Unassigned {
			continue
		}
		b.Add(label, uint32(i), data[i])
	}
	table := b.Build()

	idx := &Index{
		params:     p,
		policy:     opts.Policy,
		seed:       opts.Seed,
		dim:        dim,
		directions: directions,
		threshold:  Threshold(p.Alpha, len(directions)),
		labels:     labels,
		table:      table,
	}
	logger.DebugContext(ctx, "table built", "buckets", table.Len(), "covered", table.Covered(), "threshold", idx.threshold)

	return idx, nil
}

// Search returns, in ascending order, every direction whose inner product
// with q reaches the threshold. It returns nil when none qualifies or when
// q has the wrong dimension.
func (idx *Index) Search(q []float64) []int {
	if len(q) != idx.dim {
		return nil
	}
	var out []int
	for j, dir := range idx.directions {
		if distance.Dot(q, dir) >= idx.threshold {
			out = append(out, j)
		}
	}
	return out
}

// Query returns the first stored vector whose inner product with q is at
// least beta. Candidate buckets are scanned in ascending label order and
// their entries in insertion order. An unnormalized query or one of the
// wrong dimension fails with index.ErrInvalidQuery.
func (idx *Index) Query(q []float64) (index.Result, error) {
	if err := index.ValidateQuery(q, idx.dim); err != nil {
		return index.NotFound, err
	}
	for _, label := range idx.Search(q) {
		if e, s, ok := bucket.Scan(idx.table.Get(label), q, idx.params.Beta); ok {
			return index.Result{
				Vector:     slices.Clone(e.Vector),
				ID:         e.ID,
				Similarity: s,
				Found:      true,
			}, nil
		}
	}
	return index.NotFound, nil
}

// Hash returns the bucket label of data point i, or Unassigned when the
// Corridor policy left it out. i must be in [0, Len()).
func (idx *Index) Hash(i int) int {
	return idx.labels[i]
}

// Labels returns a copy of the per-point bucket labels.
func (idx *Index) Labels() []int {
	return slices.Clone(idx.labels)
}

// Bucket returns the entries stored under label. The result must not be modified.
func (idx *Index) Bucket(label int) []bucket.Entry {
	return idx.table.Get(label)
}

// Len returns the number of data points the index was built from.
func (idx *Index) Len() int { return len(idx.labels) }

// Dimension returns the vector dimension.
func (idx *Index) Dimension() int { return idx.dim }

// NumDirections returns m.
func (idx *Index) NumDirections() int { return len(idx.directions) }

// Threshold returns τ.
func (idx *Index) Threshold() float64 { return idx.threshold }

// Params returns the parameters the index was built with.
func (idx *Index) Params() index.Params { return idx.params }

// Policy returns the assignment policy.
func (idx *Index) Policy() Policy { return idx.policy }

// Seed returns the direction seed. It is meaningless when directions were supplied.
func (idx *Index) Seed() uint64 { return idx.seed }

// Stats describes a built index.
type Stats struct {
	Policy        Policy
	Points        int
	Directions    int
	Threshold     float64
	Buckets       int
	LargestBucket int
	Covered       uint64
}

// Stats returns statistics about the index.
func (idx *Index) Stats() Stats {
	return Stats{
		Policy:        idx.policy,
		Points:        len(idx.labels),
		Directions:    len(idx.directions),
		Threshold:     idx.threshold,
		Buckets:       idx.table.Len(),
		LargestBucket: idx.table.Largest(),
		Covered:       idx.table.Covered(),
	}
}

func cloneAll(vs [][]float64) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = slices.Clone(v)
	}
	return out
}
