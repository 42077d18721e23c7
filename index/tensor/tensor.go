package tensor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/hupe1980/tensorann/index"
	"github.com/hupe1980/tensorann/index/top1"
	"github.com/hupe1980/tensorann/internal/bucket"
	"github.com/hupe1980/tensorann/internal/gaussian"
	"github.com/hupe1980/tensorann/resource"
)

// Options contains configuration options for the tensor index.
type Options struct {
	// FastPreprocessing selects more, cheaper sub-indexes.
	FastPreprocessing bool

	// SubIndexes overrides the computed number of sub-indexes when positive.
	SubIndexes int

	// Seed drives all sub-indexes. Each sub-index derives its own seed from it.
	Seed uint64

	// ConfigureSubIndex, if set, is applied last to the options of sub-index j.
	ConfigureSubIndex func(j int, o *top1.Options)

	// Workers caps the goroutines used by each sub-index build.
	Workers int

	// Controller optionally bounds build concurrency across indexes.
	Controller *resource.Controller

	// Logger receives build diagnostics at debug level.
	Logger *slog.Logger
}

// DefaultOptions contains the default configuration options for the tensor index.
var DefaultOptions = Options{}

// NumSubIndexes returns t for n points. It fails with index.ErrIndexTooLarge
// when alpha is so close to 1 that t exceeds index.MaxDirections.
func NumSubIndexes(n int, alpha float64, fast bool) (int, error) {
	den := 1 - alpha*alpha
	var t float64
	if fast {
		t = math.Ceil(math.Pow(math.Log(float64(n)), 1.0/8) / den)
	} else {
		t = math.Ceil(1 / den)
	}
	if !(t <= index.MaxDirections) {
		return 0, fmt.Errorf("%w: %v sub-indexes, at most %d allowed", index.ErrIndexTooLarge, t, index.MaxDirections)
	}
	if t < 1 {
		return 1, nil
	}
	return int(t), nil
}

// Index is a built tensor index.
type Index struct {
	params index.Params
	dim    int
	subs   []*top1.Index
	table  *bucket.Table[Key]
}

// New builds a tensor index over data. data is validated once up front;
// nothing is built when validation fails.
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

	t := opts.SubIndexes
	if t <= 0 {
		var err error
		if t, err = NumSubIndexes(len(data), p.Alpha, opts.FastPreprocessing); err != nil {
			return nil, fmt.Errorf("tensor: %w", err)
		}
	}
	sub := p
	sub.Theta = p.Theta / float64(t)

	logger.DebugContext(ctx, "building sub-indexes", "t", t, "theta", sub.Theta, "fast", opts.FastPreprocessing)

	// Sub-indexes are built one after another; each parallelizes internally.
	subs := make([]*top1.Index, t)
	for j := range subs {
		idx, err := top1.New(ctx, data, sub, func(o *top1.Options) {
			o.Policy = top1.Argmax
			o.Seed = subSeed(opts.Seed, j)
			o.Workers = opts.Workers
			o.Controller = opts.Controller
			o.Logger = logger.With("sub", j)
			if opts.ConfigureSubIndex != nil {
				opts.ConfigureSubIndex(j, o)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("tensor: sub-index %d: %w", j, err)
		}
		subs[j] = idx
	}

	b := bucket.NewBuilder[Key]()
	labels := make([]int, t)
	for i, v := range data {
		for j, s := range subs {
			labels[j] = s.Hash(i)
		}
		b.Add(MakeKey(labels), uint32(i), v)
	}
	table := b.Build()

	logger.DebugContext(ctx, "table built", "buckets", table.Len(), "largest", table.Largest())

	return &Index{
		params: p,
		dim:    len(data[0]),
		subs:   subs,
		table:  table,
	}, nil
}

// subSeed spreads the sub-index seeds so their direction streams do not overlap.
func subSeed(seed uint64, j int) uint64 {
	return seed ^ (uint64(j+1) * 0xbf58476d1ce4e5b9)
}

// Search returns the candidate label set of every sub-index. It returns nil
// as soon as one sub-index has no candidate.
func (idx *Index) Search(q []float64) [][]int {
	sets := make([][]int, len(idx.subs))
	for j, s := range idx.subs {
		sets[j] = s.Search(q)
		if len(sets[j]) == 0 {
			return nil
		}
	}
	return sets
}

// Query returns the first stored vector whose inner product with q is at
// least beta, probing composite keys in Cartesian product order. Keys are
// enumerated lazily, so an early hit stops the enumeration.
// An unnormalized query or one of the wrong dimension fails with
// index.ErrInvalidQuery.
func (idx *Index) Query(q []float64) (index.Result, error) {
	if err := index.ValidateQuery(q, idx.dim); err != nil {
		return index.NotFound, err
	}

	sets := idx.Search(q)
	if sets == nil {
		return index.NotFound, nil
	}

	for tuple := range Tuples(sets) {
		if e, s, ok := bucket.Scan(idx.table.Get(MakeKey(tuple)), q, idx.params.Beta); ok {
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

// Key returns the composite key of data point i. i must be in [0, Len()).
func (idx *Index) Key(i int) Key {
	labels := make([]int, len(idx.subs))
	for j, s := range idx.subs {
		labels[j] = s.Hash(i)
	}
	return MakeKey(labels)
}

// Bucket returns the entries stored under k. The result must not be modified.
func (idx *Index) Bucket(k Key) []bucket.Entry {
	return idx.table.Get(k)
}

// SubIndex returns sub-index j.
func (idx *Index) SubIndex(j int) *top1.Index { return idx.subs[j] }

// NumSubIndexes returns t.
func (idx *Index) NumSubIndexes() int { return len(idx.subs) }

// Len returns the number of data points the index was built from.
func (idx *Index) Len() int { return idx.subs[0].Len() }

// Dimension returns the vector dimension.
func (idx *Index) Dimension() int { return idx.dim }

// Params returns the parameters the index was built with.
func (idx *Index) Params() index.Params { return idx.params }

// Stats describes a built tensor index.
type Stats struct {
	Points        int
	SubIndexes    []top1.Stats
	Buckets       int
	LargestBucket int
	Covered       uint64
}

// Stats returns statistics about the index and its sub-indexes.
func (idx *Index) Stats() Stats {
	st := Stats{
		Points:        idx.Len(),
		SubIndexes:    make([]top1.Stats, len(idx.subs)),
		Buckets:       idx.table.Len(),
		LargestBucket: idx.table.Largest(),
		Covered:       idx.table.Covered(),
	}
	for j, s := range idx.subs {
		st.SubIndexes[j] = s.Stats()
	}
	return st
}
