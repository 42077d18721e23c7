package tensorann

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/tensorann/index"
	"github.com/hupe1980/tensorann/index/tensor"
	"github.com/hupe1980/tensorann/index/top1"
	"github.com/hupe1980/tensorann/internal/parallel"
)

// Kind selects the index structure.
type Kind int

const (
	// KindTop1 assigns every point to its argmax direction.
	KindTop1 Kind = iota
	// KindCloseTop1 assigns points by corridor membership.
	KindCloseTop1
	// KindTensor combines several argmax indexes by tensoring.
	KindTensor
)

func (k Kind) String() string {
	switch k {
	case KindTop1:
		return "top1"
	case KindCloseTop1:
		return "close"
	case KindTensor:
		return "tensor"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "top1", "close" or "tensor".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "top1":
		return KindTop1, nil
	case "close", "closetop1":
		return KindCloseTop1, nil
	case "tensor", "tensortop1":
		return KindTensor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

type querier interface {
	Query(q []float64) (index.Result, error)
	Len() int
	Dimension() int
	Params() index.Params
}

// Index is a built index with logging, metrics and an optional query cache.
// It is immutable and safe for concurrent use.
type Index struct {
	id      uuid.UUID
	kind    Kind
	q       querier
	top1    *top1.Index
	tensor  *tensor.Index
	opts    options
	logger  *Logger
	cache   *lru.Cache[string, index.Result]
	builtIn time.Duration
}

// New builds an index of the given kind over data.
func New(ctx context.Context, kind Kind, data [][]float64, p index.Params, optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)

	ix := &Index{
		id:   uuid.New(),
		kind: kind,
		opts: o,
	}
	ix.logger = o.logger.WithID(ix.id.String()).WithKind(kind)

	start := time.Now()
	err := ix.build(ctx, data, p)
	ix.builtIn = time.Since(start)

	dim := 0
	if len(data) > 0 {
		dim = len(data[0])
	}
	o.metricsCollector.RecordBuild(kind, len(data), ix.builtIn, err)
	ix.logger.LogBuild(ctx, p, len(data), dim, ix.builtIn, err)
	if err != nil {
		return nil, err
	}

	if o.cacheSize > 0 {
		ix.cache, err = lru.New[string, index.Result](o.cacheSize)
		if err != nil {
			return nil, err
		}
	}
	return ix, nil
}

func (ix *Index) build(ctx context.Context, data [][]float64, p index.Params) error {
	o := ix.opts

	switch ix.kind {
	case KindTop1, KindCloseTop1:
		policy := top1.Argmax
		if ix.kind == KindCloseTop1 {
			policy = top1.Corridor
		}
		idx, err := top1.New(ctx, data, p, func(to *top1.Options) {
			to.Policy = policy
			if o.seeded {
				to.Seed = o.seed
			}
			to.Workers = o.workers
			to.Controller = o.controller
			to.Logger = ix.logger.Logger
		})
		if err != nil {
			return err
		}
		ix.top1, ix.q = idx, idx
	case KindTensor:
		idx, err := tensor.New(ctx, data, p, func(to *tensor.Options) {
			to.FastPreprocessing = o.fast
			if o.seeded {
				to.Seed = o.seed
			}
			to.Workers = o.workers
			to.Controller = o.controller
			to.Logger = ix.logger.Logger
		})
		if err != nil {
			return err
		}
		ix.tensor, ix.q = idx, idx
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(ix.kind))
	}
	return nil
}

// Query returns a stored vector whose inner product with q is at least
// beta, or a Result with Found false. The query must be unit-normalized
// and of the index dimension, otherwise the error wraps ErrInvalidQuery.
func (ix *Index) Query(ctx context.Context, q []float64) (index.Result, error) {
	if err := ctx.Err(); err != nil {
		return index.NotFound, err
	}

	start := time.Now()
	res, cached, err := ix.query(q)
	ix.opts.metricsCollector.RecordQuery(res.Found, cached, time.Since(start), err)
	ix.logger.LogQuery(ctx, res, cached, err)
	return res, err
}

func (ix *Index) query(q []float64) (index.Result, bool, error) {
	if ix.cache == nil {
		res, err := ix.q.Query(q)
		return res, false, err
	}

	key := cacheKey(q)
	if res, ok := ix.cache.Get(key); ok {
		return cloneResult(res), true, nil
	}
	res, err := ix.q.Query(q)
	if err != nil {
		return index.NotFound, false, err
	}
	ix.cache.Add(key, cloneResult(res))
	return res, false, nil
}

// QueryBatch answers every query in qs in parallel. The first invalid
// query aborts the batch.
func (ix *Index) QueryBatch(ctx context.Context, qs [][]float64) ([]index.Result, error) {
	out := make([]index.Result, len(qs))
	err := parallel.For(ctx, len(qs), parallel.Options{Workers: ix.opts.workers, Controller: ix.opts.controller}, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			res, err := ix.Query(ctx, qs[i])
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			out[i] = res
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func cacheKey(q []float64) string {
	buf := make([]byte, 8*len(q))
	for i, x := range q {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(x))
	}
	return string(buf)
}

func cloneResult(r index.Result) index.Result {
	r.Vector = slices.Clone(r.Vector)
	return r
}

// ID identifies this build in logs.
func (ix *Index) ID() uuid.UUID { return ix.id }

// Kind returns the index kind.
func (ix *Index) Kind() Kind { return ix.kind }

// Params returns the accuracy parameters.
func (ix *Index) Params() index.Params { return ix.q.Params() }

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.q.Len() }

// Dimension returns the vector dimension.
func (ix *Index) Dimension() int { return ix.q.Dimension() }

// Top1 returns the underlying base index, or nil for KindTensor.
func (ix *Index) Top1() *top1.Index { return ix.top1 }

// Tensor returns the underlying tensor index, or nil for the other kinds.
func (ix *Index) Tensor() *tensor.Index { return ix.tensor }

// Stats describes a built index.
type Stats struct {
	ID        uuid.UUID
	Kind      Kind
	Params    index.Params
	Points    int
	Dimension int
	BuildTime time.Duration
	Cached    int

	// Top1 is set for KindTop1 and KindCloseTop1.
	Top1 *top1.Stats
	// Tensor is set for KindTensor.
	Tensor *tensor.Stats
}

// Stats returns statistics about the index.
func (ix *Index) Stats() Stats {
	st := Stats{
		ID:        ix.id,
		Kind:      ix.kind,
		Params:    ix.Params(),
		Points:    ix.Len(),
		Dimension: ix.Dimension(),
		BuildTime: ix.builtIn,
	}
	if ix.cache != nil {
		st.Cached = ix.cache.Len()
	}
	if ix.top1 != nil {
		s := ix.top1.Stats()
		st.Top1 = &s
	}
	if ix.tensor != nil {
		s := ix.tensor.Stats()
		st.Tensor = &s
	}
	return st
}
