package tensor

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensorann/index"
	"github.com/hupe1980/tensorann/index/top1"
	"github.com/hupe1980/tensorann/testutil"
)

var identity = [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func scaled(f float64) [][]float64 {
	out := make([][]float64, len(identity))
	for i, v := range identity {
		out[i] = []float64{v[0] * f, v[1] * f, v[2] * f}
	}
	return out
}

// withSubDirections forces two sub-indexes with the given directions.
func withSubDirections(dirs ...[][]float64) func(o *Options) {
	return func(o *Options) {
		o.SubIndexes = len(dirs)
		o.ConfigureSubIndex = func(j int, so *top1.Options) {
			so.Directions = dirs[j]
		}
	}
}

func TestNumSubIndexes(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		alpha float64
		fast  bool
		want  int
	}{
		{"default", 1000, 0.9, false, 6},
		{"default small alpha", 1000, 0.5, false, 2},
		{"fast", 1000, 0.9, true, 7},
		{"fast single point", 1, 0.9, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NumSubIndexes(tt.n, tt.alpha, tt.fast)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("too many", func(t *testing.T) {
		_, err := NumSubIndexes(1000, 0.99999999999, false)
		assert.ErrorIs(t, err, index.ErrIndexTooLarge)
	})
}

func TestCompositeTable(t *testing.T) {
	idx, err := New(context.Background(), identity, index.NewParams(0.9, 0.8), withSubDirections(scaled(2), scaled(3)))
	require.NoError(t, err)

	require.Equal(t, 2, idx.NumSubIndexes())
	for i, v := range identity {
		k := idx.Key(i)
		assert.Equal(t, []int{idx.SubIndex(0).Hash(i), idx.SubIndex(1).Hash(i)}, k.Labels())

		entries := idx.Bucket(k)
		require.Len(t, entries, 1)
		assert.Equal(t, uint32(i), entries[0].ID)
		assert.Equal(t, v, entries[0].Vector)
	}
	assert.Equal(t, MakeKey([]int{2, 2}), idx.Key(2))
}

func TestQuery(t *testing.T) {
	idx, err := New(context.Background(), identity, index.NewParams(0.9, 0.8), withSubDirections(scaled(2), scaled(2)))
	require.NoError(t, err)

	res, err := idx.Query([]float64{0, 1, 0})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, uint32(1), res.ID)
	assert.Equal(t, []float64{0, 1, 0}, res.Vector)

	res, err = idx.Query([]float64{0.6, 0.8, 0})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, uint32(1), res.ID)

	_, err = idx.Query([]float64{2, 0, 0})
	assert.ErrorIs(t, err, index.ErrInvalidQuery)

	_, err = idx.Query([]float64{1, 0})
	assert.ErrorIs(t, err, index.ErrInvalidQuery)
}

func TestShortCircuit(t *testing.T) {
	// Unit directions never reach the threshold for m = 3, so the first
	// sub-index yields no candidate for any unit query.
	idx, err := New(context.Background(), identity, index.NewParams(0.9, 0.8), withSubDirections(identity, scaled(2)))
	require.NoError(t, err)

	assert.Empty(t, idx.SubIndex(0).Search([]float64{1, 0, 0}))
	assert.Equal(t, []int{0}, idx.SubIndex(1).Search([]float64{1, 0, 0}))
	assert.Nil(t, idx.Search([]float64{1, 0, 0}))

	// The point is stored, but the query never probes the table.
	require.Len(t, idx.Bucket(idx.Key(0)), 1)

	res, err := idx.Query([]float64{1, 0, 0})
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestQuerySoundness(t *testing.T) {
	rng := testutil.NewRNG(4711)
	data := rng.UnitVectors(100, 8)
	p := index.Params{Alpha: 0.9, Beta: 0.55, Theta: 0.6}

	idx, err := New(context.Background(), data, p, func(o *Options) { o.Seed = 3 })
	require.NoError(t, err)
	assert.Equal(t, 6, idx.NumSubIndexes())

	for _, q := range data {
		res, err := idx.Query(q)
		require.NoError(t, err)
		if res.Found {
			assert.GreaterOrEqual(t, res.Similarity, p.Beta)
			assert.Equal(t, data[res.ID], res.Vector)
		}

		again, err := idx.Query(q)
		require.NoError(t, err)
		assert.Equal(t, res, again)
	}
}

func TestDeterministicSeed(t *testing.T) {
	rng := testutil.NewRNG(4711)
	data := rng.UnitVectors(50, 4)
	p := index.Params{Alpha: 0.9, Beta: 0.55, Theta: 0.6}

	build := func() *Index {
		idx, err := New(context.Background(), data, p, func(o *Options) {
			o.Seed = 11
			o.FastPreprocessing = true
		})
		require.NoError(t, err)
		return idx
	}

	a, b := build(), build()
	require.Equal(t, a.NumSubIndexes(), b.NumSubIndexes())
	for i := range data {
		assert.Equal(t, a.Key(i), b.Key(i))
	}
	// Sub-indexes draw different directions.
	assert.NotEqual(t, a.SubIndex(0).Seed(), a.SubIndex(1).Seed())
}

func TestNewValidation(t *testing.T) {
	_, err := New(context.Background(), nil, index.NewParams(0.9, 0.55))
	assert.ErrorIs(t, err, index.ErrEmptyDataset)

	_, err = New(context.Background(), identity, index.Params{Alpha: 0.9, Beta: 0.95, Theta: 1})
	assert.ErrorIs(t, err, index.ErrInvalidBeta)

	_, err = New(context.Background(), [][]float64{{3, 0}}, index.NewParams(0.9, 0.55))
	var normErr *index.ErrUnnormalizedVector
	assert.ErrorAs(t, err, &normErr)

	_, err = New(context.Background(), [][]float64{{1, 0}, {math.NaN(), 0}}, index.NewParams(0.9, 0.55))
	assert.ErrorAs(t, err, &normErr)

	_, err = New(context.Background(), identity, index.Params{Alpha: 0.9, Beta: 0.55, Theta: 200})
	assert.ErrorIs(t, err, index.ErrIndexTooLarge)
}

func TestStats(t *testing.T) {
	idx, err := New(context.Background(), identity, index.NewParams(0.9, 0.8), withSubDirections(scaled(2), identity))
	require.NoError(t, err)

	st := idx.Stats()
	assert.Equal(t, 3, st.Points)
	assert.Len(t, st.SubIndexes, 2)
	assert.Equal(t, 3, st.Buckets)
	assert.Equal(t, 1, st.LargestBucket)
	assert.Equal(t, uint64(3), st.Covered)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 3, idx.Dimension())
}
