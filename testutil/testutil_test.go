package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/tensorann/distance"
)

func TestUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))

	for _, vec := range v {
		assert.True(t, distance.IsNormalized(vec))
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)

	a := rng.GaussianVectors(2, 4)
	rng.Reset()
	b := rng.GaussianVectors(2, 4)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestNear(t *testing.T) {
	rng := NewRNG(4711)
	v := rng.UnitVector(16)

	for _, sim := range []float64{0.95, 0.5, 0, -0.3} {
		q := rng.Near(v, sim)
		assert.True(t, distance.IsNormalized(q))
		assert.InDelta(t, sim, distance.Dot(q, v), 1e-9)
	}
}

func TestClusteredUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.ClusteredUnitVectors(20, 8, 4, 0.05)

	assert.Len(t, v, 20)
	for _, vec := range v {
		assert.True(t, distance.IsNormalized(vec))
	}
	// Same cluster, tight spread.
	assert.Greater(t, distance.Dot(v[0], v[4]), 0.8)
}

func TestBestInnerProduct(t *testing.T) {
	data := [][]float64{{1, 0}, {0, 1}, {0.6, 0.8}}

	pos, sim := BestInnerProduct([]float64{0, 1}, data)
	assert.Equal(t, 1, pos)
	assert.InDelta(t, 1.0, sim, 1e-12)

	pos, _ = BestInnerProduct([]float64{0, 1}, nil)
	assert.Equal(t, -1, pos)
}

func TestHitRate(t *testing.T) {
	assert.Equal(t, 0.0, HitRate(nil))
	assert.Equal(t, 0.5, HitRate([]bool{true, false}))
}
