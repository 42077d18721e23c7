package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 32},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Mixed", []float64{1, -1, 2}, []float64{1, 1, -2}, -4},
		{"Empty", []float64{}, []float64{}, 0},
		{"Single", []float64{2}, []float64{3}, 6},
		{"Large", make([]float64, 1024), make([]float64, 1024), 0},
	}

	for i := range tests[5].a {
		tests[5].a[i] = 1
		tests[5].b[i] = 1
	}
	tests[5].expected = 1024

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-9)
		})
	}
}

func TestIsNormalized(t *testing.T) {
	tests := []struct {
		name string
		v    []float64
		want bool
	}{
		{"Axis", []float64{1, 0, 0}, true},
		{"Diagonal", []float64{math.Sqrt2 / 2, math.Sqrt2 / 2}, true},
		{"WithinTolerance", []float64{1 + 4e-7, 0}, true},
		{"OutsideTolerance", []float64{1 + 1e-5, 0}, false},
		{"Scaled", []float64{2, 0, 0}, false},
		{"Zero", []float64{0, 0}, false},
		{"Empty", []float64{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNormalized(tt.v))
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		v := []float64{3, 4}
		ok := NormalizeL2InPlace(v)
		assert.True(t, ok)
		assert.InDelta(t, 0.6, v[0], 1e-12)
		assert.InDelta(t, 0.8, v[1], 1e-12)
		assert.True(t, IsNormalized(v))

		assert.False(t, NormalizeL2InPlace([]float64{0, 0}))
		assert.False(t, NormalizeL2InPlace([]float64{}))
	})

	t.Run("Copy", func(t *testing.T) {
		v := []float64{2, 0}
		dst, ok := NormalizeL2Copy(v)
		assert.True(t, ok)
		assert.Equal(t, 1.0, dst[0])
		assert.Equal(t, 2.0, v[0])
		assert.NotSame(t, &v[0], &dst[0])

		dst, ok = NormalizeL2Copy([]float64{0, 0})
		assert.False(t, ok)
		assert.Nil(t, dst)
	})
}
