package top1

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreshold(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		m     int
		want  float64
	}{
		{"m=3", 0.9, 3, 1.1450279969204769},
		{"m=19", 0.9, 19, 1.5434304763703768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Threshold(tt.alpha, tt.m), 1e-12)
		})
	}

	t.Run("undefined below three directions", func(t *testing.T) {
		assert.True(t, math.IsInf(Threshold(0.9, 1), 1))
		assert.True(t, math.IsInf(Threshold(0.9, 2), 1))
	})

	t.Run("grows with m", func(t *testing.T) {
		assert.Less(t, Threshold(0.9, 10), Threshold(0.9, 1000))
	})
}

func TestCorridorBounds(t *testing.T) {
	left, right, ok := CorridorBounds(3)
	assert.True(t, ok)
	assert.InDelta(t, 1.4823038073675112, right, 1e-12)
	assert.InDelta(t, 1.387133208247494, left, 1e-12)

	_, _, ok = CorridorBounds(2)
	assert.False(t, ok)
}
