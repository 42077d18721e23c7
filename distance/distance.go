// Package distance provides the similarity primitives shared by every index.
// Inner products use the SIMD kernels from github.com/viterin/vek when the
// CPU supports them.
package distance

import (
	"math"
	"slices"

	"github.com/viterin/vek"
)

// NormTolerance is the maximum allowed deviation of a squared norm from 1
// for a vector to count as unit-normalized.
const NormTolerance = 1e-6

// Dot calculates the inner product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return vek.Dot(a, b)
}

// SquaredNorm returns the sum of squared coordinates of v.
func SquaredNorm(v []float64) float64 {
	return Dot(v, v)
}

// IsNormalized reports whether the squared norm of v is within
// NormTolerance of 1.
func IsNormalized(v []float64) bool {
	return math.Abs(SquaredNorm(v)-1) <= NormTolerance
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := SquaredNorm(v)
	if norm2 == 0 || math.IsNaN(norm2) || math.IsInf(norm2, 0) {
		return false
	}
	vek.MulNumber_Inplace(v, 1/math.Sqrt(norm2))
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float64) ([]float64, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}
