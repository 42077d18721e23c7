// Package index provides the types shared by the randomized near-neighbor
// indexes: parameters, input validation, query results and errors.
package index

import (
	"fmt"
	"math"

	"github.com/hupe1980/tensorann/distance"
)

// Params are the accuracy parameters of an index.
type Params struct {
	// Alpha controls the direction count exponent and the assignment threshold.
	// Must lie in (0, 1).
	Alpha float64

	// Beta is the minimum inner product a stored vector must reach with the
	// query to be returned. Must lie in (0, Alpha).
	Beta float64

	// Theta is the success exponent. Must be positive.
	// Theta(Alpha, Beta) gives the usual choice.
	Theta float64
}

// NewParams returns Params with Theta derived from alpha and beta.
func NewParams(alpha, beta float64) Params {
	return Params{Alpha: alpha, Beta: beta, Theta: Theta(alpha, beta)}
}

// Theta returns (1-alpha²)(1-beta²) / (1-alpha·beta)².
func Theta(alpha, beta float64) float64 {
	den := 1 - alpha*beta
	return (1 - alpha*alpha) * (1 - beta*beta) / (den * den)
}

// Validate checks the scalar parameter ranges.
func (p Params) Validate() error {
	if !(p.Alpha > 0 && p.Alpha < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidAlpha, p.Alpha)
	}
	if !(p.Beta > 0 && p.Beta < p.Alpha) {
		return fmt.Errorf("%w: got %v", ErrInvalidBeta, p.Beta)
	}
	if !(p.Theta > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTheta, p.Theta)
	}
	return nil
}

// String returns a compact representation for logs.
func (p Params) String() string {
	return fmt.Sprintf("alpha=%g beta=%g theta=%g", p.Alpha, p.Beta, p.Theta)
}

// Validate checks p and the dataset an index is about to be built from.
// The dataset must be non-empty, of uniform positive dimension, and every
// vector must be unit-normalized within distance.NormTolerance.
func Validate(data [][]float64, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyDataset
	}
	d := len(data[0])
	if d == 0 {
		return ErrZeroDimension
	}
	for i, v := range data {
		if len(v) != d {
			return &ErrDimensionMismatch{Index: i, Expected: d, Actual: len(v)}
		}
		// Written as a negated <= so NaN norms are rejected too.
		if norm := distance.SquaredNorm(v); !(math.Abs(norm-1) <= distance.NormTolerance) {
			return &ErrUnnormalizedVector{Index: i, SquaredNorm: norm}
		}
	}
	return nil
}

// ValidateQuery checks that q has dimension d and is unit-normalized.
// Failures wrap ErrInvalidQuery.
func ValidateQuery(q []float64, d int) error {
	if len(q) != d {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, &ErrDimensionMismatch{Index: -1, Expected: d, Actual: len(q)})
	}
	if !distance.IsNormalized(q) {
		return fmt.Errorf("%w: not normalized (squared norm = %v)", ErrInvalidQuery, distance.SquaredNorm(q))
	}
	return nil
}

// MaxDirections bounds the number of random directions, and of tensor
// sub-indexes, a single build may use.
const MaxDirections = 1 << 24

// NumDirections returns ceil(n^(theta/(1-alpha²))), the number of random
// directions a single base index draws for n points. It fails with
// ErrIndexTooLarge when the count exceeds MaxDirections.
func NumDirections(n int, alpha, theta float64) (int, error) {
	m := math.Ceil(math.Pow(float64(n), theta/(1-alpha*alpha)))
	if !(m <= MaxDirections) {
		return 0, fmt.Errorf("%w: %v directions, at most %d allowed", ErrIndexTooLarge, m, MaxDirections)
	}
	if m < 1 {
		return 1, nil
	}
	return int(m), nil
}

// Result is the outcome of a successful query.
// Found is false when no stored vector cleared beta; that is a normal
// outcome of a randomized index, not an error.
type Result struct {
	// Vector is a copy of the stored vector. Nil when Found is false.
	Vector []float64

	// ID is the position of the vector in the dataset the index was built from.
	ID uint32

	// Similarity is the inner product between the query and Vector.
	Similarity float64

	// Found reports whether a qualifying vector was returned.
	Found bool
}

// NotFound is the zero Result.
var NotFound = Result{}
