package index

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAlpha is returned when alpha is outside (0, 1).
	ErrInvalidAlpha = errors.New("invalid alpha: must be in the range (0, 1)")

	// ErrInvalidBeta is returned when beta is outside (0, alpha).
	ErrInvalidBeta = errors.New("invalid beta: must be in the range (0, alpha)")

	// ErrInvalidTheta is returned when theta is not positive.
	ErrInvalidTheta = errors.New("invalid theta: must be positive")

	// ErrEmptyDataset is returned when an index is built from no vectors.
	ErrEmptyDataset = errors.New("dataset cannot be empty")

	// ErrZeroDimension is returned when the dataset vectors have no coordinates.
	ErrZeroDimension = errors.New("vectors cannot have zero dimensions")

	// ErrIndexTooLarge is returned when the parameters call for more
	// directions or sub-indexes than a build can hold.
	ErrIndexTooLarge = errors.New("index too large")

	// ErrInvalidQuery is returned when a query vector is rejected.
	ErrInvalidQuery = errors.New("invalid query")
)

// ErrDimensionMismatch is a named error type for dimension mismatch.
// Index is the dataset position of the offending vector, or -1 for a query.
type ErrDimensionMismatch struct {
	Index    int
	Expected int
	Actual   int
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("vector at index %d has a different dimension (expected %d, got %d)", e.Index, e.Expected, e.Actual)
}

// ErrUnnormalizedVector is returned when a dataset vector is not on the unit sphere.
type ErrUnnormalizedVector struct {
	Index       int
	SquaredNorm float64
}

// Error returns the error message for an unnormalized vector.
func (e *ErrUnnormalizedVector) Error() string {
	return fmt.Sprintf("vector at index %d is not normalized (squared norm = %v)", e.Index, e.SquaredNorm)
}
