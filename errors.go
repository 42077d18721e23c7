package tensorann

import (
	"errors"

	"github.com/hupe1980/tensorann/index"
)

var (
	// ErrUnknownKind is returned for an unsupported index kind.
	ErrUnknownKind = errors.New("unknown index kind")

	ErrInvalidAlpha  = index.ErrInvalidAlpha
	ErrInvalidBeta   = index.ErrInvalidBeta
	ErrInvalidTheta  = index.ErrInvalidTheta
	ErrEmptyDataset  = index.ErrEmptyDataset
	ErrZeroDimension = index.ErrZeroDimension
	ErrInvalidQuery  = index.ErrInvalidQuery
)

// ErrDimensionMismatch indicates a vector or query of the wrong dimension.
type ErrDimensionMismatch = index.ErrDimensionMismatch

// ErrUnnormalizedVector indicates a dataset vector off the unit sphere.
type ErrUnnormalizedVector = index.ErrUnnormalizedVector
