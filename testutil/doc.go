// Package testutil provides testing utilities for tensorann.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random unit vectors, exact
// inner-product ground truth, and hit-rate accounting.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	data := rng.UnitVectors(1000, 32) // uniform on the sphere
//	q := rng.Near(data[0], 0.9)       // ⟨q, data[0]⟩ = 0.9
//
// # Ground Truth
//
//	pos, sim := testutil.BestInnerProduct(q, data)
package testutil
