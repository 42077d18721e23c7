// Package distance provides inner products and normalization helpers for
// float64 vectors.
//
// Every stored vector and every query handled by the indexes in this module
// lives on the unit sphere, so the inner product doubles as cosine similarity.
//
// # Usage
//
//	sim := distance.Dot(a, b)
//	ok := distance.IsNormalized(q)
//	unit, ok := distance.NormalizeL2Copy(v)
package distance
