// Package index holds what the randomized indexes have in common.
//
// Two index families live in subpackages:
//
//   - top1: one family of m random Gaussian directions. Every stored vector is
//     assigned to the direction it resembles most (Argmax policy) or to the
//     first direction whose inner product falls inside a corridor (Corridor
//     policy). A query probes every direction whose inner product with it
//     reaches a threshold derived from Gaussian extreme-value bounds.
//   - tensor: t independent top1 indexes built with theta/t, whose labels are
//     combined into composite keys. A query probes the Cartesian product of
//     the per-index candidate labels.
//
// The brute-force baseline lives in flat.
//
// # Parameters
//
// Every index is built from Params{Alpha, Beta, Theta}:
//
//	p := index.NewParams(0.9, 0.55) // Theta derived from alpha and beta
//	if err := index.Validate(data, p); err != nil { ... }
//
// # Results
//
// Queries return (Result, error). A Result with Found == false means no
// stored vector cleared Beta, which is an expected outcome. Errors are only
// returned for rejected queries (ErrInvalidQuery).
package index
