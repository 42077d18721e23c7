// Package tensor implements the tensored index.
//
// Instead of one base index with m = n^(theta/(1-alpha²)) directions, a
// tensor index builds t independent argmax indexes with exponent theta/t
// each and stores every point under the tuple of its t bucket labels.
// A query takes the Cartesian product of the t candidate label sets and
// probes every resulting tuple.
//
// t depends on the preprocessing mode:
//
//	fast:    t = ceil(ln(n)^(1/8) / (1-alpha²))
//	default: t = ceil(1 / (1-alpha²))
package tensor
