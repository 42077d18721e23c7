// Package top1 implements the base random-projection index.
//
// An index draws m = ceil(n^(theta/(1-alpha²))) Gaussian directions and
// places every data point in the bucket of one direction. Two assignment
// policies are available:
//
//   - Argmax puts a point in the bucket of the direction with the largest
//     inner product. Ties go to the lowest direction index.
//   - Corridor puts a point in the bucket of the first direction whose inner
//     product falls in [left, right], with right = sqrt(2 ln m) and
//     left = right - (3/2)·ln(ln m)/right. A point outside every corridor is
//     not stored. A point inside several corridors is stored only once.
//
// A query probes every direction whose inner product with the query reaches
//
//	τ = alpha·sqrt(2 ln m) - sqrt(2(1-alpha²)·ln(ln m))
//
// and scans those buckets, in ascending label order, for the first vector
// whose inner product with the query is at least beta.
//
// # Usage
//
//	idx, err := top1.New(ctx, data, index.NewParams(0.9, 0.55), func(o *top1.Options) {
//		o.Seed = 42
//	})
//	if err != nil {
//		return err
//	}
//	res, err := idx.Query(q)
//
// A built index is immutable and safe for concurrent queries.
package top1
