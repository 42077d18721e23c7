// Package tensorann provides randomized near-neighbor indexes for unit
// vectors on the sphere.
//
// Given a dataset and accuracy parameters alpha > beta, an index answers
// one question per query: return some stored vector whose inner product
// with the query is at least beta. A point with inner product at least
// alpha is found with good probability. Not finding anything is a normal
// outcome, never an error.
//
// # Index Kinds
//
//   - KindTop1: m random Gaussian directions; each point goes to the
//     direction it projects on most strongly.
//   - KindCloseTop1: each point goes to the first direction whose
//     projection lands in a narrow corridor below sqrt(2 ln m).
//   - KindTensor: t independent Top1 indexes; points are bucketed by the
//     tuple of their t labels, which shrinks the candidate set.
//
// # Quick Start
//
//	ctx := context.Background()
//	params := index.NewParams(0.9, 0.55)
//	idx, err := tensorann.New(ctx, tensorann.KindTensor, data, params,
//	    tensorann.WithSeed(42),
//	    tensorann.WithLogLevel(slog.LevelInfo))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := idx.Query(ctx, query)
//	if err != nil {
//	    log.Fatal(err) // query not unit-normalized or wrong dimension
//	}
//	if res.Found {
//	    fmt.Println(res.ID, res.Similarity)
//	}
//
// Datasets can be generated, stored and loaded with package dataset, on
// local disk, S3 or MinIO through the blobstore packages. The tensorann
// command wraps all of it.
package tensorann
