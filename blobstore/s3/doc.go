// Package s3 stores datasets in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "datasets/"
//	    o.Region = "us-east-1"
//	    o.CommitTable = "tensorann-commits" // optional, publish CURRENT via DynamoDB
//	})
//
//	ds := dataset.NewStore(store)
//
// # Features
//
//   - Ranged GETs for partial reads
//   - Multipart streaming uploads with CRC32C checksums
//   - Automatic pagination for listing
//   - Atomic CURRENT commits through DynamoDB conditional writes
package s3
