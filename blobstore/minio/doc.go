// Package minio stores datasets on MinIO and other S3-compatible servers
// through the native MinIO client.
//
//	store, err := minio.Connect(ctx, minio.Options{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "tensorann",
//	    Prefix:    "datasets/",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ds := dataset.NewStore(store)
//
// Connect creates the bucket when it does not exist. Use NewStore to wrap
// an already configured *minio.Client.
package minio
