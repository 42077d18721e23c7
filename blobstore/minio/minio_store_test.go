package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensorann/blobstore"
)

func TestStore_KeyMapping(t *testing.T) {
	s := NewStore(nil, "bucket", "datasets/")
	assert.Equal(t, "datasets/dimension_8/sample_10.bin", s.key("dimension_8/sample_10.bin"))
	assert.Equal(t, "dimension_8/sample_10.bin", s.name("datasets/dimension_8/sample_10.bin"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "CURRENT", bare.key("CURRENT"))
	assert.Equal(t, "CURRENT", bare.name("CURRENT"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
}

func TestConnect_Validation(t *testing.T) {
	_, err := Connect(context.Background(), Options{Bucket: "b"})
	assert.Error(t, err)

	_, err = Connect(context.Background(), Options{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}

// TestStore_Integration runs against the server in TENSORANN_MINIO_ENDPOINT.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("TENSORANN_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TENSORANN_MINIO_ENDPOINT not set")
	}

	ctx := context.Background()
	store, err := Connect(ctx, Options{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "test-tensorann",
		Prefix:    "test-prefix/",
	})
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "dimension_1/test.bin", data))

	blob, err := store.Open(ctx, "dimension_1/test.bin")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "dimension_1/")
	require.NoError(t, err)
	assert.Contains(t, names, "dimension_1/test.bin")

	require.NoError(t, store.Delete(ctx, "dimension_1/test.bin"))
	_, err = store.Open(ctx, "dimension_1/test.bin")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	wb, err := store.Create(ctx, "stream.bin")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	got, err := blobstore.ReadAll(ctx, store, "stream.bin")
	require.NoError(t, err)
	assert.Equal(t, "streamed data", string(got))

	_ = store.Delete(ctx, "stream.bin")
}
