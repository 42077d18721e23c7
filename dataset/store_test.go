package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensorann/blobstore"
	"github.com/hupe1980/tensorann/resource"
	"github.com/hupe1980/tensorann/testutil"
)

func TestPath(t *testing.T) {
	assert.Equal(t, "dimension_100/sample_1000.bin", Path(100, 1000))
}

func TestStore(t *testing.T) {
	stores := map[string]func(t *testing.T) blobstore.BlobStore{
		"Memory": func(*testing.T) blobstore.BlobStore { return blobstore.NewMemoryStore() },
		"Local":  func(t *testing.T) blobstore.BlobStore { return blobstore.NewLocalStore(t.TempDir()) },
	}

	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewStore(mk(t), func(o *StoreOptions) {
				o.Compression = CompressionZSTD
			})

			_, err := s.Current(ctx)
			assert.ErrorIs(t, err, blobstore.ErrNotFound)

			data := testutil.NewRNG(4).UnitVectors(30, 5)
			path, err := s.Save(ctx, data)
			require.NoError(t, err)
			assert.Equal(t, Path(5, 30), path)

			require.NoError(t, s.Publish(ctx, path))
			current, err := s.Current(ctx)
			require.NoError(t, err)
			assert.Equal(t, path, current)

			got, err := s.Load(ctx, current)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			names, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{path}, names)
		})
	}
}

func TestStore_Throttled(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	s := NewStore(blobstore.NewMemoryStore(), func(o *StoreOptions) {
		o.Controller = rc
		o.Compression = CompressionLZ4
	})

	data := repetitive(64, 8)
	require.NoError(t, s.SaveAs(ctx, "custom.bin", data))

	got, err := s.Load(ctx, "custom.bin")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := NewStore(blobstore.NewMemoryStore())

	_, err := s.Save(ctx, nil)
	assert.Error(t, err)

	_, err = s.Load(ctx, "missing.bin")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, s.Blobs().Put(ctx, "junk.bin", []byte("not a dataset")))
	_, err = s.Load(ctx, "junk.bin")
	assert.ErrorIs(t, err, ErrCorrupt)
}
