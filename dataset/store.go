package dataset

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/tensorann/blobstore"
	"github.com/hupe1980/tensorann/resource"
)

// CurrentName is the blob that names the published dataset.
const CurrentName = "CURRENT"

// Path returns the blob name of a dataset with n vectors of dimension d.
func Path(d, n int) string {
	return fmt.Sprintf("dimension_%d/sample_%d.bin", d, n)
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// Compression is used for saved datasets.
	Compression Compression

	// Controller throttles transfers with its IO limit.
	Controller *resource.Controller

	// Logger receives transfer diagnostics at debug level.
	Logger *slog.Logger
}

// Store persists datasets in a blob store.
type Store struct {
	blobs blobstore.BlobStore
	opts  StoreOptions
}

// NewStore wraps blobs.
func NewStore(blobs blobstore.BlobStore, optFns ...func(o *StoreOptions)) *Store {
	opts := StoreOptions{Compression: CompressionNone}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{blobs: blobs, opts: opts}
}

// Blobs returns the underlying blob store.
func (s *Store) Blobs() blobstore.BlobStore {
	return s.blobs
}

// Save writes data under Path(d, n) and returns the name.
func (s *Store) Save(ctx context.Context, data [][]float64) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("save: empty dataset")
	}
	name := Path(len(data[0]), len(data))
	if err := s.SaveAs(ctx, name, data); err != nil {
		return "", err
	}
	return name, nil
}

// SaveAs writes data under name.
func (s *Store) SaveAs(ctx context.Context, name string, data [][]float64) error {
	buf, err := Marshal(data, s.opts.Compression)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	if s.opts.Controller == nil {
		if err := s.blobs.Put(ctx, name, buf); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	} else {
		wb, err := s.blobs.Create(ctx, name)
		if err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		w := resource.NewRateLimitedWriter(ctx, wb, s.opts.Controller)
		if _, err := bytes.NewReader(buf).WriteTo(w); err != nil {
			_ = wb.Close()
			return fmt.Errorf("save %s: %w", name, err)
		}
		if err := wb.Close(); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}

	s.opts.Logger.DebugContext(ctx, "dataset saved",
		slog.String("name", name),
		slog.Int("n", len(data)),
		slog.Int("bytes", len(buf)),
		slog.String("compression", s.opts.Compression.String()))
	return nil
}

// Load reads the dataset called name.
func (s *Store) Load(ctx context.Context, name string) ([][]float64, error) {
	blob, err := s.blobs.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer rc.Close()

	data, h, err := Decode(resource.NewRateLimitedReader(ctx, rc, s.opts.Controller))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	s.opts.Logger.DebugContext(ctx, "dataset loaded",
		slog.String("name", name),
		slog.Int("n", int(h.N)),
		slog.Int("d", int(h.D)),
		slog.String("compression", h.Compression.String()))
	return data, nil
}

// Publish points CURRENT at name.
func (s *Store) Publish(ctx context.Context, name string) error {
	if err := s.blobs.Put(ctx, CurrentName, []byte(name)); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}

// Current returns the published dataset name.
func (s *Store) Current(ctx context.Context) (string, error) {
	b, err := blobstore.ReadAll(ctx, s.blobs, CurrentName)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", CurrentName, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// List returns the names of all stored datasets.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.blobs.List(ctx, "dimension_")
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, n := range names {
		if strings.HasSuffix(n, ".bin") {
			out = append(out, n)
		}
	}
	return out, nil
}
