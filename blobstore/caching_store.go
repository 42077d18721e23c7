package blobstore

import (
	"context"
	"errors"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultBlockSize is the cache granularity used when none is given.
const DefaultBlockSize = 64 * 1024

type blockKey struct {
	name  string
	block int64
}

// CachingStore wraps a BlobStore and caches fixed-size blocks of the blobs
// read through it in an LRU. Remote dataset loads that are repeated, such as
// the CLI building several indexes over one file, are served from memory.
type CachingStore struct {
	inner     BlobStore
	cache     *lru.Cache[blockKey, []byte]
	blockSize int64
}

// NewCachingStore creates a CachingStore holding at most maxBlocks blocks.
// blockSize defaults to DefaultBlockSize if <= 0.
func NewCachingStore(inner BlobStore, maxBlocks int, blockSize int64) (*CachingStore, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	c, err := lru.New[blockKey, []byte](maxBlocks)
	if err != nil {
		return nil, err
	}
	return &CachingStore{
		inner:     inner,
		cache:     c,
		blockSize: blockSize,
	}, nil
}

// Open opens a cached view of a blob.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Create passes writes through; the blob's cached blocks are dropped.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

// Put writes through and drops the blob's cached blocks.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete deletes through and drops the blob's cached blocks.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is not cached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// CachedBlocks returns the number of blocks currently held.
func (s *CachingStore) CachedBlocks() int {
	return s.cache.Len()
}

func (s *CachingStore) invalidate(name string) {
	for _, k := range s.cache.Keys() {
		if k.name == name {
			s.cache.Remove(k)
		}
	}
}

type cachingBlob struct {
	inner     Blob
	cache     *lru.Cache[blockKey, []byte]
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error {
	return b.inner.Close()
}

func (b *cachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}

	end := min(off+int64(len(p)), size)
	first, last := off/b.blockSize, (end-1)/b.blockSize

	if err := b.fill(ctx, first, last); err != nil {
		return 0, err
	}

	total := 0
	for blk := first; blk <= last; blk++ {
		data, ok := b.cache.Get(blockKey{b.name, blk})
		if !ok {
			// Evicted between fill and copy.
			var err error
			if data, err = b.fetch(ctx, blk, 1); err != nil {
				return total, err
			}
		}
		start := blk * b.blockSize
		lo := max(start, off)
		hi := min(start+int64(len(data)), end)
		if hi <= lo {
			break
		}
		total += copy(p[lo-off:hi-off], data[lo-start:hi-start])
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// fill loads the missing blocks of [first, last], one backend read per
// contiguous run.
func (b *cachingBlob) fill(ctx context.Context, first, last int64) error {
	type run struct{ start, count int64 }
	var runs []run
	for blk := first; blk <= last; blk++ {
		if b.cache.Contains(blockKey{b.name, blk}) {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].start+runs[n-1].count == blk {
			runs[n-1].count++
			continue
		}
		runs = append(runs, run{blk, 1})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for _, r := range runs {
		g.Go(func() error {
			_, err := b.fetch(ctx, r.start, r.count)
			return err
		})
	}
	return g.Wait()
}

// fetch reads count blocks starting at block start and caches each of them.
// It returns the first block.
func (b *cachingBlob) fetch(ctx context.Context, start, count int64) ([]byte, error) {
	off := start * b.blockSize
	length := min(count*b.blockSize, b.Size()-off)
	if length <= 0 {
		return nil, nil
	}

	buf := make([]byte, length)
	n, err := b.inner.ReadAt(ctx, buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	buf = buf[:n]

	var first []byte
	for i := int64(0); i < count && i*b.blockSize < int64(len(buf)); i++ {
		// Copy so one large read is not pinned by a single cached block.
		lo := i * b.blockSize
		block := append([]byte(nil), buf[lo:min(lo+b.blockSize, int64(len(buf)))]...)
		b.cache.Add(blockKey{b.name, start + i}, block)
		if i == 0 {
			first = block
		}
	}
	return first, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	return io.NopCloser(&sectionReader{blob: b, ctx: ctx, off: off, limit: min(off+length, b.Size())}), nil
}

// sectionReader adapts a context-aware ReadAt to io.Reader.
type sectionReader struct {
	blob  Blob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *sectionReader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return n, err
}
