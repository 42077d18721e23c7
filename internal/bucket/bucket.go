// Package bucket holds the label-to-points tables built by the partition indexes.
package bucket

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/tensorann/distance"
)

// Entry is a stored point: its position in the source data and a private copy
// of its coordinates.
type Entry struct {
	ID     uint32
	Vector []float64
}

// Builder accumulates entries. It is not safe for concurrent use.
type Builder[K comparable] struct {
	buckets map[K][]Entry
	keys    []K
	covered *roaring.Bitmap
}

// NewBuilder returns an empty builder.
func NewBuilder[K comparable]() *Builder[K] {
	return &Builder[K]{
		buckets: make(map[K][]Entry),
		covered: roaring.New(),
	}
}

// Add appends point id to the bucket of key. The vector is copied.
func (b *Builder[K]) Add(key K, id uint32, vec []float64) {
	entries, ok := b.buckets[key]
	if !ok {
		b.keys = append(b.keys, key)
	}
	b.buckets[key] = append(entries, Entry{ID: id, Vector: slices.Clone(vec)})
	b.covered.Add(id)
}

// Build freezes the builder into a Table. The builder must not be used afterwards.
func (b *Builder[K]) Build() *Table[K] {
	b.covered.RunOptimize()
	t := &Table[K]{
		buckets: b.buckets,
		keys:    b.keys,
		covered: b.covered,
	}
	b.buckets, b.keys, b.covered = nil, nil, nil
	return t
}

// Table is an immutable mapping from bucket key to entries in insertion order.
// It is safe for concurrent reads.
type Table[K comparable] struct {
	buckets map[K][]Entry
	keys    []K
	covered *roaring.Bitmap
}

// Get returns the entries of key, or nil if the bucket is empty.
// The returned slice must not be modified.
func (t *Table[K]) Get(key K) []Entry {
	return t.buckets[key]
}

// Len returns the number of non-empty buckets.
func (t *Table[K]) Len() int {
	return len(t.keys)
}

// Keys returns the bucket keys in order of first insertion.
func (t *Table[K]) Keys() []K {
	return slices.Clone(t.keys)
}

// Largest returns the size of the fullest bucket.
func (t *Table[K]) Largest() int {
	n := 0
	for _, entries := range t.buckets {
		n = max(n, len(entries))
	}
	return n
}

// Covered returns the number of distinct points stored in the table.
func (t *Table[K]) Covered() uint64 {
	return t.covered.GetCardinality()
}

// Contains reports whether point id is stored in some bucket.
func (t *Table[K]) Contains(id uint32) bool {
	return t.covered.Contains(id)
}

// Scan returns the first entry whose inner product with q is at least beta,
// together with that inner product.
func Scan(entries []Entry, q []float64, beta float64) (Entry, float64, bool) {
	for _, e := range entries {
		if s := distance.Dot(q, e.Vector); s >= beta {
			return e, s, true
		}
	}
	return Entry{}, 0, false
}
