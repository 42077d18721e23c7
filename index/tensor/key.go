package tensor

import (
	"encoding/binary"
	"iter"
	"strconv"
	"strings"
)

// labelWidth is the encoded size of one sub-index label.
const labelWidth = 4

// Key is a composite bucket label: the ordered tuple of per-sub-index labels,
// packed as fixed-width little-endian uint32 values. Keys are comparable and
// two tuples share a Key only when they are equal.
type Key string

// MakeKey packs labels into a Key. Labels must be non-negative and fit in uint32.
func MakeKey(labels []int) Key {
	buf := make([]byte, labelWidth*len(labels))
	for i, l := range labels {
		binary.LittleEndian.PutUint32(buf[i*labelWidth:], uint32(l))
	}
	return Key(buf)
}

// Len returns the number of labels in k.
func (k Key) Len() int {
	return len(k) / labelWidth
}

// Labels unpacks k.
func (k Key) Labels() []int {
	out := make([]int, k.Len())
	for i := range out {
		out[i] = int(binary.LittleEndian.Uint32([]byte(k[i*labelWidth : (i+1)*labelWidth])))
	}
	return out
}

// String renders k as a parenthesized label tuple.
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, l := range k.Labels() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(l))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Product returns the Cartesian product of sets as tuples. The first set
// varies slowest. A product containing an empty set is empty, and the
// product of no sets is nil.
func Product[T any](sets [][]T) [][]T {
	if len(sets) == 0 {
		return nil
	}

	acc := [][]T{{}}
	for _, set := range sets {
		if len(set) == 0 {
			return nil
		}
		next := make([][]T, 0, len(acc)*len(set))
		for _, prefix := range acc {
			for _, v := range set {
				tuple := make([]T, len(prefix)+1)
				copy(tuple, prefix)
				tuple[len(prefix)] = v
				next = append(next, tuple)
			}
		}
		acc = next
	}
	return acc
}

// Tuples yields the tuples of the Cartesian product of sets in the order of
// Product without materializing it. The yielded slice is reused between
// iterations and must be copied to be retained.
func Tuples[T any](sets [][]T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if len(sets) == 0 {
			return
		}
		for _, set := range sets {
			if len(set) == 0 {
				return
			}
		}

		pos := make([]int, len(sets))
		tuple := make([]T, len(sets))
		for j, set := range sets {
			tuple[j] = set[0]
		}
		for {
			if !yield(tuple) {
				return
			}
			// Advance like an odometer: the last set varies fastest.
			j := len(sets) - 1
			for ; j >= 0; j-- {
				pos[j]++
				if pos[j] < len(sets[j]) {
					tuple[j] = sets[j][pos[j]]
					break
				}
				pos[j] = 0
				tuple[j] = sets[j][0]
			}
			if j < 0 {
				return
			}
		}
	}
}
