package top1

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/tensorann/distance"
	"github.com/hupe1980/tensorann/internal/parallel"
)

// Unassigned is the label of a point that no bucket holds.
const Unassigned = -1

// Policy selects how data points are assigned to buckets.
type Policy int

const (
	// Argmax assigns every point to its best direction.
	Argmax Policy = iota
	// Corridor assigns a point to the first direction whose inner product
	// lies inside the corridor, or to no bucket.
	Corridor
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Argmax:
		return "argmax"
	case Corridor:
		return "corridor"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a policy name back to its value.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "argmax":
		return Argmax, nil
	case "corridor":
		return Corridor, nil
	}
	return 0, fmt.Errorf("top1: unknown policy %q", s)
}

// ArgmaxLabel returns the index of the direction with the largest inner
// product with v. Comparison is strict, so the lowest index wins ties.
func ArgmaxLabel(v []float64, directions [][]float64) int {
	best, label := math.Inf(-1), Unassigned
	for j, dir := range directions {
		if s := distance.Dot(v, dir); s > best {
			best, label = s, j
		}
	}
	return label
}

// CorridorLabel returns the first direction whose inner product with v lies
// in [left, right], or Unassigned.
func CorridorLabel(v []float64, directions [][]float64, left, right float64) int {
	for j, dir := range directions {
		if s := distance.Dot(v, dir); s >= left && s <= right {
			return j
		}
	}
	return Unassigned
}

// assign computes the label of every point on the worker pool.
// Each chunk writes only its own slots of the result.
func assign(ctx context.Context, data, directions [][]float64, policy Policy, popts parallel.Options) ([]int, error) {
	labels := make([]int, len(data))

	var label func(v []float64) int
	switch policy {
	case Argmax:
		label = func(v []float64) int { return ArgmaxLabel(v, directions) }
	case Corridor:
		left, right, ok := CorridorBounds(len(directions))
		if !ok {
			for i := range labels {
				labels[i] = Unassigned
			}
			return labels, nil
		}
		label = func(v []float64) int { return CorridorLabel(v, directions, left, right) }
	default:
		return nil, fmt.Errorf("top1: unknown policy %v", policy)
	}

	err := parallel.For(ctx, len(data), popts, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			labels[i] = label(data[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return labels, nil
}
