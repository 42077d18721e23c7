package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/tensorann/distance"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make([][]float64, num)
	for i := range num {
		vec := make([]float64, dimensions)
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVectors generates L2-normalized random vectors (on the hypersphere).
// Gaussian coordinates make the directions uniform on the sphere.
func (r *RNG) UnitVectors(num int, dimensions int) [][]float64 {
	vectors := r.GaussianVectors(num, dimensions)
	for _, vec := range vectors {
		if !distance.NormalizeL2InPlace(vec) {
			vec[0] = 1
		}
	}
	return vectors
}

// UnitVector generates a single L2-normalized random vector.
func (r *RNG) UnitVector(dimensions int) []float64 {
	return r.UnitVectors(1, dimensions)[0]
}

// Near returns a unit vector whose inner product with the unit vector v is
// exactly similarity (up to rounding). similarity must lie in [-1, 1].
func (r *RNG) Near(v []float64, similarity float64) []float64 {
	// Gram-Schmidt a random direction against v.
	u := r.UnitVector(len(v))
	p := distance.Dot(u, v)
	for j := range u {
		u[j] -= p * v[j]
	}
	if !distance.NormalizeL2InPlace(u) {
		return append([]float64(nil), v...)
	}

	s := math.Sqrt(max(0, 1-similarity*similarity))
	out := make([]float64, len(v))
	for j := range out {
		out[j] = similarity*v[j] + s*u[j]
	}
	distance.NormalizeL2InPlace(out)
	return out
}

// ClusteredUnitVectors generates unit vectors scattered around random
// unit centroids. spread is the standard deviation of the noise.
func (r *RNG) ClusteredUnitVectors(num, dim, clusters int, spread float64) [][]float64 {
	centroids := r.UnitVectors(clusters, dim)

	r.mu.Lock()
	vectors := make([][]float64, num)
	for i := range num {
		centroid := centroids[i%clusters]
		vec := make([]float64, dim)
		for j := range dim {
			vec[j] = centroid[j] + r.rand.NormFloat64()*spread
		}
		vectors[i] = vec
	}
	r.mu.Unlock()

	for _, vec := range vectors {
		distance.NormalizeL2InPlace(vec)
	}
	return vectors
}

// BestInnerProduct returns the position and value of the data vector with
// the largest inner product with q. It is the ground truth for recall checks.
func BestInnerProduct(q []float64, data [][]float64) (int, float64) {
	best, pos := math.Inf(-1), -1
	for i, v := range data {
		if s := distance.Dot(q, v); s > best {
			best, pos = s, i
		}
	}
	return pos, best
}

// HitRate returns the share of found outcomes.
func HitRate(found []bool) float64 {
	if len(found) == 0 {
		return 0
	}
	hits := 0
	for _, ok := range found {
		if ok {
			hits++
		}
	}
	return float64(hits) / float64(len(found))
}
