package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/ensemble/centroid"
	"github.com/hupe1980/ensemble/distance"
	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/model"
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

// Shuffle pseudo-randomizes the order of n elements. It satisfies model.Shuffler.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}

	return vectors
}

// Blobs generates perCenter instances around every center, each carrying a
// vector feature called name with Gaussian noise of the given spread. The
// instances are labeled "blob-<center index>" and emitted round robin, so
// consecutive records belong to different blobs.
func (r *RNG) Blobs(name string, centers [][]float64, perCenter int, spread float64) *model.Dataset {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds := model.NewDataset()
	for i := range perCenter {
		for c, center := range centers {
			vals := make([]float64, len(center))
			for j, x := range center {
				vals[j] = x + r.rand.NormFloat64()*spread
			}
			inst := model.NewInstance(fmt.Sprintf("b%d-%d", c, i), feature.NewVector(name, vals...)).
				WithLabel(fmt.Sprintf("blob-%d", c))
			ds.Add(inst)
		}
	}
	return ds
}

// Sparse returns a copy of ds where each instance lost the feature called name
// with probability missingRate. Only *model.Instance records are rewritten.
func (r *RNG) Sparse(ds *model.Dataset, name string, missingRate float64) *model.Dataset {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := model.NewDataset()
	for _, rec := range ds.All() {
		inst, ok := rec.(*model.Instance)
		if !ok || r.rand.Float64() >= missingRate {
			out.Add(rec)
			continue
		}
		var keep []feature.Feature
		for _, f := range inst.Features() {
			if f.Name() != name {
				keep = append(keep, f)
			}
		}
		out.Add(model.NewInstance(inst.ID(), keep...).WithLabel(inst.Label()))
	}
	return out
}

// VectorRegistry returns a registry with a single Euclidean vector feature.
func VectorRegistry(name string) *feature.Registry {
	b := feature.NewBuilder()
	feature.Register(b, name, centroid.NewMean, distance.VectorFunc(distance.MetricEuclidean), 1)
	reg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return reg
}

// Labels returns the labels of the instances of ds in order. Records that
// are not instances get an empty label.
func Labels(ds *model.Dataset) []string {
	labels := make([]string, ds.Len())
	for i, rec := range ds.All() {
		if inst, ok := rec.(*model.Instance); ok {
			labels[i] = inst.Label()
		}
	}
	return labels
}

// Purity scores a clustering against known labels: the share of records whose
// label is the majority label of their cluster. Unassigned records (-1) count
// as misses.
func Purity(labels []string, assignments []int) float64 {
	if len(labels) == 0 || len(labels) != len(assignments) {
		if len(labels) == 0 && len(assignments) == 0 {
			return 1.0
		}
		return 0.0
	}

	counts := make(map[int]map[string]int)
	for i, c := range assignments {
		if c < 0 {
			continue
		}
		if counts[c] == nil {
			counts[c] = make(map[string]int)
		}
		counts[c][labels[i]]++
	}

	hits := 0
	for _, byLabel := range counts {
		best := 0
		for _, n := range byLabel {
			best = max(best, n)
		}
		hits += best
	}

	return float64(hits) / float64(len(labels))
}
