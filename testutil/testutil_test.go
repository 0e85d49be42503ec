package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ensemble/feature"
)

func TestUniformVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	assert.LessOrEqual(t, v[0][0], 1.0)
	assert.GreaterOrEqual(t, v[1][0], 0.0)
}

func TestRNG_Reset(t *testing.T) {
	rng := NewRNG(7)
	a := rng.Float64()
	rng.Reset()
	assert.Equal(t, a, rng.Float64())
	assert.Equal(t, int64(7), rng.Seed())
}

func TestBlobs(t *testing.T) {
	rng := NewRNG(1)
	ds := rng.Blobs("pos", [][]float64{{0, 0}, {100, 100}}, 5, 0.1)

	require.Equal(t, 10, ds.Len())
	labels := Labels(ds)
	assert.Equal(t, "blob-0", labels[0])
	assert.Equal(t, "blob-1", labels[1])

	f, ok := ds.At(1).Feature("pos")
	require.True(t, ok)
	assert.InDelta(t, 100, f.(feature.Vector).Values()[0], 1)
}

func TestSparse(t *testing.T) {
	rng := NewRNG(3)
	ds := rng.Blobs("pos", [][]float64{{0}}, 20, 1)

	all := rng.Sparse(ds, "pos", 1)
	require.Equal(t, ds.Len(), all.Len())
	for _, r := range all.All() {
		_, ok := r.Feature("pos")
		assert.False(t, ok)
	}
	assert.Equal(t, Labels(ds), Labels(all))

	none := rng.Sparse(ds, "pos", 0)
	for _, r := range none.All() {
		_, ok := r.Feature("pos")
		assert.True(t, ok)
	}
}

func TestPurity(t *testing.T) {
	labels := []string{"a", "a", "b", "b"}

	assert.Equal(t, 1.0, Purity(labels, []int{0, 0, 1, 1}))
	assert.Equal(t, 0.5, Purity(labels, []int{0, 0, 0, 0}))
	assert.Equal(t, 0.75, Purity(labels, []int{0, 0, 1, -1}))
	assert.Equal(t, 1.0, Purity(nil, nil))
	assert.Equal(t, 0.0, Purity(labels, []int{0}))
}

func TestVectorRegistry(t *testing.T) {
	reg := VectorRegistry("pos")
	assert.Equal(t, []string{"pos"}, reg.Names())
}
