package ensemble

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/model"
	"github.com/hupe1980/ensemble/testutil"
)

func TestDPMeans_Thresholds(t *testing.T) {
	reg := testutil.VectorRegistry("pos")

	tests := []struct {
		name      string
		threshold float64
		want      [][]int
	}{
		{"infinite", math.Inf(1), [][]int{{0, 1, 2, 3}}},
		{"zero", 0, [][]int{{0}, {1}, {2}, {3}}},
		{"pairs", 2, [][]int{{0, 1}, {2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := range int64(4) {
				dp, err := NewDPMeans(reg, tt.threshold, WithSeed(seed))
				require.NoError(t, err)

				res, err := dp.Cluster(context.Background(), fourPoints())
				require.NoError(t, err)
				assert.Equal(t, tt.want, partition(res), "seed %d", seed)
			}
		})
	}
}

func TestDPMeans_ZeroThresholdKeepsDuplicatesApart(t *testing.T) {
	reg := testutil.VectorRegistry("pos")
	ds := model.NewDataset(
		model.NewInstance("a", feature.NewVector("pos", 1, 1)),
		model.NewInstance("b", feature.NewVector("pos", 1, 1)),
		model.NewInstance("c", feature.NewVector("pos", 5, 5)),
	)

	for seed := range int64(3) {
		dp, err := NewDPMeans(reg, 0, WithSeed(seed))
		require.NoError(t, err)

		res, err := dp.Cluster(context.Background(), ds)
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {1}, {2}}, partition(res), "seed %d", seed)
	}

	// any positive threshold merges the duplicates
	dp, err := NewDPMeans(reg, 1e-9, WithSeed(0))
	require.NoError(t, err)
	res, err := dp.Cluster(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {2}}, partition(res))
}

func TestDPMeans_StopsAtConvergence(t *testing.T) {
	reg := testutil.VectorRegistry("pos")

	dp, err := NewDPMeans(reg, 2, WithSeed(1), WithMaxIterations(50))
	require.NoError(t, err)
	assert.Equal(t, 2.0, dp.Threshold())

	res, err := dp.Cluster(context.Background(), fourPoints())
	require.NoError(t, err)
	assert.Less(t, res.Iterations(), 50)
}

func TestDPMeans_MaxIterations(t *testing.T) {
	reg := testutil.VectorRegistry("pos")

	// with a zero convergence test only a growing distortion ends the run early
	dp, err := NewDPMeans(reg, 2, WithSeed(1), WithMaxIterations(3), WithConvergenceTest(0))
	require.NoError(t, err)

	res, err := dp.Cluster(context.Background(), fourPoints())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Iterations())
}
