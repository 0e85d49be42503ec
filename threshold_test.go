package ensemble

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/testutil"
)

func TestThreshold_TwoPairs(t *testing.T) {
	reg := testutil.VectorRegistry("pos")

	for _, online := range []bool{true, false} {
		th, err := NewThreshold(reg, 2, WithOnlineUpdate(online))
		require.NoError(t, err)
		assert.Equal(t, 2.0, th.Threshold())
		assert.Equal(t, "threshold", th.Name())

		res, err := th.Cluster(context.Background(), fourPoints())
		require.NoError(t, err)

		assert.Equal(t, [][]int{{0, 1}, {2, 3}}, partition(res), "online=%v", online)
		assert.Equal(t, 1, res.Iterations())

		f, ok := res.At(1).Feature("pos")
		require.True(t, ok)
		assert.InDeltaSlice(t, []float64{10, 10.5}, f.(feature.Vector).Values(), 1e-12)
	}
}

func TestThreshold_Extremes(t *testing.T) {
	reg := testutil.VectorRegistry("pos")

	inf, err := NewThreshold(reg, math.Inf(1))
	require.NoError(t, err)
	res, err := inf.Cluster(context.Background(), fourPoints())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())

	zero, err := NewThreshold(reg, 0)
	require.NoError(t, err)
	res, err = zero.Cluster(context.Background(), fourPoints())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Len())
}

func TestThreshold_DefaultsToOnline(t *testing.T) {
	reg := testutil.VectorRegistry("pos")
	th, err := NewThreshold(reg, 1)
	require.NoError(t, err)
	assert.True(t, th.online)

	km, err := NewKMeans(reg, 1)
	require.NoError(t, err)
	assert.False(t, km.online)
}
