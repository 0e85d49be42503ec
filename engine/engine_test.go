package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ensemble/centroid"
	"github.com/hupe1980/ensemble/cluster"
	"github.com/hupe1980/ensemble/distance"
	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/internal/workpool"
	"github.com/hupe1980/ensemble/model"
)

type countingObserver struct {
	searches atomic.Int64
	faults   atomic.Int64
}

func (o *countingObserver) OnSearch(int, time.Duration) { o.searches.Add(1) }
func (o *countingObserver) OnDistanceFault(string)      { o.faults.Add(1) }

func vectorRegistry(t *testing.T) *feature.Registry {
	t.Helper()
	b := feature.NewBuilder()
	feature.Register(b, "pos", centroid.NewMean, distance.VectorFunc(distance.MetricEuclidean), 1)
	reg, err := b.Build()
	require.NoError(t, err)
	return reg
}

func point(id string, x, y float64) *model.Instance {
	return model.NewInstance(id, feature.NewVector("pos", x, y))
}

func clusterAt(reg *feature.Registry, id string, x, y float64) *cluster.Cluster {
	c := cluster.New(id, reg, true)
	_, _ = c.Add(0, point(id, x, y))
	return c
}

func TestNew_Validation(t *testing.T) {
	reg := vectorRegistry(t)

	_, err := New(nil, Policy{Accept: AcceptAll})
	assert.ErrorIs(t, err, ErrNilRegistry)

	_, err = New(reg, Policy{})
	assert.ErrorIs(t, err, ErrNilPredicate)

	_, err = New(reg, Policy{Accept: AcceptAll}, WithBlockSize(0))
	assert.ErrorIs(t, err, ErrInvalidBlockSize)

	eng, err := New(reg, Policy{Accept: AcceptAll})
	require.NoError(t, err)
	assert.Equal(t, DefaultBlockSize, eng.BlockSize())
}

func TestDistance(t *testing.T) {
	b := feature.NewBuilder()
	feature.Register(b, "pos", centroid.NewMean, distance.VectorFunc(distance.MetricEuclidean), 2)
	feature.Register(b, "name", centroid.NewMode, distance.ExactMatch, 0.5)
	feature.Register(b, "ignored", centroid.NewMode, distance.ExactMatch, 1e-6)
	reg, err := b.Build()
	require.NoError(t, err)

	a := model.NewInstance("a",
		feature.NewVector("pos", 0, 0),
		feature.NewText("name", "x"),
		feature.NewText("ignored", "p"),
	)
	c := model.NewInstance("c",
		feature.NewVector("pos", 3, 4),
		feature.NewText("ignored", "q"),
	)

	tests := []struct {
		name     string
		penalize bool
		want     float64
	}{
		{"penalize missing", true, 2*5 + 0.5},
		{"ignore missing", false, 2 * 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := New(reg, Policy{Accept: AcceptAll}, WithPenalizeMissing(tt.penalize))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, eng.Distance(a, c), 1e-12)
			assert.InDelta(t, tt.want, eng.Distance(c, a), 1e-12)
		})
	}

	eng, err := New(reg, Policy{Accept: AcceptAll})
	require.NoError(t, err)
	assert.Zero(t, eng.Distance(a, a))
}

func TestDistance_FaultContributesZero(t *testing.T) {
	b := feature.NewBuilder()
	feature.Register(b, "pos", centroid.NewMean, distance.VectorFunc(distance.MetricEuclidean), 1)
	feature.Register(b, "bad", centroid.NewMode, func(a, b feature.Text) float64 {
		panic("broken distance")
	}, 1)
	reg, err := b.Build()
	require.NoError(t, err)

	obs := &countingObserver{}
	eng, err := New(reg, Policy{Accept: AcceptAll}, WithMetricsObserver(obs))
	require.NoError(t, err)

	a := model.NewInstance("a", feature.NewVector("pos", 0, 0), feature.NewText("bad", "x"))
	c := model.NewInstance("c", feature.NewVector("pos", 0, 2), feature.NewText("bad", "y"))

	assert.InDelta(t, 2.0, eng.Distance(a, c), 1e-12)
	assert.Equal(t, int64(1), obs.faults.Load())

	// kind mismatch is a fault too
	d := model.NewInstance("d", feature.NewVector("pos", 0, 2), feature.NewVector("bad", 1))
	assert.InDelta(t, 2.0, eng.Distance(a, d), 1e-12)
	assert.Equal(t, int64(2), obs.faults.Load())
}

func sequentialBest(eng *Engine, r feature.Record, candidates []*cluster.Cluster, accept Predicate) Match {
	best := Match{Index: -1, Score: math.Inf(1)}
	for i, c := range candidates {
		d := eng.Distance(r, c)
		if accept(r, c, d, best.Cluster, best.Score) && d < best.Score {
			best = Match{Cluster: c, Index: i, Score: d}
		}
	}
	return best
}

func TestBestCluster_MatchesSequentialScan(t *testing.T) {
	reg := vectorRegistry(t)
	rng := rand.New(rand.NewSource(42))

	candidates := make([]*cluster.Cluster, 37)
	for i := range candidates {
		// integer grid so ties actually happen
		candidates[i] = clusterAt(reg, fmt.Sprintf("c%d", i), float64(rng.Intn(6)), float64(rng.Intn(6)))
	}

	pool := workpool.New(4, nil)
	defer pool.Close(time.Second)

	policies := map[string]Predicate{
		"all":   AcceptAll,
		"below": Below(2.5),
	}

	for name, accept := range policies {
		for size := 1; size <= len(candidates)+3; size++ {
			eng, err := New(reg, Policy{Accept: accept}, WithBlockSize(size), WithPool(pool))
			require.NoError(t, err)

			for q := range 10 {
				r := point(fmt.Sprintf("q%d", q), rng.Float64()*6, rng.Float64()*6)
				want := sequentialBest(eng, r, candidates, accept)

				got, err := eng.BestCluster(context.Background(), r, candidates)
				require.NoError(t, err)
				assert.Equal(t, want.Index, got.Index, "%s block size %d", name, size)
				assert.Same(t, want.Cluster, got.Cluster)
				assert.Equal(t, want.Score, got.Score)
			}
		}
	}
}

func TestBestCluster_TieBreaksByPosition(t *testing.T) {
	reg := vectorRegistry(t)
	candidates := []*cluster.Cluster{
		clusterAt(reg, "far", 9, 9),
		clusterAt(reg, "left", -1, 0),
		clusterAt(reg, "right", 1, 0),
		clusterAt(reg, "up", 0, 1),
	}

	pool := workpool.New(3, nil)
	defer pool.Close(time.Second)

	eng, err := New(reg, Policy{Accept: AcceptAll}, WithBlockSize(1), WithPool(pool))
	require.NoError(t, err)

	for range 20 {
		m, err := eng.BestCluster(context.Background(), point("o", 0, 0), candidates)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, "left", m.Cluster.ID())
	}
}

func TestBestCluster_NoneAccepted(t *testing.T) {
	reg := vectorRegistry(t)
	eng, err := New(reg, Policy{Accept: Below(0.5)})
	require.NoError(t, err)

	m, err := eng.BestCluster(context.Background(), point("o", 0, 0), []*cluster.Cluster{clusterAt(reg, "c", 3, 4)})
	require.NoError(t, err)
	assert.False(t, m.Found())
	assert.Equal(t, -1, m.Index)
	assert.True(t, math.IsInf(m.Score, 1))

	m, err = eng.BestCluster(context.Background(), point("o", 0, 0), nil)
	require.NoError(t, err)
	assert.False(t, m.Found())
}

func TestBestCluster_FirstCandidateIsAdmissible(t *testing.T) {
	reg := vectorRegistry(t)
	candidates := make([]*cluster.Cluster, 50)
	for i := range candidates {
		candidates[i] = clusterAt(reg, fmt.Sprintf("c%d", i), float64(i), 0)
	}

	pool := workpool.New(4, nil)
	defer pool.Close(time.Second)

	eng, err := New(reg, Policy{Accept: Below(10.5), FirstCandidate: true}, WithBlockSize(5), WithPool(pool))
	require.NoError(t, err)

	for range 20 {
		m, err := eng.BestCluster(context.Background(), point("o", 0, 0), candidates)
		require.NoError(t, err)
		require.True(t, m.Found())
		assert.Less(t, m.Score, 10.5)
		// every block result is its local minimum
		assert.Zero(t, m.Index%5)
	}
}

func TestBestCluster_ClosedPoolFallsBack(t *testing.T) {
	reg := vectorRegistry(t)
	candidates := []*cluster.Cluster{
		clusterAt(reg, "a", 5, 5),
		clusterAt(reg, "b", 1, 1),
		clusterAt(reg, "c", 3, 3),
	}

	pool := workpool.New(2, nil)
	pool.Close(time.Second)

	eng, err := New(reg, Policy{Accept: AcceptAll}, WithBlockSize(1), WithPool(pool))
	require.NoError(t, err)

	m, err := eng.BestCluster(context.Background(), point("o", 0, 0), candidates)
	require.NoError(t, err)
	assert.Equal(t, "b", m.Cluster.ID())
}

func TestBestCluster_ContextCanceled(t *testing.T) {
	reg := vectorRegistry(t)
	eng, err := New(reg, Policy{Accept: AcceptAll})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.BestCluster(ctx, point("o", 0, 0), []*cluster.Cluster{clusterAt(reg, "a", 1, 1)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBestCluster_ContextCanceledWhileSubmitting(t *testing.T) {
	reg := vectorRegistry(t)
	candidates := make([]*cluster.Cluster, 8)
	for i := range candidates {
		candidates[i] = clusterAt(reg, fmt.Sprintf("c%d", i), float64(i), float64(i))
	}

	pool := workpool.New(1, nil)
	release := make(chan struct{})
	defer func() {
		close(release)
		pool.Close(time.Second)
	}()

	started := make(chan struct{})
	require.NoError(t, pool.Submit(t.Context(), func() {
		close(started)
		<-release
	}))
	<-started
	// one worker and a queue of two: the third block submission blocks
	require.NoError(t, pool.Submit(t.Context(), func() {}))
	require.NoError(t, pool.Submit(t.Context(), func() {}))

	eng, err := New(reg, Policy{Accept: AcceptAll}, WithBlockSize(1), WithPool(pool))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := eng.BestCluster(ctx, point("o", 0, 0), candidates)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("search kept submitting after the context ended")
	}
}

func TestBestCluster_ReportsSearches(t *testing.T) {
	reg := vectorRegistry(t)
	obs := &countingObserver{}
	eng, err := New(reg, Policy{Accept: AcceptAll}, WithMetricsObserver(obs))
	require.NoError(t, err)

	for range 3 {
		_, err := eng.BestCluster(context.Background(), point("o", 0, 0), []*cluster.Cluster{clusterAt(reg, "a", 1, 1)})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), obs.searches.Load())
}

func TestPass(t *testing.T) {
	reg := vectorRegistry(t)
	ds := model.NewDataset(
		point("a", 0, 0),
		point("b", 0, 1),
		point("c", 10, 10),
		point("d", 10, 11),
	)

	for _, online := range []bool{true, false} {
		t.Run(fmt.Sprintf("online=%v", online), func(t *testing.T) {
			eng, err := New(reg, Policy{Accept: Below(2)})
			require.NoError(t, err)

			res, err := eng.Pass(context.Background(), ds, nil, cluster.NewFactory(reg, online))
			require.NoError(t, err)

			require.Len(t, res.Clusters, 2)
			assert.Equal(t, 2, res.Created)
			assert.Equal(t, res.Clusters, res.Modified)
			assert.Equal(t, []int{0, 1}, res.Clusters[0].Members())
			assert.Equal(t, []int{2, 3}, res.Clusters[1].Members())

			f, ok := res.Clusters[1].Feature("pos")
			require.True(t, ok)
			assert.InDeltaSlice(t, []float64{10, 10.5}, f.(feature.Vector).Values(), 1e-12)
		})
	}
}

func TestPass_ExistingClustersAndModifiedOrder(t *testing.T) {
	reg := vectorRegistry(t)
	factory := cluster.NewFactory(reg, false)

	far := clusterAt(reg, "far", 100, 100)
	near := clusterAt(reg, "near", 0, 0)
	near.Reset()
	far.Reset()

	ds := model.NewDataset(point("a", 1, 1), point("b", 99, 99), point("c", 0, 1))

	eng, err := New(reg, Policy{Accept: AcceptAll})
	require.NoError(t, err)

	existing := []*cluster.Cluster{far, near}
	res, err := eng.Pass(context.Background(), ds, existing, factory)
	require.NoError(t, err)

	assert.Equal(t, []*cluster.Cluster{far, near}, existing)
	assert.Equal(t, []*cluster.Cluster{far, near}, res.Clusters)
	assert.Equal(t, []*cluster.Cluster{near, far}, res.Modified)
	assert.Zero(t, res.Created)
	assert.Equal(t, []int{0, 2}, near.Members())
	assert.Equal(t, []int{1}, far.Members())
}

func TestPass_ContextCanceled(t *testing.T) {
	reg := vectorRegistry(t)
	eng, err := New(reg, Policy{Accept: AcceptAll})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.Pass(ctx, model.NewDataset(point("a", 0, 0)), nil, cluster.NewFactory(reg, true))
	assert.ErrorIs(t, err, context.Canceled)
}
