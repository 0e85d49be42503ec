package ensemble

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/ensemble/cluster"
	"github.com/hupe1980/ensemble/engine"
	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/model"
)

// seedAttempts bounds K-Means++ draws to k * seedAttempts.
const seedAttempts = 3

// KMeans is iterative k-means clustering with K-Means++ seeding over the
// aggregate feature distance.
//
// Every pass resets the clusters, assigns each record to its nearest cluster
// and recomputes the centroids. Clusters left empty are dropped, so a run may
// end with fewer than k clusters. The run stops when a pass reproduces the
// memberships of the previous one or after MaxIterations passes.
type KMeans struct {
	base
	k int
}

// NewKMeans creates a KMeans strategy with k clusters.
func NewKMeans(reg *feature.Registry, k int, optFns ...Option) (*KMeans, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	b, err := newBase("kmeans", reg, false, optFns)
	if err != nil {
		return nil, err
	}
	return &KMeans{base: b, k: k}, nil
}

// K returns the requested number of clusters.
func (km *KMeans) K() int { return km.k }

// Cluster implements Clusterer.
func (km *KMeans) Cluster(ctx context.Context, ds *model.Dataset) (*cluster.Result, error) {
	r, err := km.startRun(ctx, ds, engine.AcceptAll)
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return r.finish(nil, 0, nil)
	}

	clusters, err := km.seed(r)
	if err != nil {
		return r.finish(nil, 0, err)
	}

	var (
		prev       map[*cluster.Cluster]*roaring.Bitmap
		iterations int
	)
	for iterations < km.opts.maxIterations {
		iterations++
		resetAll(clusters)

		clusters, err = r.pass(iterations, clusters)
		if err != nil {
			return r.finish(nil, iterations, err)
		}

		curr := memberships(clusters)
		if sameMemberships(prev, curr) || len(clusters) <= 1 {
			break
		}
		prev = curr
	}

	return r.finish(clusters, iterations, nil)
}

// seed picks up to k initial clusters with K-Means++: the first record is
// chosen uniformly, every further one with probability proportional to its
// squared distance to the nearest chosen seed.
func (km *KMeans) seed(r *run) ([]*cluster.Cluster, error) {
	rng := km.newRand()
	n := r.ds.Len()

	first := rng.Intn(n)
	seeds := []*cluster.Cluster{r.seedFrom(first)}

	weights := make([]float64, n)
	for i := range n {
		d := r.engine.Distance(r.ds.At(i), seeds[0])
		weights[i] = d * d
	}
	weights[first] = 0

	draws := 0
	for len(seeds) < km.k && draws < km.k*seedAttempts {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		draws++

		total := floats.Sum(weights)
		if total <= 0 {
			break
		}

		idx := pick(weights, rng.Float64()*total)
		if idx < 0 {
			continue
		}

		c := r.seedFrom(idx)
		seeds = append(seeds, c)
		for i := range n {
			if weights[i] == 0 {
				continue
			}
			d := r.engine.Distance(r.ds.At(i), c)
			weights[i] = min(weights[i], d*d)
		}
		weights[idx] = 0
	}

	r.logger.LogSeeding(r.ctx, km.k, len(seeds), draws)
	return seeds, nil
}

// pick returns the index whose cumulative weight first exceeds target, or the
// last positive weight if rounding leaves target past the end.
func pick(weights []float64, target float64) int {
	last := -1
	cum := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		last = i
		if target < cum {
			return i
		}
	}
	return last
}

func memberships(clusters []*cluster.Cluster) map[*cluster.Cluster]*roaring.Bitmap {
	m := make(map[*cluster.Cluster]*roaring.Bitmap, len(clusters))
	for _, c := range clusters {
		m[c] = c.MemberBitmap()
	}
	return m
}

func sameMemberships(prev, curr map[*cluster.Cluster]*roaring.Bitmap) bool {
	if prev == nil || len(prev) != len(curr) {
		return false
	}
	for c, bm := range curr {
		p, ok := prev[c]
		if !ok || !p.Equals(bm) {
			return false
		}
	}
	return true
}
