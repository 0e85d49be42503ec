package ensemble

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/ensemble/cluster"
	"github.com/hupe1980/ensemble/engine"
	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/model"
)

// DPMeans is nonparametric k-means: a record farther than the threshold from
// every cluster founds a new one, so the number of clusters is not fixed.
// Admission is strict: a record joins a cluster only when its distance is
// below the threshold, so with a threshold of 0 even identical records end up
// in separate clusters.
//
// The run starts from a single cluster seeded with a random record and stops
// when the distortion improves by less than the convergence test, after
// MaxIterations passes, or when a pass leaves no clusters.
type DPMeans struct {
	base
	threshold float64
}

// NewDPMeans creates a DPMeans strategy.
func NewDPMeans(reg *feature.Registry, threshold float64, optFns ...Option) (*DPMeans, error) {
	if !validThreshold(threshold) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	b, err := newBase("dpmeans", reg, false, optFns)
	if err != nil {
		return nil, err
	}
	return &DPMeans{base: b, threshold: threshold}, nil
}

// Threshold returns the cluster creation distance.
func (dp *DPMeans) Threshold() float64 { return dp.threshold }

// Cluster implements Clusterer.
func (dp *DPMeans) Cluster(ctx context.Context, ds *model.Dataset) (*cluster.Result, error) {
	r, err := dp.startRun(ctx, ds, engine.Below(dp.threshold))
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return r.finish(nil, 0, nil)
	}

	clusters := []*cluster.Cluster{r.seedFrom(dp.newRand().Intn(ds.Len()))}

	prevErr := math.Inf(1)
	iterations := 0
	for iterations < dp.opts.maxIterations {
		iterations++
		resetAll(clusters)

		clusters, err = r.pass(iterations, clusters)
		if err != nil {
			return r.finish(nil, iterations, err)
		}
		if len(clusters) == 0 {
			break
		}

		distortion := dp.distortion(r, clusters)
		r.logger.DebugContext(ctx, "distortion", "iteration", iterations, "value", distortion)
		if prevErr-distortion < dp.opts.convergenceTest {
			break
		}
		prevErr = distortion
	}

	return r.finish(clusters, iterations, nil)
}

// distortion sums the distances of all members to their cluster.
func (dp *DPMeans) distortion(r *run, clusters []*cluster.Cluster) float64 {
	total := 0.0
	for _, c := range clusters {
		for idx := range c.All() {
			total += r.engine.Distance(r.ds.At(idx), c)
		}
	}
	return total
}
