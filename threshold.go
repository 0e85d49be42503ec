package ensemble

import (
	"context"
	"fmt"

	"github.com/hupe1980/ensemble/cluster"
	"github.com/hupe1980/ensemble/engine"
	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/model"
)

// Threshold is single-pass leader clustering: each record joins the nearest
// cluster closer than the threshold, or founds a new one.
//
// The result depends on the order of the dataset. Centroids are updated online
// by default so each assignment moves its cluster before the next record.
type Threshold struct {
	base
	threshold float64
}

// NewThreshold creates a Threshold strategy. The threshold must be a
// non-negative number; +Inf puts every record into one cluster.
func NewThreshold(reg *feature.Registry, threshold float64, optFns ...Option) (*Threshold, error) {
	if !validThreshold(threshold) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	b, err := newBase("threshold", reg, true, optFns)
	if err != nil {
		return nil, err
	}
	return &Threshold{base: b, threshold: threshold}, nil
}

// Threshold returns the maximum admissible distance.
func (t *Threshold) Threshold() float64 { return t.threshold }

// Cluster implements Clusterer.
func (t *Threshold) Cluster(ctx context.Context, ds *model.Dataset) (*cluster.Result, error) {
	r, err := t.startRun(ctx, ds, engine.Below(t.threshold))
	if err != nil {
		return nil, err
	}
	clusters, err := r.pass(1, nil)
	return r.finish(clusters, 1, err)
}
