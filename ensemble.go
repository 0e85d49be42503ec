package ensemble

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/ensemble/cluster"
	"github.com/hupe1980/ensemble/engine"
	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/model"
)

// Clusterer groups the records of a dataset.
type Clusterer interface {
	// Name returns the strategy name used in logs and metrics.
	Name() string

	// Cluster partitions ds and returns the resulting clusters.
	Cluster(ctx context.Context, ds *model.Dataset) (*cluster.Result, error)

	// ClusterIncremental would extend existing clusters with ds. All built-in
	// strategies are batch-only and return ErrIncrementalUnsupported.
	ClusterIncremental(ctx context.Context, ds *model.Dataset, existing []*cluster.Cluster) (*cluster.Result, error)
}

// Compile time check to ensure the strategies satisfy Clusterer.
var (
	_ Clusterer = (*Threshold)(nil)
	_ Clusterer = (*KMeans)(nil)
	_ Clusterer = (*DPMeans)(nil)
)

// base carries what every strategy shares: the registry, the options and the
// resolved update mode.
type base struct {
	name     string
	registry *feature.Registry
	opts     options
	online   bool
}

func newBase(name string, reg *feature.Registry, onlineDefault bool, optFns []Option) (base, error) {
	if reg == nil {
		return base{}, ErrNilRegistry
	}
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return base{}, err
	}
	return base{
		name:     name,
		registry: reg,
		opts:     opts,
		online:   opts.online(onlineDefault),
	}, nil
}

// Name implements Clusterer.
func (b *base) Name() string { return b.name }

// Registry returns the feature registry.
func (b *base) Registry() *feature.Registry { return b.registry }

// ClusterIncremental implements Clusterer.
func (b *base) ClusterIncremental(context.Context, *model.Dataset, []*cluster.Cluster) (*cluster.Result, error) {
	return nil, ErrIncrementalUnsupported
}

func (b *base) newEngine(accept engine.Predicate, logger *Logger) (*engine.Engine, error) {
	return engine.New(b.registry,
		engine.Policy{Accept: accept, FirstCandidate: b.opts.firstCandidate},
		engine.WithBlockSize(b.opts.blockSize),
		engine.WithPenalizeMissing(b.opts.penalizeMissing),
		engine.WithLogger(logger.Logger),
		engine.WithMetricsObserver(engineObserver{mc: b.opts.metricsCollector}),
	)
}

func (b *base) newRand() *rand.Rand {
	if b.opts.seed != nil {
		return rand.New(rand.NewSource(*b.opts.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// run is the state of a single Cluster call.
type run struct {
	*base
	ctx     context.Context
	ds      *model.Dataset
	engine  *engine.Engine
	factory *cluster.Factory
	logger  *Logger
	start   time.Time
}

func (b *base) startRun(ctx context.Context, ds *model.Dataset, accept engine.Predicate) (*run, error) {
	logger := b.opts.logger.WithStrategy(b.name).WithRun(uuid.NewString())
	eng, err := b.newEngine(accept, logger)
	if err != nil {
		return nil, err
	}
	logger.LogRunStart(ctx, ds.Len())
	return &run{
		base:    b,
		ctx:     ctx,
		ds:      ds,
		engine:  eng,
		factory: cluster.NewFactory(b.registry, b.online),
		logger:  logger,
		start:   time.Now(),
	}, nil
}

// pass runs one assignment pass over the dataset and drops clusters left
// without members.
func (r *run) pass(iteration int, clusters []*cluster.Cluster) ([]*cluster.Cluster, error) {
	start := time.Now()
	res, err := r.engine.Pass(r.ctx, r.ds, clusters, r.factory)
	if err != nil {
		return nil, err
	}
	kept := dropEmpty(res.Clusters)
	r.opts.metricsCollector.RecordPass(r.name, iteration, len(kept), time.Since(start))
	r.logger.LogPass(r.ctx, iteration, len(kept), res.Created)
	return kept, nil
}

// seedFrom creates a cluster holding only the record at idx, with its
// centroid published.
func (r *run) seedFrom(idx int) *cluster.Cluster {
	c := r.factory.New()
	if _, err := c.Add(idx, r.ds.At(idx)); err != nil {
		r.logger.Warn("seed features skipped", "error", err)
	}
	c.UpdateCentroid()
	return c
}

func (r *run) finish(clusters []*cluster.Cluster, iterations int, err error) (*cluster.Result, error) {
	r.opts.metricsCollector.RecordRun(r.name, iterations, len(clusters), time.Since(r.start), err)
	r.logger.LogRun(r.ctx, iterations, len(clusters), err)
	if err != nil {
		return nil, err
	}
	return cluster.NewResult(r.ds, clusters, iterations), nil
}

func dropEmpty(clusters []*cluster.Cluster) []*cluster.Cluster {
	kept := clusters[:0:0]
	for _, c := range clusters {
		if !c.IsEmpty() {
			kept = append(kept, c)
		}
	}
	return kept
}

func resetAll(clusters []*cluster.Cluster) {
	for _, c := range clusters {
		c.Reset()
	}
}

func validThreshold(t float64) bool {
	return !math.IsNaN(t) && t >= 0
}
