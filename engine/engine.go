package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hupe1980/ensemble/cluster"
	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/internal/workpool"
)

// minWeight is the weight below which a feature type is ignored.
const minWeight = 1e-5

// Engine scores records against clusters and searches for the best cluster.
// It is safe for concurrent use as long as the candidate clusters are not
// mutated during a search.
type Engine struct {
	registry *feature.Registry
	policy   Policy
	opts     options
}

// New creates an Engine over reg using policy.
func New(reg *feature.Registry, policy Policy, optFns ...Option) (*Engine, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if policy.Accept == nil {
		return nil, ErrNilPredicate
	}

	opts := applyOptions(optFns)
	if opts.blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, opts.blockSize)
	}

	return &Engine{
		registry: reg,
		policy:   policy,
		opts:     opts,
	}, nil
}

// Registry returns the feature registry.
func (e *Engine) Registry() *feature.Registry { return e.registry }

// Policy returns the search policy.
func (e *Engine) Policy() Policy { return e.policy }

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.opts.logger }

// BlockSize returns the number of candidates per search block.
func (e *Engine) BlockSize() int { return e.opts.blockSize }

// Distance returns the weighted sum of per-feature distances between a and b.
//
// Feature types with a weight below 1e-5 are skipped. A feature missing on
// either side contributes its weight if missing features are penalized and
// nothing otherwise. A failing distance function is logged and contributes
// nothing.
func (e *Engine) Distance(a, b feature.Record) float64 {
	total := 0.0
	for i := range e.registry.Len() {
		def := e.registry.At(i)
		w := def.Weight()
		if w < minWeight {
			continue
		}

		fa, okA := a.Feature(def.Name())
		fb, okB := b.Feature(def.Name())
		if !okA || !okB {
			if e.opts.penalizeMissing {
				total += w
			}
			continue
		}

		d, err := def.Distance(fa, fb)
		if err != nil {
			e.opts.logger.Warn("feature distance failed",
				"feature", def.Name(),
				"a", a.ID(),
				"b", b.ID(),
				"error", err,
			)
			e.opts.observer.OnDistanceFault(def.Name())
			continue
		}
		total += d * w
	}
	return total
}

// Match is the outcome of a BestCluster search.
type Match struct {
	// Cluster is nil if no candidate was accepted.
	Cluster *cluster.Cluster
	// Index is the position of Cluster in the candidate list, or -1.
	Index int
	// Score is the distance to Cluster, or +Inf.
	Score float64
}

// Found reports whether a cluster was accepted.
func (m Match) Found() bool { return m.Cluster != nil }

type blockResult struct {
	index int
	score float64
	err   error
}

// scan returns the first minimum of the distances from r to candidates[lo:hi].
func (e *Engine) scan(r feature.Record, candidates []*cluster.Cluster, lo, hi int) (res blockResult) {
	res = blockResult{index: -1, score: math.Inf(1)}
	defer func() {
		if p := recover(); p != nil {
			res = blockResult{index: -1, score: math.Inf(1), err: fmt.Errorf("block [%d,%d): %v", lo, hi, p)}
		}
	}()
	for i := lo; i < hi; i++ {
		d := e.Distance(r, candidates[i])
		if res.index < 0 || d < res.score {
			res.index, res.score = i, d
		}
	}
	return res
}

// BestCluster returns the best admissible cluster for r among candidates.
//
// Candidates are scanned in blocks on the worker pool. Block results are
// folded in completion order: a result replaces the current best when the
// policy accepts it and it is closer, or equally close with a lower position.
// With FirstCandidate the fold stops at the first accepted result; blocks
// already submitted still run to completion.
func (e *Engine) BestCluster(ctx context.Context, r feature.Record, candidates []*cluster.Cluster) (Match, error) {
	best := Match{Index: -1, Score: math.Inf(1)}
	if err := ctx.Err(); err != nil {
		return best, err
	}
	if len(candidates) == 0 {
		return best, nil
	}

	start := time.Now()
	size := e.opts.blockSize
	nblocks := (len(candidates) + size - 1) / size
	defer func() {
		e.opts.observer.OnSearch(nblocks, time.Since(start))
	}()

	results := make(chan blockResult, nblocks)

	if nblocks == 1 {
		results <- e.scan(r, candidates, 0, len(candidates))
	} else {
		pool := e.opts.pool()
		for lo := 0; lo < len(candidates); lo += size {
			hi := min(lo+size, len(candidates))
			task := func() { results <- e.scan(r, candidates, lo, hi) }
			if err := pool.Submit(ctx, task); err != nil {
				if !errors.Is(err, workpool.ErrClosed) {
					return best, err
				}
				e.opts.logger.Warn("worker pool closed, scanning on caller goroutine",
					"record", r.ID(),
					"block_start", lo,
				)
				task()
			}
		}
	}

	for range nblocks {
		var res blockResult
		select {
		case <-ctx.Done():
			return best, ctx.Err()
		case res = <-results:
		}

		if res.err != nil {
			e.opts.logger.Error("cluster distance task failed", "record", r.ID(), "error", res.err)
			continue
		}
		if res.index < 0 {
			continue
		}

		cand := candidates[res.index]
		if !e.policy.Accept(r, cand, res.score, best.Cluster, best.Score) {
			continue
		}
		if best.Cluster != nil && (res.score > best.Score || (res.score == best.Score && res.index > best.Index)) {
			continue
		}

		best = Match{Cluster: cand, Index: res.index, Score: res.score}
		if e.policy.FirstCandidate {
			break
		}
	}

	return best, nil
}

// Records is the read-only view of a dataset used by Pass.
type Records interface {
	Len() int
	At(i int) feature.Record
}

// PassResult is the outcome of one assignment pass.
type PassResult struct {
	// Clusters is the working list, including clusters created by the pass.
	Clusters []*cluster.Cluster
	// Modified lists the clusters that received records, in first-touch order.
	Modified []*cluster.Cluster
	// Created is the number of clusters the pass created.
	Created int
}

// Pass assigns every record of records, in order, to its best cluster. A
// record with no admissible cluster founds a new one from factory. In batch
// mode the centroids of modified clusters are recomputed at the end; a new
// cluster publishes its centroid immediately so later records can join it.
// The clusters slice itself is not modified.
func (e *Engine) Pass(ctx context.Context, records Records, clusters []*cluster.Cluster, factory *cluster.Factory) (*PassResult, error) {
	res := &PassResult{
		Clusters: append([]*cluster.Cluster(nil), clusters...),
	}
	touched := make(map[*cluster.Cluster]struct{}, len(clusters))

	var addErrs []error
	for idx := range records.Len() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r := records.At(idx)
		m, err := e.BestCluster(ctx, r, res.Clusters)
		if err != nil {
			return nil, err
		}

		c := m.Cluster
		if c == nil {
			c = factory.New()
			if _, err := c.Add(idx, r); err != nil {
				addErrs = append(addErrs, err)
			}
			if !c.Online() {
				c.UpdateCentroid()
			}
			res.Clusters = append(res.Clusters, c)
			res.Created++
		} else if _, err := c.Add(idx, r); err != nil {
			addErrs = append(addErrs, err)
		}

		if _, ok := touched[c]; !ok {
			touched[c] = struct{}{}
			res.Modified = append(res.Modified, c)
		}
	}

	for _, c := range res.Modified {
		if !c.Online() {
			c.UpdateCentroid()
		}
	}

	for _, err := range addErrs {
		e.opts.logger.Warn("record features skipped", "error", err)
	}
	return res, nil
}
