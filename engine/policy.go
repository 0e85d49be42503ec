package engine

import (
	"github.com/hupe1980/ensemble/cluster"
	"github.com/hupe1980/ensemble/feature"
)

// Predicate decides whether candidate, at distance score from r, may replace
// the current best. best is nil and bestScore +Inf before anything was accepted.
type Predicate func(r feature.Record, candidate *cluster.Cluster, score float64, best *cluster.Cluster, bestScore float64) bool

// Policy is the strategy-specific part of the nearest-cluster search.
type Policy struct {
	// Accept gates every block result.
	Accept Predicate
	// FirstCandidate stops the search at the first accepted block result.
	FirstCandidate bool
}

// AcceptAll admits every candidate; the search then returns the global nearest.
func AcceptAll(feature.Record, *cluster.Cluster, float64, *cluster.Cluster, float64) bool {
	return true
}

// Below admits candidates strictly closer than threshold.
func Below(threshold float64) Predicate {
	return func(_ feature.Record, _ *cluster.Cluster, score float64, _ *cluster.Cluster, _ float64) bool {
		return score < threshold
	}
}
