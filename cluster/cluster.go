package cluster

import (
	"errors"
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/ensemble/feature"
)

// Cluster is a group of records represented by the centroids of their features.
//
// A Cluster is not safe for concurrent mutation. Concurrent reads through
// Feature are safe while no Add, Remove or UpdateCentroid is in progress.
type Cluster struct {
	id       string
	registry *feature.Registry
	aggs     []feature.Aggregator
	exposed  map[string]feature.Feature
	members  *roaring.Bitmap
	online   bool
}

// New creates an empty cluster. In online mode the exposed centroids are
// republished after every Add and Remove; otherwise only UpdateCentroid
// publishes them.
func New(id string, reg *feature.Registry, online bool) *Cluster {
	aggs := make([]feature.Aggregator, reg.Len())
	for i := range aggs {
		aggs[i] = reg.At(i).NewAggregator()
	}
	return &Cluster{
		id:       id,
		registry: reg,
		aggs:     aggs,
		exposed:  make(map[string]feature.Feature, reg.Len()),
		members:  roaring.New(),
		online:   online,
	}
}

// ID implements feature.Record.
func (c *Cluster) ID() string { return c.id }

// Feature implements feature.Record. It returns the last published centroid.
func (c *Cluster) Feature(name string) (feature.Feature, bool) {
	f, ok := c.exposed[name]
	return f, ok
}

// Features returns the published centroids in registry order.
func (c *Cluster) Features() []feature.Feature {
	out := make([]feature.Feature, 0, len(c.exposed))
	for _, name := range c.registry.Names() {
		if f, ok := c.exposed[name]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Online reports whether centroids are republished on every change.
func (c *Cluster) Online() bool { return c.online }

// Add makes the record at dataset index idx a member and feeds its features to
// the aggregators. It returns false if idx is already a member. Features whose
// kind does not match their definition are skipped and reported in the error;
// the membership change still happens.
func (c *Cluster) Add(idx int, r feature.Record) (bool, error) {
	if !c.members.CheckedAdd(uint32(idx)) {
		return false, nil
	}
	err := c.apply(r, feature.Aggregator.Add)
	if c.online {
		c.UpdateCentroid()
	}
	return true, err
}

// Remove drops the record at dataset index idx and withdraws its features from
// the aggregators. It returns false if idx is not a member. Removing the last
// member empties every aggregator.
func (c *Cluster) Remove(idx int, r feature.Record) (bool, error) {
	if !c.members.CheckedRemove(uint32(idx)) {
		return false, nil
	}
	err := c.apply(r, feature.Aggregator.Remove)
	if c.members.IsEmpty() {
		for _, agg := range c.aggs {
			agg.Reset()
		}
	}
	if c.online {
		c.UpdateCentroid()
	}
	return true, err
}

func (c *Cluster) apply(r feature.Record, op func(feature.Aggregator, feature.Feature) error) error {
	var errs []error
	for i, agg := range c.aggs {
		f, ok := r.Feature(c.registry.At(i).Name())
		if !ok {
			continue
		}
		if err := op(agg, f); err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", r.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// UpdateCentroid publishes the current centroids. Features whose centroid is
// empty are no longer exposed.
func (c *Cluster) UpdateCentroid() {
	for i, agg := range c.aggs {
		name := c.registry.At(i).Name()
		if f, ok := agg.Current(); ok {
			c.exposed[name] = f
		} else {
			delete(c.exposed, name)
		}
	}
}

// Reset removes all members and empties the aggregators. The published
// centroids are kept so the cluster still attracts records in the next pass.
func (c *Cluster) Reset() {
	c.members.Clear()
	for _, agg := range c.aggs {
		agg.Reset()
	}
}

// Merge folds the members and aggregates of other into c. Both clusters must
// share the same registry.
func (c *Cluster) Merge(other *Cluster) error {
	if other.registry != c.registry {
		return ErrRegistryMismatch
	}
	var errs []error
	for i, agg := range c.aggs {
		if err := agg.Merge(other.aggs[i]); err != nil {
			errs = append(errs, err)
		}
	}
	c.members.Or(other.members)
	if c.online {
		c.UpdateCentroid()
	}
	return errors.Join(errs...)
}

// Contains reports whether the record at dataset index idx is a member.
func (c *Cluster) Contains(idx int) bool { return c.members.Contains(uint32(idx)) }

// Len returns the number of members.
func (c *Cluster) Len() int { return int(c.members.GetCardinality()) }

// IsEmpty reports whether the cluster has no members.
func (c *Cluster) IsEmpty() bool { return c.members.IsEmpty() }

// Members returns the member indices in ascending order.
func (c *Cluster) Members() []int {
	out := make([]int, 0, c.Len())
	for idx := range c.All() {
		out = append(out, idx)
	}
	return out
}

// All iterates over the member indices in ascending order.
func (c *Cluster) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := c.members.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// MemberBitmap returns a copy of the membership bitmap.
func (c *Cluster) MemberBitmap() *roaring.Bitmap { return c.members.Clone() }

// SameMembers reports whether c and other have identical membership.
func (c *Cluster) SameMembers(other *Cluster) bool { return c.members.Equals(other.members) }

func (c *Cluster) String() string {
	return fmt.Sprintf("cluster:%s(%d members)", c.id, c.Len())
}
