// Package bayes implements the Bayesian Engine (§4.6): counting primitives,
// marginal/pairwise/conditional probabilities, and weighted sampling built
// on top of the Index Engine's prefix fetch and the Filter Engine's sieve.
package bayes

import (
	"context"
	"fmt"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/emit"
	"github.com/rfaulkner/databayes/internal/filter"
	"github.com/rfaulkner/databayes/internal/model"
)

// indexer is the slice of the Index Engine the Bayesian Engine depends on.
// It is declared locally rather than imported as a concrete type so bayes
// never needs to know about the store adapter underneath it.
type indexer interface {
	FetchRelationPrefix(ctx context.Context, l, r string) ([]*model.Relation, error)
	GetRelationCountTotal(ctx context.Context) (int, error)
}

// RNG is the injected randomness source behind every sampler, letting tests
// pin a deterministic sequence instead of reaching for math/rand globally.
type RNG interface {
	// IntN returns a pseudo-random integer in [0, n). n is always > 0.
	IntN(n int) int
}

// Engine is the Bayesian Engine. Like the Index and Filter engines it holds
// no state beyond its explicit dependencies.
type Engine struct {
	index   indexer
	rng     RNG
	emitter *emit.Emitter
}

// New returns a Bayesian Engine reading through idx, drawing randomness
// from rng, and reporting through e.
func New(idx indexer, rng RNG, e *emit.Emitter) *Engine {
	return &Engine{index: idx, rng: rng, emitter: e}
}

// CountRelations sums instance_count over every relation between e1 and e2
// that survives bucket.
func (b *Engine) CountRelations(ctx context.Context, e1, e2 string, bucket *model.AttributeBucket, cmp column.Comparator) (int, error) {
	rels, err := b.index.FetchRelationPrefix(ctx, e1, e2)
	if err != nil {
		return 0, fmt.Errorf("bayes: count relations %s/%s: %w", e1, e2, err)
	}
	return sumInstances(filter.Apply(rels, bucket, cmp)), nil
}

// CountEntityInRelations sums instance_count over every relation touching e
// (on either side) that survives bucket. When causal is true, only
// relations whose cause equals e contribute.
func (b *Engine) CountEntityInRelations(ctx context.Context, e string, bucket *model.AttributeBucket, cmp column.Comparator, causal bool) (int, error) {
	rels, err := b.fetchAllSides(ctx, e)
	if err != nil {
		return 0, err
	}
	if causal {
		rels = onlyCausedBy(rels, e)
	}
	return sumInstances(filter.Apply(rels, bucket, cmp)), nil
}

// fetchAllSides returns the union of relations with e on the left and on
// the right, deduplicated by relation key — the same two-call pattern the
// Index Engine's RemoveEntity cascade uses.
func (b *Engine) fetchAllSides(ctx context.Context, e string) ([]*model.Relation, error) {
	left, err := b.index.FetchRelationPrefix(ctx, e, "*")
	if err != nil {
		return nil, fmt.Errorf("bayes: fetch relations for %s: %w", e, err)
	}
	right, err := b.index.FetchRelationPrefix(ctx, "*", e)
	if err != nil {
		return nil, fmt.Errorf("bayes: fetch relations for %s: %w", e, err)
	}

	seen := make(map[string]bool, len(left)+len(right))
	out := make([]*model.Relation, 0, len(left)+len(right))
	for _, group := range [][]*model.Relation{left, right} {
		for _, r := range group {
			key := r.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, r)
		}
	}
	return out, nil
}

func onlyCausedBy(rels []*model.Relation, cause string) []*model.Relation {
	out := make([]*model.Relation, 0, len(rels))
	for _, r := range rels {
		if r.Cause == cause {
			out = append(out, r)
		}
	}
	return out
}

func sumInstances(rels []*model.Relation) int {
	total := 0
	for _, r := range rels {
		total += r.InstanceCount
	}
	return total
}
