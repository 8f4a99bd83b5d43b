package index

import (
	"context"
	"fmt"

	"github.com/rfaulkner/databayes/internal/model"
)

// GetRelationCountTotal returns the global relation counter T, used by the
// Bayesian Engine as the denominator of every marginal and pairwise
// probability. An absent counter reads as 0, not an error.
func (idx *Index) GetRelationCountTotal(ctx context.Context) (int, error) {
	raw, ok, err := idx.store.Get(ctx, idx.counterKey)
	if err != nil {
		return 0, fmt.Errorf("index: get relation counter: %w", err)
	}
	if !ok {
		return 0, nil
	}
	n, err := model.ParseInstanceCount(raw)
	if err != nil {
		return 0, fmt.Errorf("index: relation counter %q is corrupt: %w", raw, err)
	}
	return n, nil
}

// SetRelationCountTotal overwrites the global relation counter. It is not
// atomic against concurrent Incr/Decr on the same key — callers that need
// that guarantee use the Store Adapter's Incr/Decr directly instead.
func (idx *Index) SetRelationCountTotal(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("index: relation counter cannot be negative, got %d", n)
	}
	if err := idx.store.Set(ctx, idx.counterKey, fmt.Sprintf("%d", n)); err != nil {
		return fmt.Errorf("index: set relation counter: %w", err)
	}
	return nil
}

// ComputeRelationsCount returns the sum of instance_count across every
// stored relation in the (l, r) prefix, without touching the global
// counter — a pure read, ported from the original IndexHandler's
// computeRelationsCount(left_entity, right_entity).
func (idx *Index) ComputeRelationsCount(ctx context.Context, l, r string) (int, error) {
	relations, err := idx.FetchRelationPrefix(ctx, l, r)
	if err != nil {
		return 0, fmt.Errorf("index: compute relations count %q/%q: %w", l, r, err)
	}
	total := 0
	for _, rel := range relations {
		total += rel.InstanceCount
	}
	return total, nil
}

// RecomputeRelationCountTotal rebuilds the global counter from scratch by
// summing instance_count across every stored relation and persisting the
// result. It is a repair tool for when the incrementally-maintained counter
// is suspected to have drifted — not something the normal write/remove flow
// calls, and distinct from ComputeRelationsCount, which neither scans every
// relation nor mutates the store.
func (idx *Index) RecomputeRelationCountTotal(ctx context.Context) (int, error) {
	keys, err := idx.store.Keys(ctx, model.RelationKeyGlobAll())
	if err != nil {
		return 0, fmt.Errorf("index: enumerate relations: %w", err)
	}

	total := 0
	for _, k := range keys {
		raw, ok, err := idx.store.Get(ctx, k)
		if err != nil {
			return 0, fmt.Errorf("index: fetch relation %q: %w", k, err)
		}
		if !ok {
			continue
		}
		rel, err := model.RelationFromJSON(raw)
		if err != nil {
			return 0, fmt.Errorf("index: decode relation %q: %w", k, err)
		}
		total += rel.InstanceCount
	}

	if err := idx.SetRelationCountTotal(ctx, total); err != nil {
		return 0, err
	}
	return total, nil
}
