package index

import (
	"context"
	"fmt"

	"github.com/rfaulkner/databayes/internal/model"
)

// WriteRelation validates r and then either inserts it, when its key is not
// already stored, or merges into the existing entry by summing
// InstanceCount — two writes of fields that hash identically describe the
// same observation occurring again, not a conflict. Either way the global
// counter advances by r.InstanceCount and r.InstanceCount itself is updated
// in place to reflect the stored total.
func (idx *Index) WriteRelation(ctx context.Context, r *model.Relation) error {
	if !r.ValidCause() {
		return ErrInvalidCause
	}
	if err := validateRelationFields(r.AttrsLeft, r.TypesLeft); err != nil {
		return err
	}
	if err := validateRelationFields(r.AttrsRight, r.TypesRight); err != nil {
		return err
	}
	if r.InstanceCount <= 0 {
		r.InstanceCount = 1
	}

	key := r.Key()
	raw, ok, err := idx.fetchRaw(ctx, key)
	if err != nil {
		return err
	}

	delta := r.InstanceCount
	if ok {
		existing, err := model.RelationFromJSON(raw)
		if err != nil {
			return fmt.Errorf("index: decode existing relation %q: %w", key, err)
		}
		r.InstanceCount = existing.InstanceCount + delta
	}

	payload, err := r.ToJSON()
	if err != nil {
		return fmt.Errorf("index: encode relation %q: %w", key, err)
	}
	if err := idx.store.Set(ctx, key, payload); err != nil {
		idx.emitter.Error(fmt.Sprintf("index: write relation %q: %v", key, err), false)
		return fmt.Errorf("index: write relation %q: %w", key, err)
	}
	if _, err := idx.store.Incr(ctx, idx.counterKey, int64(delta)); err != nil {
		return fmt.Errorf("index: advance relation counter: %w", err)
	}
	return nil
}

// ExistsRelation reports whether a relation with r's identity fields is
// stored, independent of r.InstanceCount.
func (idx *Index) ExistsRelation(ctx context.Context, r *model.Relation) (bool, error) {
	ok, err := idx.store.Exists(ctx, r.Key())
	if err != nil {
		return false, fmt.Errorf("index: exists relation %q: %w", r.Key(), err)
	}
	return ok, nil
}

// RemoveRelation deletes the stored relation matching r's identity and
// retires its instance_count from the global counter, clamped at zero: a
// counter that would go negative is set to zero instead, with a Warning —
// the race between concurrent writers and removals is an accepted
// limitation, not solved at this layer.
func (idx *Index) RemoveRelation(ctx context.Context, r *model.Relation) (bool, error) {
	key := r.Key()
	raw, ok, err := idx.fetchRaw(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	stored, err := model.RelationFromJSON(raw)
	if err != nil {
		return false, fmt.Errorf("index: decode relation %q: %w", key, err)
	}

	if err := idx.store.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("index: remove relation %q: %w", key, err)
	}

	total, err := idx.GetRelationCountTotal(ctx)
	if err != nil {
		return false, err
	}
	next := total - stored.InstanceCount
	if next < 0 {
		idx.emitter.Warning(fmt.Sprintf("index: relation counter underflow removing %q, clamping to 0", key), false)
		next = 0
	}
	if err := idx.SetRelationCountTotal(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// FetchRelationPrefix returns every stored relation whose ordered key
// matches OrderPair(l, r) — a single glob in the direction that
// model.OrderPair settles on, grounded on the original index's
// fetchRelationPrefix. Callers that need both positions of a name, such as
// RemoveEntity's cascade, issue two calls with swapped arguments.
func (idx *Index) FetchRelationPrefix(ctx context.Context, l, r string) ([]*model.Relation, error) {
	pattern := model.RelationKeyPrefix(l, r) + "*"
	keys, err := idx.store.Keys(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("index: fetch relation prefix %q: %w", pattern, err)
	}

	relations := make([]*model.Relation, 0, len(keys))
	for _, k := range keys {
		raw, ok, err := idx.store.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("index: fetch relation %q: %w", k, err)
		}
		if !ok {
			continue // removed between Keys and Get
		}
		rel, err := model.RelationFromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("index: decode relation %q: %w", k, err)
		}
		relations = append(relations, rel)
	}
	return relations, nil
}
