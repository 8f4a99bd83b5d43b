package index

import (
	"context"
	"fmt"

	"github.com/rfaulkner/databayes/internal/model"
)

// WriteEntity overwrites the stored schema for e.Name. It does not touch
// any relation referencing that name.
func (idx *Index) WriteEntity(ctx context.Context, e *model.Entity) error {
	seen := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		if seen[f.Name] {
			return fmt.Errorf("index: entity %q: duplicate field name %q", e.Name, f.Name)
		}
		seen[f.Name] = true
	}
	payload, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("index: encode entity %q: %w", e.Name, err)
	}
	if err := idx.store.Set(ctx, model.EntityKey(e.Name), payload); err != nil {
		idx.emitter.Error(fmt.Sprintf("index: write entity %q: %v", e.Name, err), false)
		return fmt.Errorf("index: write entity %q: %w", e.Name, err)
	}
	return nil
}

// ExistsEntity reports whether an entity named name is stored.
func (idx *Index) ExistsEntity(ctx context.Context, name string) (bool, error) {
	ok, err := idx.store.Exists(ctx, model.EntityKey(name))
	if err != nil {
		return false, fmt.Errorf("index: exists entity %q: %w", name, err)
	}
	return ok, nil
}

// ExistsEntityField reports whether field is declared on the entity named
// name, independent of the entity's existence check. A missing entity
// reports false, not an error — this mirrors the original index's
// existsEntityField helper.
func (idx *Index) ExistsEntityField(ctx context.Context, name, field string) (bool, error) {
	e, ok, err := idx.FetchEntity(ctx, name)
	if err != nil || !ok {
		return false, err
	}
	return e.HasField(field), nil
}

// FetchEntity returns the stored entity named name. ok is false when no
// such entity is stored — that is not an error.
func (idx *Index) FetchEntity(ctx context.Context, name string) (*model.Entity, bool, error) {
	raw, ok, err := idx.store.Get(ctx, model.EntityKey(name))
	if err != nil {
		return nil, false, fmt.Errorf("index: fetch entity %q: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}
	e, err := model.EntityFromJSON(raw)
	if err != nil {
		return nil, false, fmt.Errorf("index: decode entity %q: %w", name, err)
	}
	return e, true, nil
}

// RemoveEntity deletes the entity named name and cascades: every relation
// with left == name or right == name is removed too, each decrementing the
// global counter by its own instance_count. Removing a missing entity
// returns (false, nil) with no side effects.
func (idx *Index) RemoveEntity(ctx context.Context, name string) (bool, error) {
	exists, err := idx.ExistsEntity(ctx, name)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := idx.store.Delete(ctx, model.EntityKey(name)); err != nil {
		return false, fmt.Errorf("index: remove entity %q: %w", name, err)
	}

	left, err := idx.FetchRelationPrefix(ctx, name, "*")
	if err != nil {
		return false, err
	}
	right, err := idx.FetchRelationPrefix(ctx, "*", name)
	if err != nil {
		return false, err
	}

	seen := make(map[string]bool, len(left)+len(right))
	for _, group := range [][]*model.Relation{left, right} {
		for _, r := range group {
			key := r.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			if _, err := idx.RemoveRelation(ctx, r); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}
