// Package index implements the Index Engine (§4.4): encoding and decoding
// of entities and relations through the Store Adapter, prefix enumeration,
// the global relation counter, and cascading entity deletion.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/emit"
	"github.com/rfaulkner/databayes/internal/model"
	"github.com/rfaulkner/databayes/internal/store"
)

// ErrInvalidCause is returned by WriteRelation when a relation's cause is
// neither its left nor its right entity.
var ErrInvalidCause = errors.New("index: cause must equal left or right entity")

// ErrInvalidFieldValue is returned by WriteRelation when an attribute value
// fails validation under its declared column type, or when a field carries
// no declared type at all.
var ErrInvalidFieldValue = errors.New("index: invalid field value")

// Index is the Index Engine. It holds no state of its own beyond its Store
// Adapter and Emitter — both explicit dependencies, per §9's
// no-global-state design note.
type Index struct {
	store      store.Store
	emitter    *emit.Emitter
	counterKey string
}

// Option configures New.
type Option func(*Index)

// WithCounterKey overrides the reserved key holding the global relation
// counter. Defaults to model.TotalRelationsKey ("total_relations").
func WithCounterKey(key string) Option {
	return func(idx *Index) { idx.counterKey = key }
}

// New returns an Index Engine over s, reporting through e.
func New(s store.Store, e *emit.Emitter, opts ...Option) *Index {
	idx := &Index{store: s, emitter: e, counterKey: model.TotalRelationsKey}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// fetchRaw returns the undecoded JSON string stored at key, grounded on the
// original C++ IndexHandler::fetchRaw — used internally by RemoveRelation
// to recover the stored instance_count before decrementing the counter.
func (idx *Index) fetchRaw(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := idx.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("index: fetch %q: %w", key, err)
	}
	return raw, ok, nil
}

func validateRelationFields(attrs []model.AttrValue, types map[string]column.Type) error {
	for _, a := range attrs {
		t, ok := types[a.Name]
		if !ok {
			return fmt.Errorf("%w: field %q has no declared type", ErrInvalidFieldValue, a.Name)
		}
		if !t.Validate(a.Value) {
			return fmt.Errorf("%w: %q=%q is not a valid %s", ErrInvalidFieldValue, a.Name, a.Value, t.Name())
		}
	}
	return nil
}
