// Package filter implements the Filter Engine (§4.5): sieving a set of
// relations against an AttributeBucket under a single comparator.
package filter

import (
	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/model"
)

// Apply returns the subset of relations that survive bucket under cmp. A
// relation survives iff, for every tuple in bucket whose (entity,attribute)
// names one of the relation's sides, the relation's value there stands in
// the cmp relation to the tuple's value under the column package's
// comparability rule. A tuple whose (entity,attribute) the relation doesn't
// carry simply does not apply — it neither passes nor disqualifies. An
// empty bucket passes every relation through unchanged.
func Apply(relations []*model.Relation, bucket *model.AttributeBucket, cmp column.Comparator) []*model.Relation {
	if bucket == nil || bucket.Empty() {
		return relations
	}

	out := make([]*model.Relation, 0, len(relations))
	for _, r := range relations {
		if survives(r, bucket, cmp) {
			out = append(out, r)
		}
	}
	return out
}

func survives(r *model.Relation, bucket *model.AttributeBucket, cmp column.Comparator) bool {
	ok := true
	bucket.Each(func(t model.AttributeTuple) {
		if !ok {
			return
		}
		value, typ, applies := r.ValueFor(t.Entity, t.Attribute)
		if !applies {
			return
		}
		c, comparable := column.Compare(value, typ, t.Value, t.Type)
		if !comparable || !cmp.Satisfies(c) {
			ok = false
		}
	})
	return ok
}
