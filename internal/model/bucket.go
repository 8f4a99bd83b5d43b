package model

import "github.com/rfaulkner/databayes/internal/column"

// AttributeTuple is a single filter criterion: an (entity, attribute, value,
// type) quadruple. Identity for bucketing purposes is entity+attribute —
// value is deliberately not part of the bucket key, since one key may hold
// several candidate values (see AttributeBucket).
type AttributeTuple struct {
	Entity    string
	Attribute string
	Value     string
	Type      column.Type
}

// bucketKey returns the md5 hex digest of entity+attribute — the identity
// used to group tuples in an AttributeBucket.
func bucketKey(entity, attribute string) string {
	return MD5Hex(entity + attribute)
}

// AttributeBucket maps a bucket key to every tuple sharing that
// (entity, attribute) pair. It is used both as a filter specification and as
// a general-purpose query context.
type AttributeBucket struct {
	tuples map[string][]AttributeTuple
}

// NewAttributeBucket returns an empty bucket ready for use.
func NewAttributeBucket() *AttributeBucket {
	return &AttributeBucket{tuples: make(map[string][]AttributeTuple)}
}

// Add appends t to the bucket under its (entity, attribute) key. Multiple
// tuples with the same key (different values) are preserved, not
// overwritten.
func (b *AttributeBucket) Add(t AttributeTuple) {
	key := bucketKey(t.Entity, t.Attribute)
	b.tuples[key] = append(b.tuples[key], t)
}

// Remove drops every tuple stored under (entity, attribute).
func (b *AttributeBucket) Remove(entity, attribute string) {
	delete(b.tuples, bucketKey(entity, attribute))
}

// Has reports whether the bucket holds any tuple for (entity, attribute).
func (b *AttributeBucket) Has(entity, attribute string) bool {
	_, ok := b.tuples[bucketKey(entity, attribute)]
	return ok
}

// Get returns every tuple stored for (entity, attribute), or nil if none.
func (b *AttributeBucket) Get(entity, attribute string) []AttributeTuple {
	return b.tuples[bucketKey(entity, attribute)]
}

// Each calls fn once per stored tuple, across all keys. Iteration order is
// unspecified.
func (b *AttributeBucket) Each(fn func(AttributeTuple)) {
	for _, group := range b.tuples {
		for _, t := range group {
			fn(t)
		}
	}
}

// Clear empties the bucket.
func (b *AttributeBucket) Clear() {
	b.tuples = make(map[string][]AttributeTuple)
}

// Empty reports whether the bucket holds no tuples at all.
func (b *AttributeBucket) Empty() bool {
	return len(b.tuples) == 0
}
