package model

// sep is the reserved key-segment delimiter. It appears in every composite
// storage key and must never appear inside an entity or relation name that
// participates in key generation.
const sep = "+"

const (
	entityKeyPrefix   = "ent"
	relationKeyPrefix = "rel"
)

// TotalRelationsKey is the reserved key holding the global relation counter.
const TotalRelationsKey = "total_relations"

// EntityKey returns the storage key for the entity named name.
func EntityKey(name string) string {
	return entityKeyPrefix + sep + name
}

// RelationKeyPrefix returns the storage-key prefix enumerating every
// relation stored under OrderPair(l, r), without the trailing hash segment.
// For two alphanumeric names that covers both written directions; otherwise
// only relations written as (l, r) match. Either side may be the literal "*"
// wildcard.
func RelationKeyPrefix(l, r string) string {
	return relationKeyPrefix + sep + OrderPair(l, r) + sep
}

// RelationKeyGlobAll returns a glob pattern matching every stored relation
// key, regardless of the entities involved — used by
// RecomputeRelationCountTotal to rebuild the global counter from scratch.
func RelationKeyGlobAll() string {
	return relationKeyPrefix + sep + "*"
}
