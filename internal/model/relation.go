package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/rfaulkner/databayes/internal/column"
)

// AttrValue is a single field-name/value-string pair on one side of a
// relation.
type AttrValue struct {
	Name  string
	Value string
}

// Relation is a directed, typed association between two entities: attribute
// assignments on each side, a designated causal endpoint, and an observation
// multiplicity.
type Relation struct {
	Left  string
	Right string

	AttrsLeft  []AttrValue
	AttrsRight []AttrValue

	TypesLeft  map[string]column.Type
	TypesRight map[string]column.Type

	Cause string

	InstanceCount int
}

// ValidCause reports whether r.Cause is one of r.Left or r.Right, per the
// invariant in §3.
func (r *Relation) ValidCause() bool {
	return r.Cause == r.Left || r.Cause == r.Right
}

// canonicalFields concatenates left + right + cause, then for each side the
// field names (sorted lexicographically) followed by their values. This is
// the hash preimage that fixes relation identity; it intentionally excludes
// per-field type tags, which belong to the wire format but not to identity.
func (r *Relation) canonicalFields() string {
	out := r.Left + r.Right + r.Cause
	out += concatSorted(r.AttrsLeft)
	out += concatSorted(r.AttrsRight)
	return out
}

func concatSorted(attrs []AttrValue) string {
	sorted := make([]AttrValue, len(attrs))
	copy(sorted, attrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	out := ""
	for _, a := range sorted {
		out += a.Name + a.Value
	}
	return out
}

// Hash returns the md5 hex digest of r's canonical field encoding — the
// final segment of its storage key.
func (r *Relation) Hash() string {
	return MD5Hex(r.canonicalFields())
}

// Key returns r's storage key: "rel" + SEP + order_pair(left,right) + SEP +
// md5(canonical_fields).
func (r *Relation) Key() string {
	return relationKeyPrefix + sep + OrderPair(r.Left, r.Right) + sep + r.Hash()
}

// relationWire is the wire-stable JSON shape for a relation (§6).
type relationWire struct {
	EntityLeft    string            `json:"entity_left"`
	EntityRight   string            `json:"entity_right"`
	FieldsLeft    map[string]string `json:"fields_left"`
	FieldsRight   map[string]string `json:"fields_right"`
	Cause         string            `json:"cause"`
	InstanceCount int               `json:"instance_count"`
}

func buildFieldsWire(attrs []AttrValue, types map[string]column.Type) map[string]string {
	out := make(map[string]string, len(attrs)*2+1)
	for _, a := range attrs {
		out[a.Name] = a.Value
		if t, ok := types[a.Name]; ok {
			out["#"+a.Name] = t.Name()
		}
	}
	out[ItemCountKey] = fmt.Sprintf("%d", len(attrs))
	return out
}

// ToJSON renders r in the canonical wire format described in §6. The
// "#"-prefix carries each field's type alongside its value in the same flat
// map; this prefix is part of the wire format and is preserved on
// round-trip.
func (r *Relation) ToJSON() (string, error) {
	wire := relationWire{
		EntityLeft:    r.Left,
		EntityRight:   r.Right,
		FieldsLeft:    buildFieldsWire(r.AttrsLeft, r.TypesLeft),
		FieldsRight:   buildFieldsWire(r.AttrsRight, r.TypesRight),
		Cause:         r.Cause,
		InstanceCount: r.InstanceCount,
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("model: marshal relation: %w", err)
	}
	return string(b), nil
}

func parseFieldsWire(fields map[string]string) ([]AttrValue, map[string]column.Type, error) {
	names := make([]string, 0, len(fields))
	for k := range fields {
		if k == ItemCountKey || k[0] == '#' {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	attrs := make([]AttrValue, 0, len(names))
	types := make(map[string]column.Type, len(names))
	for _, name := range names {
		attrs = append(attrs, AttrValue{Name: name, Value: fields[name]})
		if typeName, ok := fields["#"+name]; ok {
			t, err := column.ParseType(typeName)
			if err != nil {
				return nil, nil, fmt.Errorf("model: field %q: %w", name, err)
			}
			types[name] = t
		}
	}
	return attrs, types, nil
}

// RelationFromJSON parses the wire format produced by ToJSON back into a
// Relation.
func RelationFromJSON(s string) (*Relation, error) {
	var wire relationWire
	if err := json.Unmarshal([]byte(s), &wire); err != nil {
		return nil, fmt.Errorf("model: unmarshal relation: %w", err)
	}
	attrsLeft, typesLeft, err := parseFieldsWire(wire.FieldsLeft)
	if err != nil {
		return nil, err
	}
	attrsRight, typesRight, err := parseFieldsWire(wire.FieldsRight)
	if err != nil {
		return nil, err
	}
	return &Relation{
		Left:          wire.EntityLeft,
		Right:         wire.EntityRight,
		AttrsLeft:     attrsLeft,
		AttrsRight:    attrsRight,
		TypesLeft:     typesLeft,
		TypesRight:    typesRight,
		Cause:         wire.Cause,
		InstanceCount: wire.InstanceCount,
	}, nil
}

// ValueFor returns the stored value and type for attribute on whichever
// side of r is named entity. ok is false when entity names neither side of
// r, or when attribute is not assigned on that side — in both cases the
// tuple simply does not apply to r.
func (r *Relation) ValueFor(entity, attribute string) (value string, typ column.Type, ok bool) {
	var attrs []AttrValue
	var types map[string]column.Type
	switch entity {
	case r.Left:
		attrs, types = r.AttrsLeft, r.TypesLeft
	case r.Right:
		attrs, types = r.AttrsRight, r.TypesRight
	default:
		return "", "", false
	}
	for _, a := range attrs {
		if a.Name == attribute {
			return a.Value, types[attribute], true
		}
	}
	return "", "", false
}

// ParseInstanceCount is a small helper for backends that store the counter
// as a decimal string (see §6); it never returns an error for a
// well-formed non-negative integer.
func ParseInstanceCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("model: parse instance_count %q: %w", s, err)
	}
	return n, nil
}
