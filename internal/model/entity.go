// Package model defines the in-memory shapes — Entity, Relation,
// AttributeTuple, AttributeBucket — and their canonical serialization and
// hashing, which together fix relation identity for the index engine.
package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rfaulkner/databayes/internal/column"
)

// ItemCountKey is the reserved field name carrying a member count alongside
// a fields map in the wire format. It can never be a real field name.
const ItemCountKey = "_itemcount"

// FieldDef is a single (column-type, field-name) pair in an entity schema.
type FieldDef struct {
	Name string
	Type column.Type
}

// Entity is the schema for one side of a relation: a name plus an ordered
// sequence of typed fields. Field names must be unique within an entity.
type Entity struct {
	Name   string
	Fields []FieldDef
}

// HasField reports whether name is declared on e.
func (e *Entity) HasField(name string) bool {
	for _, f := range e.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// FieldType returns the declared type of name and whether it was found.
func (e *Entity) FieldType(name string) (column.Type, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return "", false
}

// entityWire is the wire-stable JSON shape for an entity: {"entity":"<name>",
// "fields":{"<f>":"<type>", ..., "_itemcount":N}}.
type entityWire struct {
	Entity string                 `json:"entity"`
	Fields map[string]interface{} `json:"fields"`
}

// ToJSON renders e in the canonical wire format. Field ordering within the
// "fields" map is whatever encoding/json's deterministic (sorted-key) map
// marshaling produces, so two calls over the same Entity always produce
// byte-identical output.
func (e *Entity) ToJSON() (string, error) {
	fields := make(map[string]interface{}, len(e.Fields)+1)
	for _, f := range e.Fields {
		fields[f.Name] = f.Type.Name()
	}
	fields[ItemCountKey] = len(e.Fields)
	b, err := json.Marshal(entityWire{Entity: e.Name, Fields: fields})
	if err != nil {
		return "", fmt.Errorf("model: marshal entity: %w", err)
	}
	return string(b), nil
}

// EntityFromJSON parses the wire format produced by ToJSON back into an
// Entity. Field order is reconstructed lexicographically by name, since the
// wire map itself carries no ordering.
func EntityFromJSON(s string) (*Entity, error) {
	var wire entityWire
	if err := json.Unmarshal([]byte(s), &wire); err != nil {
		return nil, fmt.Errorf("model: unmarshal entity: %w", err)
	}
	names := make([]string, 0, len(wire.Fields))
	for name := range wire.Fields {
		if name == ItemCountKey {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]FieldDef, 0, len(names))
	for _, name := range names {
		typeName, _ := wire.Fields[name].(string)
		typ, err := column.ParseType(typeName)
		if err != nil {
			return nil, fmt.Errorf("model: entity %q field %q: %w", wire.Entity, name, err)
		}
		fields = append(fields, FieldDef{Name: name, Type: typ})
	}
	return &Entity{Name: wire.Entity, Fields: fields}, nil
}
