package model

import (
	"testing"

	"github.com/rfaulkner/databayes/internal/column"
)

func TestEntityJSONRoundTrip(t *testing.T) {
	e := &Entity{
		Name: "_x",
		Fields: []FieldDef{
			{Name: "age", Type: column.Integer},
			{Name: "label", Type: column.String},
		},
	}
	s, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := EntityFromJSON(s)
	if err != nil {
		t.Fatalf("EntityFromJSON: %v", err)
	}
	if got.Name != e.Name {
		t.Errorf("name mismatch: got %q, want %q", got.Name, e.Name)
	}
	if len(got.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(got.Fields))
	}
	typ, ok := got.FieldType("age")
	if !ok || typ != column.Integer {
		t.Errorf("age field: got (%v, %v), want (integer, true)", typ, ok)
	}
}

func TestEntityEmptySchema(t *testing.T) {
	e := &Entity{Name: "_w"}
	s, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := EntityFromJSON(s)
	if err != nil {
		t.Fatalf("EntityFromJSON: %v", err)
	}
	if len(got.Fields) != 0 {
		t.Errorf("expected no fields, got %v", got.Fields)
	}
}

func TestEntityUnknownTypeRejected(t *testing.T) {
	_, err := EntityFromJSON(`{"entity":"_x","fields":{"a":"decimal","_itemcount":1}}`)
	if err == nil {
		t.Fatal("expected error decoding unknown column type")
	}
}
