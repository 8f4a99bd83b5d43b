package filter

import (
	"testing"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/model"
)

func rel(a string, b string) *model.Relation {
	return &model.Relation{
		Left:  "_x",
		Right: "_y",
		Cause: "_x",
		AttrsLeft: []model.AttrValue{
			{Name: "a", Value: a},
		},
		AttrsRight: []model.AttrValue{
			{Name: "b", Value: b},
		},
		TypesLeft:  map[string]column.Type{"a": column.Integer},
		TypesRight: map[string]column.Type{"b": column.String},
		InstanceCount: 1,
	}
}

func bucketOf(tuples ...model.AttributeTuple) *model.AttributeBucket {
	b := model.NewAttributeBucket()
	for _, t := range tuples {
		b.Add(t)
	}
	return b
}

// TestFilterEqualityOnOneField reproduces scenario 3 from the spec: two
// relations between _x,_y — one a=1,b="hello", one a=1,b="goodbye".
func TestFilterEqualityOnOneField(t *testing.T) {
	relations := []*model.Relation{rel("1", "hello"), rel("1", "goodbye")}

	both := Apply(relations, bucketOf(model.AttributeTuple{Entity: "_x", Attribute: "a", Value: "1", Type: column.Integer}), column.Eq)
	if len(both) != 2 {
		t.Fatalf("bucket {(_x,a)=1} with = : got %d, want 2", len(both))
	}

	none := Apply(relations, bucketOf(model.AttributeTuple{Entity: "_x", Attribute: "a", Value: "0", Type: column.Integer}), column.Eq)
	if len(none) != 0 {
		t.Fatalf("bucket {(_x,a)=0} with = : got %d, want 0", len(none))
	}

	one := Apply(relations, bucketOf(
		model.AttributeTuple{Entity: "_y", Attribute: "b", Value: "hello", Type: column.String},
		model.AttributeTuple{Entity: "_x", Attribute: "a", Value: "1", Type: column.Integer},
	), column.Eq)
	if len(one) != 1 {
		t.Fatalf("bucket {(_y,b)=hello,(_x,a)=1} with = : got %d, want 1", len(one))
	}
}

func relNumeric(a string, b string) *model.Relation {
	return &model.Relation{
		Left:  "_x",
		Right: "_y",
		Cause: "_x",
		AttrsLeft: []model.AttrValue{
			{Name: "a", Value: a},
		},
		AttrsRight: []model.AttrValue{
			{Name: "b", Value: b},
		},
		TypesLeft:     map[string]column.Type{"a": column.Integer},
		TypesRight:    map[string]column.Type{"b": column.Float},
		InstanceCount: 1,
	}
}

// TestFilterNumericCoercion reproduces scenario 4: integer a in {1,11},
// float b in {2.0,12.0}.
func TestFilterNumericCoercion(t *testing.T) {
	relations := []*model.Relation{relNumeric("1", "2.0"), relNumeric("11", "12.0")}

	aGt5 := Apply(relations, bucketOf(model.AttributeTuple{Entity: "_x", Attribute: "a", Value: "5", Type: column.Integer}), column.Gt)
	if len(aGt5) != 1 || aGt5[0].AttrsLeft[0].Value != "11" {
		t.Fatalf("(_x,a)>5: got %v, want exactly a=11", aGt5)
	}

	bGt5 := Apply(relations, bucketOf(model.AttributeTuple{Entity: "_y", Attribute: "b", Value: "5.0", Type: column.Float}), column.Gt)
	if len(bGt5) != 1 || bGt5[0].AttrsRight[0].Value != "12.0" {
		t.Fatalf("(_y,b)>5.0: got %v, want exactly b=12.0", bGt5)
	}

	aGte1 := Apply(relations, bucketOf(model.AttributeTuple{Entity: "_x", Attribute: "a", Value: "1", Type: column.Integer}), column.Gte)
	if len(aGte1) != 2 {
		t.Fatalf("(_x,a)>=1: got %d, want 2", len(aGte1))
	}
}

func TestEmptyBucketPassesEverything(t *testing.T) {
	relations := []*model.Relation{rel("1", "hello"), rel("2", "goodbye")}
	got := Apply(relations, model.NewAttributeBucket(), column.Eq)
	if len(got) != len(relations) {
		t.Fatalf("empty bucket: got %d, want %d", len(got), len(relations))
	}
	if Apply(relations, nil, column.Eq) == nil {
		t.Fatal("nil bucket should also pass everything through, not return nil")
	}
}

func TestMismatchedStringNumericDisqualifies(t *testing.T) {
	relations := []*model.Relation{rel("1", "hello")}
	got := Apply(relations, bucketOf(model.AttributeTuple{Entity: "_y", Attribute: "b", Value: "1", Type: column.Integer}), column.Eq)
	if len(got) != 0 {
		t.Fatalf("string field compared to integer bucket value should disqualify, got %d survivors", len(got))
	}
}

func TestTupleNotReferencedByRelationDoesNotDisqualify(t *testing.T) {
	relations := []*model.Relation{rel("1", "hello")}
	got := Apply(relations, bucketOf(model.AttributeTuple{Entity: "_z", Attribute: "c", Value: "anything", Type: column.String}), column.Eq)
	if len(got) != 1 {
		t.Fatalf("tuple on an unrelated entity should not disqualify, got %d survivors", len(got))
	}
}
