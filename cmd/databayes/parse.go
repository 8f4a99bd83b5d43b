package main

import (
	"fmt"
	"strings"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/model"
)

// parseFieldSpec parses "name:type" into a model.FieldDef, used by
// add-entity's field arguments.
func parseFieldSpec(spec string) (model.FieldDef, error) {
	name, typeName, ok := strings.Cut(spec, ":")
	if !ok {
		return model.FieldDef{}, fmt.Errorf("field spec %q must be name:type", spec)
	}
	typ, err := column.ParseType(typeName)
	if err != nil {
		return model.FieldDef{}, fmt.Errorf("field spec %q: %w", spec, err)
	}
	return model.FieldDef{Name: name, Type: typ}, nil
}

// parseAttrSpec parses "name=value:type" into a model.AttrValue and its
// column.Type, used by add-relation's --attr-left/--attr-right flags.
func parseAttrSpec(spec string) (model.AttrValue, column.Type, error) {
	nameValue, typeName, ok := strings.Cut(spec, ":")
	if !ok {
		return model.AttrValue{}, "", fmt.Errorf("attribute spec %q must be name=value:type", spec)
	}
	name, value, ok := strings.Cut(nameValue, "=")
	if !ok {
		return model.AttrValue{}, "", fmt.Errorf("attribute spec %q must be name=value:type", spec)
	}
	typ, err := column.ParseType(typeName)
	if err != nil {
		return model.AttrValue{}, "", fmt.Errorf("attribute spec %q: %w", spec, err)
	}
	return model.AttrValue{Name: name, Value: value}, typ, nil
}

// parseBucketSpec parses "entity.attribute=value:type" into a
// model.AttributeTuple, used by every query subcommand's --where flag.
func parseBucketSpec(spec string) (model.AttributeTuple, error) {
	entityAttr, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return model.AttributeTuple{}, fmt.Errorf("bucket spec %q must be entity.attribute=value:type", spec)
	}
	entity, attribute, ok := strings.Cut(entityAttr, ".")
	if !ok {
		return model.AttributeTuple{}, fmt.Errorf("bucket spec %q must be entity.attribute=value:type", spec)
	}
	value, typeName, ok := strings.Cut(rest, ":")
	if !ok {
		return model.AttributeTuple{}, fmt.Errorf("bucket spec %q must be entity.attribute=value:type", spec)
	}
	typ, err := column.ParseType(typeName)
	if err != nil {
		return model.AttributeTuple{}, fmt.Errorf("bucket spec %q: %w", spec, err)
	}
	return model.AttributeTuple{Entity: entity, Attribute: attribute, Value: value, Type: typ}, nil
}

// buildBucket parses every --where spec into an AttributeBucket. An empty
// specs slice produces an empty bucket, which the filter engine passes
// everything through unchanged.
func buildBucket(specs []string) (*model.AttributeBucket, error) {
	bucket := model.NewAttributeBucket()
	for _, spec := range specs {
		tuple, err := parseBucketSpec(spec)
		if err != nil {
			return nil, err
		}
		bucket.Add(tuple)
	}
	return bucket, nil
}

func attrsAndTypes(specs []string) ([]model.AttrValue, map[string]column.Type, error) {
	attrs := make([]model.AttrValue, 0, len(specs))
	types := make(map[string]column.Type, len(specs))
	for _, spec := range specs {
		attr, typ, err := parseAttrSpec(spec)
		if err != nil {
			return nil, nil, err
		}
		attrs = append(attrs, attr)
		types[attr.Name] = typ
	}
	return attrs, types, nil
}
