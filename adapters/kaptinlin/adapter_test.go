package kaptinlin_test

import (
	"context"
	"reflect"
	"testing"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/adapters/kaptinlin"
	fix "github.com/reoring/anyskema/internal/fixture/kaptinlin"
	v5fix "github.com/reoring/anyskema/internal/fixture/santhoshv5"
	js "github.com/reoring/anyskema/jsonschema"
)

func transform(t *testing.T, schema any) *js.Schema {
	t.Helper()
	frag, err := anyskema.NewTransformer(kaptinlin.New()).Transform(schema)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return frag
}

func TestMatch(t *testing.T) {
	a := kaptinlin.New()
	if !a.Match(&fix.Schema{Type: "string"}) {
		t.Fatalf("a kaptinlin schema must match")
	}
	if !a.Match(&fix.Schema{}) {
		t.Fatalf("an unconstrained schema must still match")
	}

	// A compiled schema carrying a Location belongs to the santhosh-tekuri
	// adapters.
	v5 := v5fix.New("file:///schema.json#")
	v5.Types = []string{"string"}
	if a.Match(v5) {
		t.Fatalf("a Location-bearing schema must not match")
	}

	for _, v := range []any{nil, 42, map[string]any{"type": "string"}} {
		if a.Match(v) {
			t.Fatalf("Match(%#v) = true, want false", v)
		}
	}
}

func TestTransform_ObjectRequired(t *testing.T) {
	obj := &fix.Schema{
		Type: "object",
		Properties: map[string]*fix.Schema{
			"name": {Type: "string"},
			"age":  {Type: "number"},
		},
		Required: []string{"name"},
	}
	frag := transform(t, obj)
	if frag.Properties["name"].Type != "string" || frag.Properties["age"].Type != "number" {
		t.Fatalf("properties = %+v", frag.Properties)
	}
	if !reflect.DeepEqual(frag.Required, []string{"name"}) {
		t.Fatalf("required = %v", frag.Required)
	}
}

func TestTransform_ConstraintsAndMetadata(t *testing.T) {
	str := &fix.Schema{
		Type:        "string",
		MinLength:   fix.Ptr(2.0),
		MaxLength:   fix.Ptr(6.0),
		Pattern:     fix.Ptr("^[a-z]+$"),
		Format:      fix.Ptr("hostname"),
		Title:       fix.Ptr("Host"),
		Description: fix.Ptr("short name"),
	}
	frag := transform(t, str)
	if frag.MinLength == nil || *frag.MinLength != 2 || frag.MaxLength == nil || *frag.MaxLength != 6 {
		t.Fatalf("length bounds = %v/%v", frag.MinLength, frag.MaxLength)
	}
	if frag.Pattern != "^[a-z]+$" || frag.Format != "hostname" {
		t.Fatalf("pattern/format = %q/%q", frag.Pattern, frag.Format)
	}
	if frag.Title != "Host" || frag.Description != "short name" {
		t.Fatalf("metadata = %q/%q", frag.Title, frag.Description)
	}
}

func TestTransform_ConstEnumTuple(t *testing.T) {
	frag := transform(t, &fix.Schema{Const: fix.Ptr[any]("fixed")})
	if frag.Const != "fixed" {
		t.Fatalf("const = %v", frag.Const)
	}

	frag = transform(t, &fix.Schema{Enum: []any{"a", "b"}})
	if !reflect.DeepEqual(frag.Enum, []any{"a", "b"}) {
		t.Fatalf("enum = %v", frag.Enum)
	}

	frag = transform(t, &fix.Schema{
		Type:        "array",
		PrefixItems: []*fix.Schema{{Type: "string"}, {Type: "integer"}},
	})
	if len(frag.PrefixItems) != 2 || frag.PrefixItems[1].Type != "integer" {
		t.Fatalf("tuple fragment = %+v", frag)
	}
}

func TestTransform_ResolvedRefCycle(t *testing.T) {
	nodeSchema := &fix.Schema{Type: "object"}
	ref := &fix.Schema{ResolvedRef: nodeSchema}
	nodeSchema.Properties = map[string]*fix.Schema{
		"value": {Type: "string"},
		"next":  ref,
	}

	frag := transform(t, nodeSchema)
	if len(frag.Defs) != 1 {
		t.Fatalf("$defs entries = %d, want 1", len(frag.Defs))
	}
	var name string
	for k := range frag.Defs {
		name = k
	}
	if frag.Properties["next"].Ref != "#/$defs/"+name {
		t.Fatalf("next = %+v", frag.Properties["next"])
	}
	// next is an optional property; the cycle must still terminate in a $ref.
	if len(frag.Required) != 0 {
		t.Fatalf("required = %v, want none", frag.Required)
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	v := anyskema.NewValidator(kaptinlin.New())
	obj := &fix.Schema{
		Type:       "object",
		Properties: map[string]*fix.Schema{"name": {Type: "string"}},
		Required:   []string{"name"},
	}

	if r := v.Validate(ctx, obj, map[string]any{"name": "x"}); !r.Success {
		t.Fatalf("Validate = %+v", r)
	}
	r := v.Validate(ctx, obj, map[string]any{"name": 9})
	if r.Success || len(r.Issues) == 0 {
		t.Fatalf("bad property must fail: %+v", r)
	}
}
