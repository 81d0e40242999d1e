package qri_test

import (
	"context"
	"reflect"
	"testing"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/adapters/qri"
	fix "github.com/reoring/anyskema/internal/fixture/qri"
	js "github.com/reoring/anyskema/jsonschema"
)

func transform(t *testing.T, schema any) *js.Schema {
	t.Helper()
	frag, err := anyskema.NewTransformer(qri.New()).Transform(schema)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return frag
}

func TestMatch(t *testing.T) {
	a := qri.New()
	if !a.Match(fix.New(map[string]any{"type": fix.Type("string")})) {
		t.Fatalf("a qri schema must match")
	}
	for _, v := range []any{nil, 42, map[string]any{"type": "string"}, struct{}{}} {
		if a.Match(v) {
			t.Fatalf("Match(%#v) = true, want false", v)
		}
	}
}

func TestTransform_ObjectRequired(t *testing.T) {
	obj := fix.New(map[string]any{
		"type": fix.Type("object"),
		"properties": fix.Properties{
			"name": fix.New(map[string]any{"type": fix.Type("string")}),
			"age":  fix.New(map[string]any{"type": fix.Type("number")}),
		},
		"required": fix.Required{"name"},
	})
	frag := transform(t, obj)
	if frag.Properties["name"].Type != "string" || frag.Properties["age"].Type != "number" {
		t.Fatalf("properties = %+v", frag.Properties)
	}
	if !reflect.DeepEqual(frag.Required, []string{"name"}) {
		t.Fatalf("required = %v", frag.Required)
	}
}

// items holding a slice of schemas is a positional tuple; a single schema
// node is a homogeneous array.
func TestTransform_ItemsShapes(t *testing.T) {
	arr := fix.New(map[string]any{
		"type":  fix.Type("array"),
		"items": fix.New(map[string]any{"type": fix.Type("string")}),
	})
	frag := transform(t, arr)
	if frag.Items == nil || frag.Items.Type != "string" || len(frag.PrefixItems) != 0 {
		t.Fatalf("array fragment = %+v", frag)
	}

	tup := fix.New(map[string]any{
		"type": fix.Type("array"),
		"items": []*fix.Schema{
			fix.New(map[string]any{"type": fix.Type("string")}),
			fix.New(map[string]any{"type": fix.Type("integer")}),
		},
	})
	frag = transform(t, tup)
	if len(frag.PrefixItems) != 2 || frag.PrefixItems[1].Type != "integer" {
		t.Fatalf("tuple fragment = %+v", frag)
	}
}

func TestTransform_NamedKeywordConstraints(t *testing.T) {
	str := fix.New(map[string]any{
		"type":        fix.Type("string"),
		"minLength":   fix.MinLength(2),
		"maxLength":   fix.MaxLength(9),
		"pattern":     fix.Pattern("^[a-z]+$"),
		"format":      fix.Format("hostname"),
		"title":       fix.Title("Host"),
		"description": fix.Description("short name"),
	})
	frag := transform(t, str)
	if frag.MinLength == nil || *frag.MinLength != 2 || frag.MaxLength == nil || *frag.MaxLength != 9 {
		t.Fatalf("length bounds = %v/%v", frag.MinLength, frag.MaxLength)
	}
	if frag.Pattern != "^[a-z]+$" || frag.Format != "hostname" {
		t.Fatalf("pattern/format = %q/%q", frag.Pattern, frag.Format)
	}
	if frag.Title != "Host" || frag.Description != "short name" {
		t.Fatalf("metadata = %q/%q", frag.Title, frag.Description)
	}
}

func TestTransform_ConstWrappersUnbox(t *testing.T) {
	frag := transform(t, fix.New(map[string]any{"const": fix.Const{Value: "fixed"}}))
	if frag.Const != "fixed" {
		t.Fatalf("const = %v", frag.Const)
	}

	frag = transform(t, fix.New(map[string]any{"enum": fix.Enum{"a", "b"}}))
	if !reflect.DeepEqual(frag.Enum, []any{"a", "b"}) {
		t.Fatalf("enum = %v", frag.Enum)
	}

	frag = transform(t, fix.New(map[string]any{
		"type":    fix.Type("string"),
		"default": fix.Default{Value: "n/a"},
	}))
	if frag.Default != "n/a" {
		t.Fatalf("default = %v", frag.Default)
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	v := anyskema.NewValidator(qri.New())
	obj := fix.New(map[string]any{
		"type": fix.Type("object"),
		"properties": fix.Properties{
			"name": fix.New(map[string]any{"type": fix.Type("string")}),
		},
		"required": fix.Required{"name"},
	})

	if r := v.Validate(ctx, obj, map[string]any{"name": "x"}); !r.Success {
		t.Fatalf("Validate = %+v", r)
	}
	r := v.Validate(ctx, obj, map[string]any{"name": 7})
	if r.Success || len(r.Issues) == 0 {
		t.Fatalf("bad property must fail: %+v", r)
	}
	if r.Issues[0].Pointer() != "/name" {
		t.Fatalf("issue path = %q, want /name", r.Issues[0].Pointer())
	}
}
