package gojsonschema_test

import (
	"context"
	"testing"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/adapters/gojsonschema"
	fix "github.com/reoring/anyskema/internal/fixture/gojsonschema"
)

func TestMatch(t *testing.T) {
	a := gojsonschema.New()
	if !a.Match(fix.NewSchema(map[string]any{"type": "string"})) {
		t.Fatalf("a compiled gojsonschema schema must match")
	}
	for _, v := range []any{nil, 42, map[string]any{"type": "string"}, struct{}{}} {
		if a.Match(v) {
			t.Fatalf("Match(%#v) = true, want false", v)
		}
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	v := anyskema.NewValidator(gojsonschema.New())
	schema := fix.NewSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []any{"name"},
	})

	if r := v.Validate(ctx, schema, map[string]any{"name": "x"}); !r.Success {
		t.Fatalf("Validate = %+v", r)
	}

	r := v.Validate(ctx, schema, map[string]any{"name": 7})
	if r.Success || len(r.Issues) == 0 {
		t.Fatalf("bad property must fail: %+v", r)
	}
	if r.Issues[0].Message == "" {
		t.Fatalf("issue must carry the native description: %+v", r.Issues[0])
	}
}

// This adapter validates only: the schema's introspection surface is opaque,
// so conversion degrades to the permissive fragment rather than failing.
func TestTransform_DegradesToPermissive(t *testing.T) {
	schema := fix.NewSchema(map[string]any{"type": "string"})
	frag, err := anyskema.NewTransformer(gojsonschema.New()).Transform(schema)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !frag.IsEmpty() {
		t.Fatalf("fragment = %+v, want {}", frag)
	}
}
