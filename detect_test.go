package anyskema_test

import (
	"context"
	"testing"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/adapters/gozod"
	"github.com/reoring/anyskema/adapters/ozzo"
	"github.com/reoring/anyskema/adapters/rawschema"
	gozodfix "github.com/reoring/anyskema/internal/fixture/gozod"
)

// markedSchema opts in to the first-party protocol.
type markedSchema struct{}

func (markedSchema) AnySchema() anyskema.SchemaInfo {
	return anyskema.SchemaInfo{
		Version: 1,
		Vendor:  "marked",
		Validate: func(ctx context.Context, data any) anyskema.Result {
			return anyskema.OK(data)
		},
	}
}

// standardSchema opts in to the community protocol.
type standardSchema struct{}

func (standardSchema) StandardSchema() anyskema.StandardSchemaProps {
	return anyskema.StandardSchemaProps{
		Version: 1,
		Vendor:  "standard",
		Validate: func(ctx context.Context, data any) anyskema.Result {
			return anyskema.OK(data)
		},
	}
}

// dualSchema implements both markers; the first-party tier must win.
type dualSchema struct {
	markedSchema
	standardSchema
}

func TestDetect_ProtocolTiers(t *testing.T) {
	anyskema.ResetRegistry()
	t.Cleanup(anyskema.ResetRegistry)

	d, ok := anyskema.Detect(markedSchema{})
	if !ok || d.Type != anyskema.TypeAnySchema || d.Vendor != "marked" {
		t.Fatalf("Detect(marked) = %+v, %v", d, ok)
	}

	d, ok = anyskema.Detect(standardSchema{})
	if !ok || d.Type != anyskema.TypeStandardSchema || d.Vendor != "standard" {
		t.Fatalf("Detect(standard) = %+v, %v", d, ok)
	}

	d, ok = anyskema.Detect(dualSchema{})
	if !ok || d.Type != anyskema.TypeAnySchema {
		t.Fatalf("Detect(dual) = %+v, %v, want the first-party tier to win", d, ok)
	}
}

func TestDetect_DuckTier(t *testing.T) {
	anyskema.ResetRegistry()
	t.Cleanup(anyskema.ResetRegistry)
	anyskema.Register(gozod.New())

	d, ok := anyskema.Detect(gozodfix.String())
	if !ok || d.Type != anyskema.TypeDuck || d.Vendor != gozod.Vendor {
		t.Fatalf("Detect(gozod string) = %+v, %v", d, ok)
	}
}

func TestDetectVendor_DistinctVendorsAndEmptyMap(t *testing.T) {
	anyskema.ResetRegistry()
	t.Cleanup(anyskema.ResetRegistry)
	anyskema.Register(gozod.New())
	anyskema.Register(rawschema.New())

	doc, err := rawschema.FromJSON([]byte(`{"type":"string"}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	v1, ok1 := anyskema.DetectVendor(gozodfix.String())
	v2, ok2 := anyskema.DetectVendor(doc)
	if !ok1 || !ok2 {
		t.Fatalf("both schemas must be detected, got %v/%v", ok1, ok2)
	}
	if v1 == v2 {
		t.Fatalf("schemas from different libraries must report distinct vendors, both = %q", v1)
	}

	if _, ok := anyskema.DetectVendor(map[string]any{}); ok {
		t.Fatalf("a plain empty map must report no detection")
	}
}

func TestDetect_NonSchemas(t *testing.T) {
	anyskema.ResetRegistry()
	t.Cleanup(anyskema.ResetRegistry)
	anyskema.Register(gozod.New())
	anyskema.Register(rawschema.New())
	anyskema.Register(ozzo.New())

	nonSchemas := []any{
		nil, 42, "text", []any{"a"}, map[string]any{"name": "x"},
		// Ordinary functions are not schemas, even with the callable-rule
		// adapter registered.
		func() {},
		func(int) int { return 0 },
	}
	for _, v := range nonSchemas {
		if d, ok := anyskema.Detect(v); ok {
			t.Fatalf("Detect(%#v) = %+v, want no detection", v, d)
		}
	}
}
