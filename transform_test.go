package anyskema_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/adapters/gozod"
	gozodfix "github.com/reoring/anyskema/internal/fixture/gozod"
	js "github.com/reoring/anyskema/jsonschema"
)

func gozodTransformer() *anyskema.Transformer {
	return anyskema.NewTransformer(gozod.New())
}

func mustTransform(t *testing.T, schema any) *js.Schema {
	t.Helper()
	frag, err := gozodTransformer().Transform(schema)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return frag
}

func TestTransform_Primitives(t *testing.T) {
	cases := []struct {
		name   string
		schema any
		want   js.Schema
	}{
		{"string", gozodfix.String(), js.Schema{Type: "string"}},
		{"number", gozodfix.Number(), js.Schema{Type: "number"}},
		{"integer", gozodfix.Int(), js.Schema{Type: "integer"}},
		{"boolean", gozodfix.Bool(), js.Schema{Type: "boolean"}},
		{"null", gozodfix.Nil(), js.Schema{Type: "null"}},
		{"time", gozodfix.Time(), js.Schema{Type: "string", Format: "date-time"}},
		{"bytes", gozodfix.Bytes(), js.Schema{Type: "string", Format: "byte"}},
		{"literal", gozodfix.Literal("on"), js.Schema{Const: "on"}},
		{"any", gozodfix.Any(), js.Schema{}},
		{"never", gozodfix.Never(), js.Schema{Not: &js.Schema{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frag := mustTransform(t, tc.schema)
			if !reflect.DeepEqual(*frag, tc.want) {
				t.Fatalf("fragment = %+v, want %+v", *frag, tc.want)
			}
		})
	}
}

func TestTransform_Enum(t *testing.T) {
	frag := mustTransform(t, gozodfix.Enum("red", "green", "blue"))
	if !reflect.DeepEqual(frag.Enum, []any{"red", "green", "blue"}) {
		t.Fatalf("enum = %v", frag.Enum)
	}
	if len(frag.AnyOf) != 0 {
		t.Fatalf("an all-literal union must not also be reported as a union: %+v", frag)
	}
}

// An object with one required and one optional field must list exactly the
// required field's key.
func TestTransform_ObjectOptionalRequired(t *testing.T) {
	schema := gozodfix.Object(
		gozodfix.Field{Name: "name", Schema: gozodfix.String()},
		gozodfix.Field{Name: "age", Schema: gozodfix.Optional(gozodfix.Number())},
	)
	frag := mustTransform(t, schema)

	if frag.Type != "object" {
		t.Fatalf("type = %q, want object", frag.Type)
	}
	if got := frag.Properties["name"]; got == nil || got.Type != "string" {
		t.Fatalf("properties.name = %+v", got)
	}
	if got := frag.Properties["age"]; got == nil || got.Type != "number" {
		t.Fatalf("properties.age = %+v, optional wrapper must unwrap to its inner type", got)
	}
	if !reflect.DeepEqual(frag.Required, []string{"name"}) {
		t.Fatalf("required = %v, want [name]", frag.Required)
	}
}

func TestTransform_ArrayAndSet(t *testing.T) {
	frag := mustTransform(t, gozodfix.Array(gozodfix.String()))
	if frag.Type != "array" || frag.Items == nil || frag.Items.Type != "string" {
		t.Fatalf("array fragment = %+v", frag)
	}

	frag = mustTransform(t, gozodfix.Set(gozodfix.Int()))
	if frag.Type != "array" || !frag.UniqueItems || frag.Items == nil || frag.Items.Type != "integer" {
		t.Fatalf("set fragment = %+v", frag)
	}
}

func TestTransform_TuplePinsItemCount(t *testing.T) {
	frag := mustTransform(t, gozodfix.Tuple(gozodfix.String(), gozodfix.Number()))
	if frag.Type != "array" || len(frag.PrefixItems) != 2 {
		t.Fatalf("tuple fragment = %+v", frag)
	}
	if frag.MinItems == nil || *frag.MinItems != 2 || frag.MaxItems == nil || *frag.MaxItems != 2 {
		t.Fatalf("tuple must pin min/max items to 2, got %v/%v", frag.MinItems, frag.MaxItems)
	}
}

func TestTransform_UnionAndIntersection(t *testing.T) {
	frag := mustTransform(t, gozodfix.Union(gozodfix.String(), gozodfix.Number()))
	if len(frag.AnyOf) != 2 || frag.AnyOf[0].Type != "string" || frag.AnyOf[1].Type != "number" {
		t.Fatalf("union fragment = %+v", frag)
	}

	frag = mustTransform(t, gozodfix.Intersection(
		gozodfix.Object(gozodfix.Field{Name: "a", Schema: gozodfix.String()}),
		gozodfix.Object(gozodfix.Field{Name: "b", Schema: gozodfix.Number()}),
	))
	if len(frag.AllOf) != 2 {
		t.Fatalf("intersection fragment = %+v", frag)
	}
}

func TestTransform_Record(t *testing.T) {
	frag := mustTransform(t, gozodfix.Record(gozodfix.String(), gozodfix.Number()))
	if frag.Type != "object" {
		t.Fatalf("record fragment = %+v", frag)
	}
	ap, ok := frag.AdditionalProperties.(*js.Schema)
	if !ok || ap.Type != "number" {
		t.Fatalf("additionalProperties = %+v", frag.AdditionalProperties)
	}
}

// A nullable schema converts to anyOf:[inner, {type:"null"}] and converting
// twice yields structurally identical fragments.
func TestTransform_NullableIdempotence(t *testing.T) {
	schema := gozodfix.Nullable(gozodfix.String())
	want := js.Schema{AnyOf: []*js.Schema{{Type: "string"}, {Type: "null"}}}

	first := mustTransform(t, schema)
	second := mustTransform(t, schema)
	if !reflect.DeepEqual(*first, want) {
		t.Fatalf("nullable fragment = %+v, want %+v", *first, want)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two conversions differ: %+v vs %+v", first, second)
	}
}

func TestTransform_DefaultValue(t *testing.T) {
	frag := mustTransform(t, gozodfix.Default(gozodfix.String(), "fallback"))
	if frag.Type != "string" || frag.Default != "fallback" {
		t.Fatalf("defaulted fragment = %+v", frag)
	}
}

// A defaulted-and-nullable node surfaces the default on the outer fragment
// with the null branch inside: the unwrap cascade order is contract.
func TestTransform_DefaultOverNullable(t *testing.T) {
	frag := mustTransform(t, gozodfix.Default(gozodfix.Nullable(gozodfix.String()), "x"))
	if frag.Default != "x" {
		t.Fatalf("default must survive on the outer fragment: %+v", frag)
	}
	if len(frag.AnyOf) != 2 {
		t.Fatalf("null branch must stay on the fragment: %+v", frag)
	}
}

func TestTransform_TransformBrandedCatchPassThrough(t *testing.T) {
	for _, schema := range []any{
		gozodfix.Transform(gozodfix.String()),
		gozodfix.Branded(gozodfix.String()),
		gozodfix.Catch(gozodfix.String(), "safe"),
	} {
		frag := mustTransform(t, schema)
		if frag.Type != "string" {
			t.Fatalf("wrapper must pass through to its inner fragment, got %+v", frag)
		}
	}
}

// A self-referential tree-node schema terminates in a $ref and appears in
// $defs exactly once no matter how many fields reference it.
func TestTransform_RecursiveSchemaSingleDef(t *testing.T) {
	var node *gozodfix.Schema
	lazy := gozodfix.Lazy(func() any { return node })
	node = gozodfix.Object(
		gozodfix.Field{Name: "value", Schema: gozodfix.String()},
		gozodfix.Field{Name: "left", Schema: gozodfix.Optional(lazy)},
		gozodfix.Field{Name: "right", Schema: gozodfix.Optional(lazy)},
	)

	frag := mustTransform(t, node)
	if len(frag.Defs) != 1 {
		t.Fatalf("$defs must hold exactly one entry, got %d: %+v", len(frag.Defs), frag.Defs)
	}
	var name string
	for k := range frag.Defs {
		name = k
	}
	wantRef := "#/$defs/" + name
	left := frag.Properties["left"]
	right := frag.Properties["right"]
	if left == nil || left.Ref != wantRef || right == nil || right.Ref != wantRef {
		t.Fatalf("recursive fields = %+v / %+v, want ref %q", left, right, wantRef)
	}
	def := frag.Defs[name]
	if def.Type != "object" || def.Properties["left"].Ref != wantRef {
		t.Fatalf("definition must itself close the cycle via %q: %+v", wantRef, def)
	}
}

func TestTransform_Constraints(t *testing.T) {
	str := gozodfix.String().WithChecks(
		gozodfix.Check{Kind: "min_length", Value: 3},
		gozodfix.Check{Kind: "max_length", Value: 10},
		gozodfix.Check{Kind: "regex", Value: "^[a-z]+$"},
	)
	frag := mustTransform(t, str)
	if frag.MinLength == nil || *frag.MinLength != 3 || frag.MaxLength == nil || *frag.MaxLength != 10 {
		t.Fatalf("string length bounds = %v/%v", frag.MinLength, frag.MaxLength)
	}
	if frag.Pattern != "^[a-z]+$" {
		t.Fatalf("pattern = %q", frag.Pattern)
	}

	num := gozodfix.Number().WithChecks(
		gozodfix.Check{Kind: "min", Value: 1},
		gozodfix.Check{Kind: "max", Value: 99},
	)
	frag = mustTransform(t, num)
	if frag.Minimum == nil || *frag.Minimum != 1 || frag.Maximum == nil || *frag.Maximum != 99 {
		t.Fatalf("numeric bounds = %v/%v", frag.Minimum, frag.Maximum)
	}
}

// An unrecognized check must not crash the transform; it is just absent.
func TestTransform_UnknownCheckIsDropped(t *testing.T) {
	str := gozodfix.String().WithChecks(
		gozodfix.Check{Kind: "starts_with", Value: "ab"},
		gozodfix.Check{Kind: "min_length", Value: 2},
	)
	frag := mustTransform(t, str)
	if frag.Type != "string" || frag.MinLength == nil || *frag.MinLength != 2 {
		t.Fatalf("recognized checks must survive unknown neighbors: %+v", frag)
	}
}

func TestTransform_Metadata(t *testing.T) {
	frag := mustTransform(t, gozodfix.String().WithMeta("User name", "display name"))
	if frag.Title != "User name" || frag.Description != "display name" {
		t.Fatalf("metadata = %q / %q", frag.Title, frag.Description)
	}
}

func TestTransform_UnknownSchemaError(t *testing.T) {
	type opaque struct{}
	_, err := gozodTransformer().Transform(opaque{})
	if err == nil {
		t.Fatalf("an unrecognized value must fail the transform")
	}
	var unknown *anyskema.UnknownSchemaError
	if !errors.As(err, &unknown) {
		t.Fatalf("error %T is not *UnknownSchemaError", err)
	}
	if !strings.Contains(unknown.TypeName, "opaque") {
		t.Fatalf("error must name the runtime type, got %q", unknown.TypeName)
	}
}

func TestToJSONSchema_GlobalRegistry(t *testing.T) {
	anyskema.ResetRegistry()
	t.Cleanup(anyskema.ResetRegistry)
	anyskema.Register(gozod.New())

	frag, err := anyskema.ToJSONSchema(gozodfix.Bool())
	if err != nil {
		t.Fatalf("ToJSONSchema: %v", err)
	}
	if frag.Type != "boolean" {
		t.Fatalf("fragment = %+v", frag)
	}
}
