package rawschema_test

import (
	"context"
	"reflect"
	"testing"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/adapters/rawschema"
	js "github.com/reoring/anyskema/jsonschema"
)

func transform(t *testing.T, doc *rawschema.Document) *js.Schema {
	t.Helper()
	frag, err := anyskema.NewTransformer(rawschema.New()).Transform(doc)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return frag
}

func fromJSON(t *testing.T, src string) *rawschema.Document {
	t.Helper()
	doc, err := rawschema.FromJSON([]byte(src))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	return doc
}

func TestNewDocument_WrapsDecodedRoot(t *testing.T) {
	doc := rawschema.NewDocument(map[string]any{
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "string"}},
		"required":   []any{"name"},
	})
	if !rawschema.New().Match(doc) {
		t.Fatalf("a wrapped document must match")
	}
	frag := transform(t, doc)
	if frag.Type != "object" || frag.Properties["name"].Type != "string" {
		t.Fatalf("fragment = %+v", frag)
	}
}

func TestMatch(t *testing.T) {
	a := rawschema.New()
	if !a.Match(fromJSON(t, `{"type":"string"}`)) {
		t.Fatalf("a Document must match")
	}
	if !a.Match(map[string]any{"type": "string"}) {
		t.Fatalf("a bare map with a schema keyword must match")
	}
	if a.Match(map[string]any{"name": "x"}) {
		t.Fatalf("a map without schema keywords must not match")
	}
	if a.Match("text") || a.Match(nil) {
		t.Fatalf("non-documents must not match")
	}
}

func TestTransform_ObjectRequiredFromDocument(t *testing.T) {
	doc := fromJSON(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age":  {"type": "number"}
		},
		"required": ["name"]
	}`)
	frag := transform(t, doc)

	if frag.Type != "object" {
		t.Fatalf("type = %q", frag.Type)
	}
	if frag.Properties["name"].Type != "string" || frag.Properties["age"].Type != "number" {
		t.Fatalf("properties = %+v", frag.Properties)
	}
	if !reflect.DeepEqual(frag.Required, []string{"name"}) {
		t.Fatalf("required = %v, want [name]", frag.Required)
	}
}

func TestTransform_NullableAnyOf(t *testing.T) {
	doc := fromJSON(t, `{"anyOf":[{"type":"string"},{"type":"null"}]}`)
	want := js.Schema{AnyOf: []*js.Schema{{Type: "string"}, {Type: "null"}}}

	first := transform(t, doc)
	second := transform(t, doc)
	if !reflect.DeepEqual(*first, want) {
		t.Fatalf("fragment = %+v, want %+v", *first, want)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two conversions differ")
	}
}

func TestTransform_GeneralAnyOfStaysUnion(t *testing.T) {
	doc := fromJSON(t, `{"anyOf":[{"type":"string"},{"type":"number"},{"type":"null"}]}`)
	frag := transform(t, doc)
	if len(frag.AnyOf) != 3 {
		t.Fatalf("a three-way anyOf is a union, not a nullable: %+v", frag)
	}
}

func TestTransform_RefCycleSingleDef(t *testing.T) {
	doc := fromJSON(t, `{
		"$defs": {
			"node": {
				"type": "object",
				"properties": {
					"value": {"type": "string"},
					"next":  {"$ref": "#/$defs/node"}
				},
				"required": ["value"]
			}
		},
		"type": "object",
		"properties": {
			"head": {"$ref": "#/$defs/node"},
			"tail": {"$ref": "#/$defs/node"}
		}
	}`)
	frag := transform(t, doc)

	if len(frag.Defs) != 1 {
		t.Fatalf("$defs entries = %d, want 1", len(frag.Defs))
	}
	var name string
	for k := range frag.Defs {
		name = k
	}
	ref := "#/$defs/" + name
	if frag.Properties["head"].Ref != ref || frag.Properties["tail"].Ref != ref {
		t.Fatalf("both references must share the definition: %+v", frag.Properties)
	}
	if frag.Defs[name].Properties["next"].Ref != ref {
		t.Fatalf("the definition must close its own cycle: %+v", frag.Defs[name])
	}
}

func TestTransform_OptionalSelfRefTerminates(t *testing.T) {
	doc := fromJSON(t, `{
		"type": "object",
		"properties": {
			"next": {"$ref": "#"}
		}
	}`)
	frag := transform(t, doc)

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
	if len(frag.Required) != 0 {
		t.Fatalf("next is not required: %v", frag.Required)
	}
}

func TestTransform_OptionalNullableKeepsAnyOf(t *testing.T) {
	doc := fromJSON(t, `{
		"type": "object",
		"properties": {
			"nick": {"anyOf": [{"type": "string"}, {"type": "null"}]}
		}
	}`)
	frag := transform(t, doc)

	want := js.Schema{AnyOf: []*js.Schema{{Type: "string"}, {Type: "null"}}}
	if !reflect.DeepEqual(*frag.Properties["nick"], want) {
		t.Fatalf("nick = %+v, want %+v", frag.Properties["nick"], want)
	}
	if len(frag.Required) != 0 {
		t.Fatalf("nick is not required: %v", frag.Required)
	}
}

func TestTransform_KeywordPassThrough(t *testing.T) {
	doc := fromJSON(t, `{
		"type": "string",
		"minLength": 3,
		"maxLength": 12,
		"pattern": "^[a-z]+$",
		"format": "hostname",
		"title": "Host",
		"description": "short host name"
	}`)
	frag := transform(t, doc)

	if frag.MinLength == nil || *frag.MinLength != 3 || frag.MaxLength == nil || *frag.MaxLength != 12 {
		t.Fatalf("length bounds = %v/%v", frag.MinLength, frag.MaxLength)
	}
	if frag.Pattern != "^[a-z]+$" || frag.Format != "hostname" {
		t.Fatalf("pattern/format = %q/%q", frag.Pattern, frag.Format)
	}
	if frag.Title != "Host" || frag.Description != "short host name" {
		t.Fatalf("metadata = %q/%q", frag.Title, frag.Description)
	}
}

func TestTransform_EnumConstRecordTuple(t *testing.T) {
	frag := transform(t, fromJSON(t, `{"enum":["a","b"]}`))
	if !reflect.DeepEqual(frag.Enum, []any{"a", "b"}) {
		t.Fatalf("enum = %v", frag.Enum)
	}

	frag = transform(t, fromJSON(t, `{"const":42}`))
	if frag.Const == nil {
		t.Fatalf("const = %+v", frag)
	}

	frag = transform(t, fromJSON(t, `{"type":"object","additionalProperties":{"type":"integer"}}`))
	ap, ok := frag.AdditionalProperties.(*js.Schema)
	if !ok || ap.Type != "integer" {
		t.Fatalf("additionalProperties = %+v", frag.AdditionalProperties)
	}

	frag = transform(t, fromJSON(t, `{"type":"array","prefixItems":[{"type":"string"},{"type":"number"}]}`))
	if len(frag.PrefixItems) != 2 || frag.MinItems == nil || *frag.MinItems != 2 {
		t.Fatalf("tuple fragment = %+v", frag)
	}
}

func TestFromYAML(t *testing.T) {
	doc, err := rawschema.FromYAML([]byte("type: array\nitems:\n  type: string\nminItems: 1\n"))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	frag := transform(t, doc)
	if frag.Type != "array" || frag.Items == nil || frag.Items.Type != "string" {
		t.Fatalf("fragment = %+v", frag)
	}
	if frag.MinItems == nil || *frag.MinItems != 1 {
		t.Fatalf("minItems = %v", frag.MinItems)
	}
}

func TestValidate_Unsupported(t *testing.T) {
	doc := fromJSON(t, `{"type":"string"}`)
	r := anyskema.NewValidator(rawschema.New()).Validate(context.Background(), doc, "hello")
	if r.Success {
		t.Fatalf("a raw document cannot validate, got %+v", r)
	}
	if len(r.Issues) != 1 || r.Issues[0].Code != anyskema.CodeUnsupported {
		t.Fatalf("issues = %+v, want a single %q issue", r.Issues, anyskema.CodeUnsupported)
	}
}
