// Package qri adapts schemas from qri-io/jsonschema. The schema is opaque
// apart from JSONProp, which returns keyword values one name at a time, and
// validation goes through ValidateBytes, so data is marshaled to JSON before
// checking. Keyword values are named types (Minimum is a float type, the
// type keyword answers String), read here through reflection.
package qri

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for qri schemas.
const Vendor = "qri-io/jsonschema"

type node struct {
	schema   any
	optional bool
}

// New returns the qri adapter.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match: func(v any) bool {
			if _, ok := v.(node); ok {
				return true
			}
			return probe.HasMethod(v, "JSONProp", 1, 1) &&
				probe.HasMethod(v, "ValidateBytes", 2, 2)
		},

		IsOptional: func(v any) bool {
			n, ok := v.(node)
			return ok && n.optional
		},

		IsString:  isType("string"),
		IsNumber:  isType("number"),
		IsInteger: isType("integer"),
		IsBoolean: isType("boolean"),
		IsNull:    isType("null"),
		IsAny: func(v any) bool {
			if typeName(v) != "" {
				return false
			}
			for _, kw := range []string{"enum", "const", "anyOf", "oneOf", "allOf", "properties", "items"} {
				if prop(v, kw) != nil {
					return false
				}
			}
			return true
		},
		IsLiteral: func(v any) bool {
			return prop(v, "const") != nil
		},
		IsEnum: func(v any) bool {
			return len(valueSlice(prop(v, "enum"))) > 0
		},
		IsObject: func(v any) bool {
			if typeName(v) != "object" {
				return false
			}
			return len(properties(v)) > 0 || !isSchemaNode(prop(v, "additionalProperties"))
		},
		IsRecord: func(v any) bool {
			return typeName(v) == "object" && len(properties(v)) == 0 &&
				isSchemaNode(prop(v, "additionalProperties"))
		},
		IsArray: func(v any) bool {
			if typeName(v) != "array" {
				return false
			}
			return len(tupleItems(v)) == 0
		},
		IsTuple: func(v any) bool {
			return typeName(v) == "array" && len(tupleItems(v)) > 0
		},
		IsUnion: func(v any) bool {
			return len(unionOptions(v)) > 0
		},
		IsIntersection: func(v any) bool {
			return len(valueSlice(prop(v, "allOf"))) > 0
		},

		ObjectEntries: objectEntries,
		ArrayElement: func(v any) any {
			items := prop(v, "items")
			if isSchemaNode(items) {
				return items
			}
			return nil
		},
		RecordValue: func(v any) any {
			addl := prop(v, "additionalProperties")
			if isSchemaNode(addl) {
				return addl
			}
			return nil
		},
		TupleItems: tupleItems,
		UnionOptions: func(v any) []any {
			return unionOptions(v)
		},
		IntersectionSchemas: func(v any) []any {
			return valueSlice(prop(v, "allOf"))
		},
		LiteralValue: func(v any) (any, bool) {
			c := prop(v, "const")
			if c == nil {
				return nil, false
			}
			return constValue(c), true
		},
		EnumValues: func(v any) []any {
			vals := valueSlice(prop(v, "enum"))
			out := make([]any, len(vals))
			for i, e := range vals {
				out[i] = constValue(e)
			}
			return out
		},

		Constraints: constraints,
		Metadata:    metadata,

		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				if r, ok := convention.ValidateBytes(ctx, inner(schema), data); ok {
					return r
				}
				return anyskema.FailMessage(anyskema.CodeUnsupported, "jsonschema: schema has no ValidateBytes method")
			})
		},
	})
}

func inner(v any) any {
	if n, ok := v.(node); ok {
		return n.schema
	}
	return v
}

// prop looks a keyword up via JSONProp, normalizing absent keywords to nil.
func prop(v any, name string) any {
	out, err := probe.CallMethod(inner(v), "JSONProp", name)
	if err != nil || len(out) == 0 {
		return nil
	}
	if probe.IsNilValue(out[0]) {
		return nil
	}
	return out[0].Interface()
}

// typeName stringifies the type keyword, which is a named type answering
// String rather than a plain string.
func typeName(v any) string {
	t := prop(v, "type")
	if t == nil {
		return ""
	}
	switch x := t.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(t)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return ""
}

func isType(name string) func(any) bool {
	return func(v any) bool {
		return typeName(v) == name
	}
}

// isSchemaNode reports whether a keyword value is itself a schema (answers
// JSONProp) rather than a scalar or a slice of schemas.
func isSchemaNode(v any) bool {
	return v != nil && probe.HasMethod(v, "JSONProp", 1, 1)
}

func properties(v any) map[string]any {
	raw := prop(v, "properties")
	if raw == nil {
		return nil
	}
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}

func objectEntries(v any) []anyskema.ObjectEntry {
	props := properties(v)
	if props == nil {
		return nil
	}
	required := map[string]bool{}
	if raw := prop(v, "required"); raw != nil {
		rv := reflect.ValueOf(raw)
		for rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				item := rv.Index(i)
				if item.Kind() == reflect.String {
					required[item.String()] = true
				}
			}
		}
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]anyskema.ObjectEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, anyskema.ObjectEntry{
			Key:   k,
			Value: node{schema: props[k], optional: !required[k]},
		})
	}
	return entries
}

// tupleItems reads the positional form: the items keyword holding a slice of
// schemas. A single schema node means a homogeneous array instead.
func tupleItems(v any) []any {
	items := prop(v, "items")
	if items == nil || isSchemaNode(items) {
		return nil
	}
	return valueSlice(items)
}

func unionOptions(v any) []any {
	if opts := valueSlice(prop(v, "anyOf")); len(opts) > 0 {
		return opts
	}
	return valueSlice(prop(v, "oneOf"))
}

func valueSlice(raw any) []any {
	if raw == nil {
		return nil
	}
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// constValue unboxes named keyword types to their underlying value. Wrapper
// structs carry it in a Value field.
func constValue(v any) any {
	if val, ok := probe.Field(v, "Value"); ok {
		return val
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Float64, reflect.Float32:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	}
	if rv.IsValid() {
		return rv.Interface()
	}
	return nil
}

func constraints(v any) *anyskema.Constraints {
	cs := &anyskema.Constraints{}
	if f, ok := keywordFloat(v, "minimum"); ok {
		cs.Min = anyskema.Float(f)
	}
	if f, ok := keywordFloat(v, "maximum"); ok {
		cs.Max = anyskema.Float(f)
	}
	if f, ok := keywordFloat(v, "minLength"); ok {
		cs.MinLength = anyskema.Int(int(f))
	}
	if f, ok := keywordFloat(v, "maxLength"); ok {
		cs.MaxLength = anyskema.Int(int(f))
	}
	if f, ok := keywordFloat(v, "minItems"); ok {
		cs.MinLength = anyskema.Int(int(f))
	}
	if f, ok := keywordFloat(v, "maxItems"); ok {
		cs.MaxLength = anyskema.Int(int(f))
	}
	if p := prop(v, "pattern"); p != nil {
		if s, ok := keywordString(p); ok {
			cs.Pattern = s
		}
	}
	if f := prop(v, "format"); f != nil {
		if s, ok := keywordString(f); ok {
			cs.Format = s
		}
	}
	if cs.IsZero() {
		return nil
	}
	return cs
}

func metadata(v any) *anyskema.Metadata {
	m := &anyskema.Metadata{}
	if t := prop(v, "title"); t != nil {
		m.Title, _ = keywordString(t)
	}
	if d := prop(v, "description"); d != nil {
		m.Description, _ = keywordString(d)
	}
	if d := prop(v, "default"); d != nil {
		m.Default = constValue(d)
		m.HasDefault = true
	}
	if m.IsZero() {
		return nil
	}
	return m
}

// keywordFloat unboxes a numeric keyword, which qri stores as a named float
// type.
func keywordFloat(v any, name string) (float64, bool) {
	raw := prop(v, name)
	if raw == nil {
		return 0, false
	}
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	switch {
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return float64(rv.Int()), true
	}
	return 0, false
}

func keywordString(raw any) (string, bool) {
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
