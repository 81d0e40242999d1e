// Package santhoshv5 adapts compiled schemas from
// santhosh-tekuri/jsonschema/v5. A v5 schema is a struct with a Location
// string and a Types []string; validation follows the throwing convention
// (Validate(v) error with a Causes tree).
package santhoshv5

import (
	"context"
	"reflect"
	"sort"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for v5 schemas. The v6 adapter
// reports the same vendor; the two differ only in how they are matched.
const Vendor = "santhosh-tekuri/jsonschema"

// node wraps a child schema so probes can carry a narrowed type list (for
// the nullable split) and the optional flag of object properties.
type node struct {
	schema   any
	types    []string
	optional bool
}

// New returns the v5 adapter.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match:  match,

		IsOptional: func(v any) bool {
			n, ok := v.(node)
			return ok && n.optional
		},
		IsNullable: func(v any) bool {
			_, ok := nullableSplit(v)
			return ok
		},
		IsLazy: func(v any) bool {
			ref, _ := probe.Field(inner(v), "Ref")
			return !emptyValue(ref)
		},
		// Unwrap peels one wrapper layer per call: the optional mark first,
		// then the nullable split, then the resolved reference. Peeling the
		// optional mark alone lets the transformer name a $defs entry for the
		// reference underneath before recursing into it.
		Unwrap: func(v any) any {
			if n, ok := v.(node); ok && n.optional {
				n.optional = false
				return n
			}
			if other, ok := nullableSplit(v); ok {
				return other
			}
			if ref, _ := probe.Field(inner(v), "Ref"); !emptyValue(ref) {
				return ref
			}
			return nil
		},

		IsString:  isType("string"),
		IsNumber:  isType("number"),
		IsInteger: isType("integer"),
		IsBoolean: isType("boolean"),
		IsNull:    isType("null"),
		IsAny: func(v any) bool {
			s := inner(v)
			if len(types(v)) > 0 {
				return false
			}
			for _, f := range []string{"Ref", "Enum", "Constant", "AnyOf", "OneOf", "AllOf"} {
				if raw, _ := probe.Field(s, f); !emptyValue(raw) {
					return false
				}
			}
			return true
		},
		IsLiteral: func(v any) bool {
			raw, _ := probe.Field(inner(v), "Constant")
			return !emptyValue(raw)
		},
		IsEnum: func(v any) bool {
			raw, _ := probe.Field(inner(v), "Enum")
			return !emptyValue(raw)
		},
		IsObject: func(v any) bool {
			return isType("object")(v) && (len(properties(v)) > 0 || !hasRecordValue(v))
		},
		IsRecord: func(v any) bool {
			return isType("object")(v) && len(properties(v)) == 0 && hasRecordValue(v)
		},
		IsArray: func(v any) bool {
			return isType("array")(v) && len(tupleItems(v)) == 0
		},
		IsTuple: func(v any) bool {
			return isType("array")(v) && len(tupleItems(v)) > 0
		},
		IsUnion: func(v any) bool {
			return len(unionOptions(v)) > 0
		},
		IsIntersection: func(v any) bool {
			return len(sliceField(inner(v), "AllOf")) > 0
		},

		ObjectEntries: objectEntries,
		ArrayElement:  arrayElement,
		RecordValue: func(v any) any {
			raw, _ := probe.Field(inner(v), "AdditionalProperties")
			if isSchemaValue(raw) {
				return raw
			}
			return nil
		},
		TupleItems: tupleItems,
		UnionOptions: func(v any) []any {
			return unionOptions(v)
		},
		IntersectionSchemas: func(v any) []any {
			return sliceField(inner(v), "AllOf")
		},
		LiteralValue: func(v any) (any, bool) {
			raw, _ := probe.Field(inner(v), "Constant")
			rv := reflect.ValueOf(raw)
			if rv.Kind() == reflect.Slice && rv.Len() > 0 {
				return rv.Index(0).Interface(), true
			}
			return nil, false
		},
		EnumValues: func(v any) []any {
			raw, _ := probe.Field(inner(v), "Enum")
			vals, _ := raw.([]any)
			return vals
		},

		Constraints: constraints,
		Metadata:    metadata,

		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				if r, ok := convention.ThrowingValidate(ctx, inner(schema), data); ok {
					return r
				}
				return anyskema.FailMessage(anyskema.CodeUnsupported, "jsonschema: schema has no Validate method")
			})
		},
	})
}

func match(v any) bool {
	if _, ok := v.(node); ok {
		return true
	}
	if !probe.HasField(v, "Location") {
		return false
	}
	raw, ok := probe.Field(v, "Types")
	if !ok {
		return false
	}
	_, isStrings := raw.([]string)
	return raw == nil || isStrings
}

func inner(v any) any {
	if n, ok := v.(node); ok {
		return n.schema
	}
	return v
}

func types(v any) []string {
	if n, ok := v.(node); ok && n.types != nil {
		return n.types
	}
	raw, _ := probe.Field(inner(v), "Types")
	ts, _ := raw.([]string)
	return ts
}

// nullableSplit detects the two-type form [X, "null"] and returns a node
// narrowed to X.
func nullableSplit(v any) (any, bool) {
	ts := types(v)
	if len(ts) != 2 {
		return nil, false
	}
	for i, t := range ts {
		if t == "null" {
			return node{schema: inner(v), types: []string{ts[1-i]}}, true
		}
	}
	return nil, false
}

func isType(name string) func(any) bool {
	return func(v any) bool {
		ts := types(v)
		return len(ts) == 1 && ts[0] == name
	}
}

func properties(v any) map[string]any {
	raw, _ := probe.Field(inner(v), "Properties")
	if raw == nil {
		return nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		if k, ok := iter.Key().Interface().(string); ok {
			out[k] = iter.Value().Interface()
		}
	}
	return out
}

func objectEntries(v any) []anyskema.ObjectEntry {
	props := properties(v)
	if props == nil {
		return nil
	}
	required := map[string]bool{}
	if raw, _ := probe.Field(inner(v), "Required"); raw != nil {
		if req, ok := raw.([]string); ok {
			for _, k := range req {
				required[k] = true
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

// arrayElement handles both element encodings: Items2020 for draft 2020-12
// compiles, Items holding a single schema for earlier drafts.
func arrayElement(v any) any {
	if raw, _ := probe.Field(inner(v), "Items2020"); !emptyValue(raw) {
		return raw
	}
	raw, _ := probe.Field(inner(v), "Items")
	if emptyValue(raw) {
		return nil
	}
	if reflect.ValueOf(raw).Kind() == reflect.Slice {
		return nil
	}
	return raw
}

// tupleItems reads the positional form: Items holding a slice of schemas.
func tupleItems(v any) []any {
	raw, _ := probe.Field(inner(v), "Items")
	if raw == nil {
		return nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func unionOptions(v any) []any {
	if opts := sliceField(inner(v), "AnyOf"); len(opts) > 0 {
		return opts
	}
	return sliceField(inner(v), "OneOf")
}

func sliceField(v any, name string) []any {
	raw, _ := probe.Field(v, name)
	if raw == nil {
		return nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func hasRecordValue(v any) bool {
	raw, _ := probe.Field(inner(v), "AdditionalProperties")
	return isSchemaValue(raw)
}

// isSchemaValue filters AdditionalProperties, which may hold a bool or a
// schema pointer.
func isSchemaValue(raw any) bool {
	if raw == nil {
		return false
	}
	if _, isBool := raw.(bool); isBool {
		return false
	}
	rv := reflect.ValueOf(raw)
	return rv.Kind() == reflect.Pointer && !rv.IsNil()
}

func emptyValue(raw any) bool {
	if raw == nil {
		return true
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func constraints(v any) *anyskema.Constraints {
	s := inner(v)
	cs := &anyskema.Constraints{}
	if f, ok := ratFloat(s, "Minimum"); ok {
		cs.Min = anyskema.Float(f)
	}
	if f, ok := ratFloat(s, "Maximum"); ok {
		cs.Max = anyskema.Float(f)
	}
	if n, ok := lengthField(s, "MinLength"); ok {
		cs.MinLength = anyskema.Int(n)
	}
	if n, ok := lengthField(s, "MaxLength"); ok {
		cs.MaxLength = anyskema.Int(n)
	}
	if n, ok := lengthField(s, "MinItems"); ok {
		cs.MinLength = anyskema.Int(n)
	}
	if n, ok := lengthField(s, "MaxItems"); ok {
		cs.MaxLength = anyskema.Int(n)
	}
	// Pattern is a *regexp.Regexp; a pattern-less schema carries a typed nil,
	// which still satisfies the String interface, so test emptiness first.
	if p, _ := probe.Field(s, "Pattern"); !emptyValue(p) {
		if str, ok := p.(interface{ String() string }); ok {
			cs.Pattern = str.String()
		}
	}
	cs.Format, _ = probe.StringField(s, "Format")
	if cs.IsZero() {
		return nil
	}
	return cs
}

// ratFloat reads a numeric bound stored as *big.Rat, converting through its
// Float64 method.
func ratFloat(s any, name string) (float64, bool) {
	raw, _ := probe.Field(s, name)
	if emptyValue(raw) {
		return 0, false
	}
	out, err := probe.CallMethod(raw, "Float64")
	if err != nil || len(out) == 0 || out[0].Kind() != reflect.Float64 {
		return 0, false
	}
	return out[0].Float(), true
}

// lengthField reads a length bound encoded as int with -1 for unset (the v5
// encoding) or as *int (the v6 encoding).
func lengthField(s any, name string) (int, bool) {
	raw, _ := probe.Field(s, name)
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
	if !rv.CanInt() {
		return 0, false
	}
	n := int(rv.Int())
	if n < 0 {
		return 0, false
	}
	return n, true
}

func metadata(v any) *anyskema.Metadata {
	s := inner(v)
	m := &anyskema.Metadata{}
	m.Title, _ = probe.StringField(s, "Title")
	m.Description, _ = probe.StringField(s, "Description")
	if d, _ := probe.Field(s, "Default"); !emptyValue(d) {
		dv := reflect.ValueOf(d)
		for dv.Kind() == reflect.Pointer && !dv.IsNil() {
			dv = dv.Elem()
		}
		if dv.IsValid() && dv.Kind() != reflect.Pointer {
			m.Default = dv.Interface()
			m.HasDefault = true
		}
	}
	if dep, ok := probe.Field(s, "Deprecated"); ok {
		m.Deprecated, _ = dep.(bool)
	}
	if m.IsZero() {
		return nil
	}
	return m
}
