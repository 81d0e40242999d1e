// Package santhoshv6 adapts compiled schemas from
// santhosh-tekuri/jsonschema/v6. v6 reshaped the compiled schema struct: the
// type list became a pointer answering ToStrings, enum values moved behind a
// Values field, the constant became a pointer, and length bounds became
// pointers. Both majors report the same vendor string.
package santhoshv6

import (
	"context"
	"reflect"
	"sort"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor matches the v5 adapter's vendor string.
const Vendor = "santhosh-tekuri/jsonschema"

type node struct {
	schema   any
	types    []string
	optional bool
}

// New returns the v6 adapter.
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
		// Unwrap peels one wrapper layer per call, optional mark first, so
		// the transformer can name a reference target before recursing.
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
			if len(types(v)) > 0 {
				return false
			}
			s := inner(v)
			for _, f := range []string{"Ref", "Enum", "Const", "AnyOf", "OneOf", "AllOf"} {
				if raw, _ := probe.Field(s, f); !emptyValue(raw) {
					return false
				}
			}
			return true
		},
		IsLiteral: func(v any) bool {
			raw, _ := probe.Field(inner(v), "Const")
			return !emptyValue(raw)
		},
		IsEnum: func(v any) bool {
			return len(enumValues(v)) > 0
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
			raw, _ := probe.Field(inner(v), "Const")
			if emptyValue(raw) {
				return nil, false
			}
			rv := reflect.ValueOf(raw)
			if rv.Kind() == reflect.Pointer {
				rv = rv.Elem()
			}
			return rv.Interface(), true
		},
		EnumValues: enumValues,

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
	raw, ok := fieldValue(v, "Types")
	if !ok {
		return false
	}
	if raw.Kind() != reflect.Pointer {
		return false
	}
	return probe.HasMethod(raw.Interface(), "ToStrings", 0, 1) || raw.IsNil()
}

// fieldValue reads a struct field without dereferencing it, so pointer
// fields keep their kind.
func fieldValue(v any, name string) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	f := rv.FieldByName(name)
	if !f.IsValid() {
		return reflect.Value{}, false
	}
	return f, true
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
	if emptyValue(raw) {
		return nil
	}
	out, err := probe.CallMethod(raw, "ToStrings")
	if err != nil || len(out) == 0 {
		return nil
	}
	ts, _ := out[0].Interface().([]string)
	return ts
}

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

func enumValues(v any) []any {
	raw, _ := probe.Field(inner(v), "Enum")
	if emptyValue(raw) {
		return nil
	}
	vals, ok := probe.Field(raw, "Values")
	if !ok {
		return nil
	}
	out, _ := vals.([]any)
	return out
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

func tupleItems(v any) []any {
	if items := sliceField(inner(v), "PrefixItems"); len(items) > 0 {
		return items
	}
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
	if n, ok := intPointer(s, "MinLength"); ok {
		cs.MinLength = anyskema.Int(n)
	}
	if n, ok := intPointer(s, "MaxLength"); ok {
		cs.MaxLength = anyskema.Int(n)
	}
	if n, ok := intPointer(s, "MinItems"); ok {
		cs.MinLength = anyskema.Int(n)
	}
	if n, ok := intPointer(s, "MaxItems"); ok {
		cs.MaxLength = anyskema.Int(n)
	}
	// Pattern is a *regexp.Regexp; a pattern-less schema carries a typed nil,
	// which still satisfies the String interface, so test emptiness first.
	if p, _ := probe.Field(s, "Pattern"); !emptyValue(p) {
		if str, ok := p.(interface{ String() string }); ok {
			cs.Pattern = str.String()
		}
	}
	cs.Format, _ = formatName(s)
	if cs.IsZero() {
		return nil
	}
	return cs
}

// formatName reads the format annotation, which v6 stores as a struct with a
// Name field rather than a bare string.
func formatName(s any) (string, bool) {
	raw, _ := probe.Field(s, "Format")
	if raw == nil {
		return "", false
	}
	if str, ok := raw.(string); ok {
		return str, true
	}
	return probe.StringField(raw, "Name")
}

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

func intPointer(s any, name string) (int, bool) {
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
