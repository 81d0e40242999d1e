// Package kaptinlin adapts compiled schemas from kaptinlin/jsonschema. The
// compiled schema exposes keyword fields directly (Type as a single string,
// pointer-shaped bounds) and validates through the evaluation-object
// convention: Validate(v) returns a result answering IsValid with an Errors
// map keyed by instance path.
package kaptinlin

import (
	"context"
	"reflect"
	"sort"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for kaptinlin schemas.
const Vendor = "kaptinlin/jsonschema"

type node struct {
	schema   any
	optional bool
}

// New returns the kaptinlin adapter.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match:  match,

		IsOptional: func(v any) bool {
			n, ok := v.(node)
			return ok && n.optional
		},
		IsLazy: func(v any) bool {
			ref, _ := probe.Field(inner(v), "ResolvedRef")
			return !emptyValue(ref)
		},
		// Unwrap peels one wrapper layer per call, optional mark first, so
		// the transformer can name a reference target before recursing.
		Unwrap: func(v any) any {
			if n, ok := v.(node); ok && n.optional {
				n.optional = false
				return n
			}
			if ref, _ := probe.Field(inner(v), "ResolvedRef"); !emptyValue(ref) {
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
			if typeName(v) != "" {
				return false
			}
			for _, f := range []string{"ResolvedRef", "Enum", "Const", "AnyOf", "OneOf", "AllOf"} {
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
			raw, _ := probe.Field(inner(v), "Enum")
			return !emptyValue(raw)
		},
		IsObject: func(v any) bool {
			return typeName(v) == "object" && (len(properties(v)) > 0 || !hasRecordValue(v))
		},
		IsRecord: func(v any) bool {
			return typeName(v) == "object" && len(properties(v)) == 0 && hasRecordValue(v)
		},
		IsArray: func(v any) bool {
			return typeName(v) == "array" && len(sliceField(inner(v), "PrefixItems")) == 0
		},
		IsTuple: func(v any) bool {
			return typeName(v) == "array" && len(sliceField(inner(v), "PrefixItems")) > 0
		},
		IsUnion: func(v any) bool {
			return len(unionOptions(v)) > 0
		},
		IsIntersection: func(v any) bool {
			return len(sliceField(inner(v), "AllOf")) > 0
		},

		ObjectEntries: objectEntries,
		ArrayElement: func(v any) any {
			raw, _ := probe.Field(inner(v), "Items")
			if emptyValue(raw) {
				return nil
			}
			return raw
		},
		RecordValue: func(v any) any {
			raw, _ := probe.Field(inner(v), "AdditionalProperties")
			if isSchemaValue(raw) {
				return raw
			}
			return nil
		},
		TupleItems: func(v any) []any {
			return sliceField(inner(v), "PrefixItems")
		},
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
		EnumValues: func(v any) []any {
			raw, _ := probe.Field(inner(v), "Enum")
			vals, _ := raw.([]any)
			return vals
		},

		Constraints: constraints,
		Metadata:    metadata,

		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				if r, ok := convention.EvaluationResult(ctx, inner(schema), data); ok {
					return r
				}
				return anyskema.FailMessage(anyskema.CodeUnsupported, "jsonschema: schema has no Validate method")
			})
		},
	})
}

// match requires a single-string Type field and the evaluation-object
// Validate; the Location field distinguishes santhosh-tekuri schemas, which
// carry a type list instead.
func match(v any) bool {
	if _, ok := v.(node); ok {
		return true
	}
	if probe.HasField(v, "Location") {
		return false
	}
	raw, ok := probe.Field(v, "Type")
	if !ok {
		return false
	}
	if _, isString := raw.(string); !isString {
		return false
	}
	return probe.HasMethod(v, "Validate", 1, 1)
}

func inner(v any) any {
	if n, ok := v.(node); ok {
		return n.schema
	}
	return v
}

func typeName(v any) string {
	t, _ := probe.StringField(inner(v), "Type")
	return t
}

func isType(name string) func(any) bool {
	return func(v any) bool {
		return typeName(v) == name
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
	if f, ok := floatPointer(s, "Minimum"); ok {
		cs.Min = anyskema.Float(f)
	}
	if f, ok := floatPointer(s, "Maximum"); ok {
		cs.Max = anyskema.Float(f)
	}
	if f, ok := floatPointer(s, "MinLength"); ok {
		cs.MinLength = anyskema.Int(int(f))
	}
	if f, ok := floatPointer(s, "MaxLength"); ok {
		cs.MaxLength = anyskema.Int(int(f))
	}
	if f, ok := floatPointer(s, "MinItems"); ok {
		cs.MinLength = anyskema.Int(int(f))
	}
	if f, ok := floatPointer(s, "MaxItems"); ok {
		cs.MaxLength = anyskema.Int(int(f))
	}
	if p, _ := probe.Field(s, "Pattern"); !emptyValue(p) {
		switch pat := p.(type) {
		case string:
			cs.Pattern = pat
		case *string:
			cs.Pattern = *pat
		case interface{ String() string }:
			cs.Pattern = pat.String()
		}
	}
	if f, _ := probe.Field(s, "Format"); !emptyValue(f) {
		switch fmt := f.(type) {
		case string:
			cs.Format = fmt
		case *string:
			cs.Format = *fmt
		}
	}
	if cs.IsZero() {
		return nil
	}
	return cs
}

// stringField reads a string annotation that may be stored behind a pointer.
func stringField(s any, name string) string {
	raw, _ := probe.Field(s, name)
	switch str := raw.(type) {
	case string:
		return str
	case *string:
		if str != nil {
			return *str
		}
	}
	return ""
}

// floatPointer reads a bound stored as a float or integer, possibly behind a
// pointer.
func floatPointer(s any, name string) (float64, bool) {
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
	switch {
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	}
	return 0, false
}

func metadata(v any) *anyskema.Metadata {
	s := inner(v)
	m := &anyskema.Metadata{}
	m.Title = stringField(s, "Title")
	m.Description = stringField(s, "Description")
	if d, _ := probe.Field(s, "Default"); !emptyValue(d) {
		m.Default = d
		m.HasDefault = true
	}
	if dep, _ := probe.Field(s, "Deprecated"); !emptyValue(dep) {
		switch b := dep.(type) {
		case bool:
			m.Deprecated = b
		case *bool:
			m.Deprecated = *b
		}
	}
	if m.IsZero() {
		return nil
	}
	return m
}
