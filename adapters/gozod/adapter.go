// Package gozod adapts schemas built with the gozod validation library (a
// Zod port for Go). gozod schema values expose their definition through a
// GetInternals method and validate through SafeParse; both are reached via
// reflection so gozod itself is never imported.
package gozod

import (
	"context"
	"reflect"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for gozod schemas.
const Vendor = "gozod"

// New returns the gozod adapter.
//
// gozod has no first-class enum node: it models enums as unions whose options
// are all literals. The IsUnion probe therefore excludes all-literal unions
// and IsEnum claims them, so a node is never classified twice.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match: func(v any) bool {
			return probe.HasMethod(v, "GetInternals", 0, 1) && probe.HasMethod(v, "SafeParse", -1, -1)
		},

		IsOptional:  is("optional"),
		IsNullable:  is("nullable"),
		IsDefault:   is("default"),
		IsTransform: is("transform"),
		IsLazy:      is("lazy"),
		IsBranded:   is("branded"),
		IsCatch:     is("catch"),

		IsString:   is("string"),
		IsNumber:   is("number"),
		IsInteger:  is("int"),
		IsBoolean:  is("bool"),
		IsNull:     is("nil"),
		IsAny:      is("any"),
		IsUnknown:  is("unknown"),
		IsNever:    is("never"),
		IsTime:     is("time"),
		IsDuration: is("duration"),
		IsBigInt:   is("bigint"),
		IsBytes:    is("bytes"),
		IsLiteral:  is("literal"),
		IsEnum: func(v any) bool {
			return kindOf(v) == "union" && allLiteralOptions(v)
		},
		IsObject: is("object"),
		IsArray:  is("array"),
		IsTuple:  is("tuple"),
		IsUnion: func(v any) bool {
			return kindOf(v) == "union" && !allLiteralOptions(v)
		},
		IsIntersection: is("intersection"),
		IsRecord:       is("record"),
		IsMap:          is("map"),
		IsSet:          is("set"),
		IsFunc:         is("function"),
		IsChan:         is("chan"),
		IsTypeOf:       is("custom"),

		Unwrap: unwrap,

		ObjectEntries: objectEntries,
		ArrayElement:  innerField("Element"),
		UnionOptions:  options,
		TupleItems:    sliceField("Items"),
		IntersectionSchemas: func(v any) []any {
			if kindOf(v) != "intersection" {
				return nil
			}
			return rawSliceField(v, "Members")
		},
		RecordKey:   innerField("KeyType"),
		RecordValue: innerField("ValueType"),
		MapKey:      innerField("KeyType"),
		MapValue:    innerField("ValueType"),
		SetElement:  innerField("Element"),
		LiteralValue: func(v any) (any, bool) {
			if kindOf(v) != "literal" {
				return nil, false
			}
			in, _ := internals(v)
			lv, ok := probe.Field(in, "Literal")
			return lv, ok
		},
		EnumValues: enumValues,
		DefaultValue: func(v any) (any, bool) {
			if kindOf(v) != "default" {
				return nil, false
			}
			in, _ := internals(v)
			dv, ok := probe.Field(in, "DefaultValue")
			return dv, ok
		},

		Constraints: constraints,
		Metadata:    metadata,

		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				if r, ok := convention.SafeParse(ctx, schema, data); ok {
					return r
				}
				return anyskema.FailMessage(anyskema.CodeUnsupported, "gozod: schema does not expose SafeParse")
			})
		},
	})
}

func internals(v any) (any, bool) {
	out, err := probe.CallMethod(v, "GetInternals")
	if err != nil || len(out) != 1 || probe.IsNilValue(out[0]) {
		return nil, false
	}
	return out[0].Interface(), true
}

func kindOf(v any) string {
	in, ok := internals(v)
	if !ok {
		return ""
	}
	t, _ := probe.StringField(in, "Type")
	return t
}

func is(kind string) func(any) bool {
	return func(v any) bool { return kindOf(v) == kind }
}

func unwrap(v any) any {
	in, ok := internals(v)
	if !ok {
		return nil
	}
	t, _ := probe.StringField(in, "Type")
	switch t {
	case "optional", "nullable", "default", "transform", "branded", "catch":
		inner, _ := probe.Field(in, "Inner")
		return inner
	case "lazy":
		g, ok := probe.Field(in, "Getter")
		if !ok || g == nil {
			return nil
		}
		out, err := probe.Call(reflect.ValueOf(g))
		if err != nil || len(out) != 1 || probe.IsNilValue(out[0]) {
			return nil
		}
		return out[0].Interface()
	}
	return nil
}

func objectEntries(v any) []anyskema.ObjectEntry {
	if kindOf(v) != "object" {
		return nil
	}
	in, _ := internals(v)
	propsVal, ok := probe.Field(in, "Properties")
	if !ok {
		return nil
	}
	props, ok := propsVal.(map[string]any)
	if !ok {
		return nil
	}
	keysVal, _ := probe.Field(in, "Keys")
	keys, _ := keysVal.([]string)
	if len(keys) == 0 {
		for k := range props {
			keys = append(keys, k)
		}
	}
	entries := make([]anyskema.ObjectEntry, 0, len(keys))
	for _, k := range keys {
		if child, ok := props[k]; ok {
			entries = append(entries, anyskema.ObjectEntry{Key: k, Value: child})
		}
	}
	return entries
}

func options(v any) []any {
	if kindOf(v) != "union" || allLiteralOptions(v) {
		return nil
	}
	return rawSliceField(v, "Options")
}

func allLiteralOptions(v any) bool {
	opts := rawSliceField(v, "Options")
	if len(opts) == 0 {
		return false
	}
	for _, o := range opts {
		if kindOf(o) != "literal" {
			return false
		}
	}
	return true
}

func enumValues(v any) []any {
	if kindOf(v) != "union" || !allLiteralOptions(v) {
		return nil
	}
	opts := rawSliceField(v, "Options")
	values := make([]any, 0, len(opts))
	for _, o := range opts {
		in, _ := internals(o)
		if lv, ok := probe.Field(in, "Literal"); ok {
			values = append(values, lv)
		}
	}
	return values
}

func rawSliceField(v any, name string) []any {
	in, ok := internals(v)
	if !ok {
		return nil
	}
	f, ok := probe.Field(in, name)
	if !ok || f == nil {
		return nil
	}
	s, _ := f.([]any)
	return s
}

func sliceField(name string) func(any) []any {
	return func(v any) []any { return rawSliceField(v, name) }
}

func innerField(name string) func(any) any {
	return func(v any) any {
		in, ok := internals(v)
		if !ok {
			return nil
		}
		f, _ := probe.Field(in, name)
		return f
	}
}

// constraints maps gozod's known check kinds into the shared vocabulary.
// Anything else ("starts_with", custom refinements, ...) is dropped.
func constraints(v any) *anyskema.Constraints {
	in, ok := internals(v)
	if !ok {
		return nil
	}
	checksVal, ok := probe.Field(in, "Checks")
	if !ok || checksVal == nil {
		return nil
	}
	rv := reflect.ValueOf(checksVal)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	cs := &anyskema.Constraints{}
	for i := 0; i < rv.Len(); i++ {
		check := rv.Index(i).Interface()
		kind, _ := probe.StringField(check, "Kind")
		val, _ := probe.Field(check, "Value")
		switch kind {
		case "min":
			if f, ok := asFloat(val); ok {
				cs.Min = anyskema.Float(f)
			}
		case "max":
			if f, ok := asFloat(val); ok {
				cs.Max = anyskema.Float(f)
			}
		case "min_length":
			if f, ok := asFloat(val); ok {
				cs.MinLength = anyskema.Int(int(f))
			}
		case "max_length":
			if f, ok := asFloat(val); ok {
				cs.MaxLength = anyskema.Int(int(f))
			}
		case "regex":
			if s, ok := val.(string); ok {
				cs.Pattern = s
			}
		case "format":
			if s, ok := val.(string); ok {
				cs.Format = s
			}
		}
	}
	if cs.IsZero() {
		return nil
	}
	return cs
}

func metadata(v any) *anyskema.Metadata {
	in, ok := internals(v)
	if !ok {
		return nil
	}
	m := &anyskema.Metadata{}
	m.Title, _ = probe.StringField(in, "Title")
	m.Description, _ = probe.StringField(in, "Description")
	if ex, ok := probe.Field(in, "Examples"); ok {
		m.Examples, _ = ex.([]any)
	}
	if d, ok := probe.Field(in, "Deprecated"); ok {
		m.Deprecated, _ = d.(bool)
	}
	if m.IsZero() {
		return nil
	}
	return m
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
