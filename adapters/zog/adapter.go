// Package zog adapts zog schemas. Schemas are matched by package path (the
// schema structs expose nothing structural to probe), classified by type
// name, and validated through the issue-map convention: Validate(v) returns
// a path-keyed map of issues, empty meaning success.
package zog

import (
	"context"
	"sort"
	"strings"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for zog schemas.
const Vendor = "zog"

// New returns the zog adapter.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match: func(v any) bool {
			return probe.PkgPathHasSuffix(v, "/zog")
		},

		IsOptional: func(v any) bool {
			b, ok := callBool(v, "IsOptional")
			return ok && b
		},
		IsNullable: isKind("PtrSchema"),
		Unwrap: func(v any) any {
			out, err := probe.CallMethod(v, "Inner")
			if err != nil || len(out) == 0 || probe.IsNilValue(out[0]) {
				return nil
			}
			return out[0].Interface()
		},

		IsString:  isKind("StringSchema"),
		IsNumber:  isKind("Float", "NumberSchema"),
		IsInteger: isKind("IntSchema"),
		IsBoolean: isKind("BoolSchema"),
		IsTime:    isKind("TimeSchema"),
		IsObject:  isKind("StructSchema", "ObjectSchema"),
		IsArray:   isKind("SliceSchema"),
		IsMap:     isKind("MapSchema"),

		ObjectEntries: func(v any) []anyskema.ObjectEntry {
			out, err := probe.CallMethod(v, "Shape")
			if err != nil || len(out) == 0 {
				return nil
			}
			shape, ok := out[0].Interface().(map[string]any)
			if !ok {
				return nil
			}
			keys := make([]string, 0, len(shape))
			for k := range shape {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			entries := make([]anyskema.ObjectEntry, 0, len(keys))
			for _, k := range keys {
				entries = append(entries, anyskema.ObjectEntry{Key: k, Value: shape[k]})
			}
			return entries
		},
		ArrayElement: func(v any) any {
			out, err := probe.CallMethod(v, "Element")
			if err != nil || len(out) == 0 || probe.IsNilValue(out[0]) {
				return nil
			}
			return out[0].Interface()
		},
		MapValue: func(v any) any {
			out, err := probe.CallMethod(v, "ValueSchema")
			if err != nil || len(out) == 0 || probe.IsNilValue(out[0]) {
				return nil
			}
			return out[0].Interface()
		},

		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				if r, ok := convention.IssueMap(ctx, schema, data); ok {
					return r
				}
				return anyskema.FailMessage(anyskema.CodeUnsupported, "zog: schema has no Validate method")
			})
		},
	})
}

// isKind matches the schema's dynamic type name against known zog schema
// struct names.
func isKind(names ...string) func(any) bool {
	return func(v any) bool {
		t := probe.TypeName(v)
		for _, n := range names {
			if strings.Contains(t, n) {
				return true
			}
		}
		return false
	}
}

func callBool(v any, name string) (bool, bool) {
	if !probe.HasMethod(v, name, 0, 1) {
		return false, false
	}
	out, err := probe.CallMethod(v, name)
	if err != nil || len(out) == 0 {
		return false, false
	}
	b, ok := out[0].Interface().(bool)
	return b, ok
}
