// Package goskema adapts goskema schemas. A goskema schema is recognized by
// its two-phase check surface (TypeCheck and RuleCheck), its context-aware
// Validate, and its JSONSchema export; classification reads the exported
// schema document through reflection, so no goskema import is needed.
package goskema

import (
	"context"
	"reflect"
	"sort"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for goskema schemas.
const Vendor = "goskema"

// node carries one projected schema document plus the optional flag derived
// from the parent's Required list. Returned as child values so probes can
// classify properties without re-invoking JSONSchema on the root.
type node struct {
	doc      any
	optional bool
}

// New returns the goskema adapter.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match: func(v any) bool {
			if _, ok := v.(node); ok {
				return true
			}
			return probe.HasMethod(v, "TypeCheck", 2, 1) &&
				probe.HasMethod(v, "RuleCheck", 2, 1) &&
				probe.HasMethod(v, "Validate", 2, 1) &&
				probe.HasMethod(v, "JSONSchema", 0, 2)
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
			doc, ok := project(v)
			if !ok {
				return false
			}
			t, _ := probe.StringField(doc, "Type")
			return t == "" && len(oneOf(doc)) == 0
		},
		IsObject: func(v any) bool {
			doc, ok := project(v)
			if !ok {
				return false
			}
			t, _ := probe.StringField(doc, "Type")
			if t != "object" {
				return false
			}
			return len(properties(doc)) > 0 || !hasAdditional(doc)
		},
		IsRecord: func(v any) bool {
			doc, ok := project(v)
			if !ok {
				return false
			}
			t, _ := probe.StringField(doc, "Type")
			return t == "object" && len(properties(doc)) == 0 && hasAdditional(doc)
		},
		IsArray: isType("array"),
		IsUnion: func(v any) bool {
			doc, ok := project(v)
			return ok && len(oneOf(doc)) > 0
		},

		ObjectEntries: objectEntries,
		ArrayElement: func(v any) any {
			doc, ok := project(v)
			if !ok {
				return nil
			}
			items, ok := probe.Field(doc, "Items")
			if !ok || items == nil {
				return nil
			}
			return node{doc: items}
		},
		RecordValue: func(v any) any {
			doc, ok := project(v)
			if !ok {
				return nil
			}
			addl, ok := probe.Field(doc, "AdditionalProperties")
			if !ok {
				return nil
			}
			if _, isSchema := probe.Field(addl, "Type"); !isSchema {
				return nil
			}
			return node{doc: addl}
		},
		UnionOptions: func(v any) []any {
			doc, ok := project(v)
			if !ok {
				return nil
			}
			opts := oneOf(doc)
			out := make([]any, len(opts))
			for i, o := range opts {
				out[i] = node{doc: o}
			}
			return out
		},

		Constraints: func(v any) *anyskema.Constraints {
			doc, ok := project(v)
			if !ok {
				return nil
			}
			cs := &anyskema.Constraints{}
			cs.Format, _ = probe.StringField(doc, "Format")
			if n, ok := intField(doc, "MinItems"); ok {
				cs.MinLength = anyskema.Int(n)
			}
			if n, ok := intField(doc, "MaxItems"); ok {
				cs.MaxLength = anyskema.Int(n)
			}
			if cs.IsZero() {
				return nil
			}
			return cs
		},
		Metadata: func(v any) *anyskema.Metadata {
			doc, ok := project(v)
			if !ok {
				return nil
			}
			d, ok := probe.Field(doc, "Default")
			if !ok || d == nil {
				return nil
			}
			return &anyskema.Metadata{Default: d, HasDefault: true}
		},

		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				if r, ok := convention.ContextValidate(ctx, schema, data); ok {
					return r
				}
				return anyskema.FailMessage(anyskema.CodeUnsupported, "goskema: schema has no Validate method")
			})
		},
	})
}

func isType(name string) func(any) bool {
	return func(v any) bool {
		doc, ok := project(v)
		if !ok {
			return false
		}
		t, _ := probe.StringField(doc, "Type")
		return t == name
	}
}

// project yields the schema document for a value: the node's document if the
// value is already a projected child, otherwise the result of JSONSchema().
func project(v any) (any, bool) {
	if n, ok := v.(node); ok {
		return n.doc, n.doc != nil
	}
	out, err := probe.CallMethod(v, "JSONSchema")
	if err != nil || len(out) != 2 {
		return nil, false
	}
	if e, isErr := probe.AsError(out[1]); isErr && e != nil {
		return nil, false
	}
	if probe.IsNilValue(out[0]) {
		return nil, false
	}
	return out[0].Interface(), true
}

func objectEntries(v any) []anyskema.ObjectEntry {
	doc, ok := project(v)
	if !ok {
		return nil
	}
	props := properties(doc)
	required := map[string]bool{}
	if req, ok := probe.Field(doc, "Required"); ok {
		rv := reflect.ValueOf(req)
		if rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				if s, ok := rv.Index(i).Interface().(string); ok {
					required[s] = true
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
			Value: node{doc: props[k], optional: !required[k]},
		})
	}
	return entries
}

// properties reads the Properties map field, whatever its concrete schema
// type, into a name-to-document map.
func properties(doc any) map[string]any {
	raw, ok := probe.Field(doc, "Properties")
	if !ok || raw == nil {
		return nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, ok := iter.Key().Interface().(string)
		if !ok {
			continue
		}
		out[k] = iter.Value().Interface()
	}
	return out
}

func oneOf(doc any) []any {
	raw, ok := probe.Field(doc, "OneOf")
	if !ok || raw == nil {
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

func hasAdditional(doc any) bool {
	addl, ok := probe.Field(doc, "AdditionalProperties")
	return ok && addl != nil
}

// intField reads an int-typed field that may sit behind a pointer.
func intField(doc any, name string) (int, bool) {
	raw, ok := probe.Field(doc, name)
	if !ok || raw == nil {
		return 0, false
	}
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	if rv.CanInt() {
		return int(rv.Int()), true
	}
	return 0, false
}
