// Package gozod provides in-memory stand-ins that mirror the exported
// runtime shape of gozod schema values (GetInternals/SafeParse). Adapters
// identify schemas purely by duck typing, so these fixtures are genuine
// adapter inputs; the test suites across the repository build vendor schemas
// from them.
package gozod

import (
	"fmt"
	"reflect"
	"time"
)

// Internals is the definition record every gozod schema exposes.
type Internals struct {
	Type         string
	Inner        any
	Getter       func() any
	DefaultValue any
	Keys         []string
	Properties   map[string]any
	Element      any
	Options      []any
	Items        []any
	Members      []any
	KeyType      any
	ValueType    any
	Literal      any
	Checks       []Check
	Title        string
	Description  string
	Examples     []any
	Deprecated   bool
}

// Check is one attached refinement.
type Check struct {
	Kind  string
	Value any
}

// Issue is gozod's native issue shape.
type Issue struct {
	Message string
	Path    []any
}

// ParseResult is gozod's native SafeParse envelope.
type ParseResult struct {
	Success bool
	Data    any
	Issues  []Issue
}

// Schema is a gozod schema node.
type Schema struct {
	internals *Internals
}

// GetInternals exposes the definition record.
func (s *Schema) GetInternals() *Internals { return s.internals }

// SafeParse validates data against the schema and returns the native result
// envelope.
func (s *Schema) SafeParse(data any) *ParseResult {
	v, iss := s.eval(data, nil)
	if len(iss) > 0 {
		return &ParseResult{Issues: iss}
	}
	return &ParseResult{Success: true, Data: v}
}

// ---- constructors ----

func node(in Internals) *Schema { return &Schema{internals: &in} }

func String() *Schema { return node(Internals{Type: "string"}) }
func Number() *Schema { return node(Internals{Type: "number"}) }
func Int() *Schema    { return node(Internals{Type: "int"}) }
func Bool() *Schema   { return node(Internals{Type: "bool"}) }
func Nil() *Schema    { return node(Internals{Type: "nil"}) }
func Any() *Schema    { return node(Internals{Type: "any"}) }
func Never() *Schema  { return node(Internals{Type: "never"}) }
func Time() *Schema   { return node(Internals{Type: "time"}) }
func Bytes() *Schema  { return node(Internals{Type: "bytes"}) }

func Literal(v any) *Schema { return node(Internals{Type: "literal", Literal: v}) }

func Union(options ...*Schema) *Schema {
	opts := make([]any, len(options))
	for i, o := range options {
		opts[i] = o
	}
	return node(Internals{Type: "union", Options: opts})
}

// Enum builds gozod's enum representation: a union of literals.
func Enum(values ...any) *Schema {
	opts := make([]*Schema, len(values))
	for i, v := range values {
		opts[i] = Literal(v)
	}
	return Union(opts...)
}

// Field is one object property in declaration order.
type Field struct {
	Name   string
	Schema *Schema
}

func Object(fields ...Field) *Schema {
	keys := make([]string, 0, len(fields))
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Name)
		props[f.Name] = f.Schema
	}
	return node(Internals{Type: "object", Keys: keys, Properties: props})
}

func Array(elem *Schema) *Schema { return node(Internals{Type: "array", Element: elem}) }
func Set(elem *Schema) *Schema   { return node(Internals{Type: "set", Element: elem}) }

func Tuple(items ...*Schema) *Schema {
	is := make([]any, len(items))
	for i, it := range items {
		is[i] = it
	}
	return node(Internals{Type: "tuple", Items: is})
}

func Record(key, value *Schema) *Schema {
	return node(Internals{Type: "record", KeyType: key, ValueType: value})
}

func Intersection(members ...*Schema) *Schema {
	ms := make([]any, len(members))
	for i, m := range members {
		ms[i] = m
	}
	return node(Internals{Type: "intersection", Members: ms})
}

func Optional(inner *Schema) *Schema { return node(Internals{Type: "optional", Inner: inner}) }
func Nullable(inner *Schema) *Schema { return node(Internals{Type: "nullable", Inner: inner}) }
func Transform(inner *Schema) *Schema {
	return node(Internals{Type: "transform", Inner: inner})
}
func Branded(inner *Schema) *Schema { return node(Internals{Type: "branded", Inner: inner}) }

func Default(inner *Schema, value any) *Schema {
	return node(Internals{Type: "default", Inner: inner, DefaultValue: value})
}

func Catch(inner *Schema, fallback any) *Schema {
	return node(Internals{Type: "catch", Inner: inner, DefaultValue: fallback})
}

func Lazy(getter func() any) *Schema { return node(Internals{Type: "lazy", Getter: getter}) }

// WithChecks returns a copy of s carrying the given checks.
func (s *Schema) WithChecks(checks ...Check) *Schema {
	in := *s.internals
	in.Checks = append(append([]Check{}, in.Checks...), checks...)
	return &Schema{internals: &in}
}

// WithMeta returns a copy of s carrying title/description annotations.
func (s *Schema) WithMeta(title, description string) *Schema {
	in := *s.internals
	in.Title = title
	in.Description = description
	return &Schema{internals: &in}
}

// ---- native evaluation (what the real library's SafeParse does) ----

func (s *Schema) eval(data any, path []any) (any, []Issue) {
	in := s.internals
	switch in.Type {
	case "optional":
		if data == nil {
			return nil, nil
		}
		return child(in.Inner).eval(data, path)
	case "nullable":
		if data == nil {
			return nil, nil
		}
		return child(in.Inner).eval(data, path)
	case "default":
		if data == nil {
			return in.DefaultValue, nil
		}
		return child(in.Inner).eval(data, path)
	case "catch":
		v, iss := child(in.Inner).eval(data, path)
		if len(iss) > 0 {
			return in.DefaultValue, nil
		}
		return v, nil
	case "transform", "branded":
		return child(in.Inner).eval(data, path)
	case "lazy":
		return child(in.Getter()).eval(data, path)

	case "string":
		str, ok := data.(string)
		if !ok {
			return nil, fail(path, "expected string, got %T", data)
		}
		if iss := checkLen(in.Checks, len(str), path); iss != nil {
			return nil, iss
		}
		return str, nil
	case "number", "int":
		f, ok := asNumber(data)
		if !ok {
			return nil, fail(path, "expected number, got %T", data)
		}
		for _, c := range in.Checks {
			if cv, ok := asNumber(c.Value); ok {
				if c.Kind == "min" && f < cv {
					return nil, fail(path, "number below minimum %v", c.Value)
				}
				if c.Kind == "max" && f > cv {
					return nil, fail(path, "number above maximum %v", c.Value)
				}
			}
		}
		return data, nil
	case "bool":
		if _, ok := data.(bool); !ok {
			return nil, fail(path, "expected bool, got %T", data)
		}
		return data, nil
	case "nil":
		if data != nil {
			return nil, fail(path, "expected nil, got %T", data)
		}
		return nil, nil
	case "time":
		if _, ok := data.(time.Time); !ok {
			return nil, fail(path, "expected time.Time, got %T", data)
		}
		return data, nil
	case "bytes":
		if _, ok := data.([]byte); !ok {
			return nil, fail(path, "expected []byte, got %T", data)
		}
		return data, nil
	case "literal":
		if !reflect.DeepEqual(data, in.Literal) {
			return nil, fail(path, "expected literal %v", in.Literal)
		}
		return data, nil
	case "never":
		return nil, fail(path, "no value is allowed")
	case "any", "unknown", "custom":
		return data, nil

	case "union":
		for _, o := range in.Options {
			if v, iss := child(o).eval(data, path); len(iss) == 0 {
				return v, nil
			}
		}
		return nil, fail(path, "no union option matched")

	case "object":
		m, ok := data.(map[string]any)
		if !ok {
			return nil, fail(path, "expected object, got %T", data)
		}
		out := make(map[string]any, len(m))
		var iss []Issue
		for _, k := range in.Keys {
			cs := child(in.Properties[k])
			cv, present := m[k]
			if !present {
				switch cs.internals.Type {
				case "optional":
					continue
				case "default":
					out[k] = cs.internals.DefaultValue
					continue
				default:
					iss = append(iss, Issue{Message: "required property missing", Path: append(append([]any{}, path...), k)})
					continue
				}
			}
			v, cErr := cs.eval(cv, append(append([]any{}, path...), k))
			if len(cErr) > 0 {
				iss = append(iss, cErr...)
				continue
			}
			out[k] = v
		}
		for k, v := range m {
			if _, known := in.Properties[k]; !known {
				out[k] = v
			}
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil

	case "array", "set", "tuple":
		items, ok := data.([]any)
		if !ok {
			return nil, fail(path, "expected array, got %T", data)
		}
		var iss []Issue
		out := make([]any, 0, len(items))
		if in.Type == "tuple" {
			if len(items) != len(in.Items) {
				return nil, fail(path, "expected %d items, got %d", len(in.Items), len(items))
			}
			for i, it := range items {
				v, cErr := child(in.Items[i]).eval(it, append(append([]any{}, path...), i))
				iss = append(iss, cErr...)
				out = append(out, v)
			}
		} else {
			for i, it := range items {
				v, cErr := child(in.Element).eval(it, append(append([]any{}, path...), i))
				iss = append(iss, cErr...)
				out = append(out, v)
			}
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil

	case "record", "map":
		m, ok := data.(map[string]any)
		if !ok {
			return nil, fail(path, "expected object, got %T", data)
		}
		var iss []Issue
		out := make(map[string]any, len(m))
		for k, v := range m {
			cv, cErr := child(in.ValueType).eval(v, append(append([]any{}, path...), k))
			iss = append(iss, cErr...)
			out[k] = cv
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil

	case "intersection":
		for _, m := range in.Members {
			if _, iss := child(m).eval(data, path); len(iss) > 0 {
				return nil, iss
			}
		}
		return data, nil
	}
	return data, nil
}

func child(v any) *Schema {
	if s, ok := v.(*Schema); ok {
		return s
	}
	return Any()
}

func checkLen(checks []Check, n int, path []any) []Issue {
	for _, c := range checks {
		cv, ok := asNumber(c.Value)
		if !ok {
			continue
		}
		if c.Kind == "min_length" && float64(n) < cv {
			return fail(path, "too short: length %d < %v", n, c.Value)
		}
		if c.Kind == "max_length" && float64(n) > cv {
			return fail(path, "too long: length %d > %v", n, c.Value)
		}
	}
	return nil
}

func asNumber(v any) (float64, bool) {
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

func fail(path []any, format string, args ...any) []Issue {
	return []Issue{{Message: fmt.Sprintf(format, args...), Path: path}}
}
