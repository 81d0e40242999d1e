// Package zog is a miniature schema library used as adapter test input.
// Schemas are built fluently, carry an optional flag, and Validate returns a
// path-keyed issue map with "$root" for top-level issues.
package zog

import (
	"fmt"
	"time"
)

// Issue is one validation failure.
type Issue struct {
	Code    string
	Message string
}

// Validator is the surface every schema shares.
type Validator interface {
	Validate(data any) map[string][]Issue
	IsOptional() bool
}

type core struct {
	optional bool
	eval     func(v any, path string, issues map[string][]Issue)
}

func (c *core) IsOptional() bool { return c.optional }

func (c *core) Validate(data any) map[string][]Issue {
	issues := map[string][]Issue{}
	c.eval(data, "$root", issues)
	return issues
}

func add(issues map[string][]Issue, path, code, format string, args ...any) {
	issues[path] = append(issues[path], Issue{Code: code, Message: fmt.Sprintf(format, args...)})
}

// childPath joins a parent path with a key, keeping "$root" out of nested
// keys.
func childPath(path, key string) string {
	if path == "$root" {
		return key
	}
	return path + "." + key
}

// StringSchema validates strings.
type StringSchema struct {
	*core
	minLen int
	maxLen int
}

func String() *StringSchema {
	s := &StringSchema{minLen: -1, maxLen: -1}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		str, ok := v.(string)
		if !ok {
			add(issues, path, "invalid_type", "expected string, got %T", v)
			return
		}
		if s.minLen >= 0 && len(str) < s.minLen {
			add(issues, path, "min", "string must contain at least %d character(s)", s.minLen)
		}
		if s.maxLen >= 0 && len(str) > s.maxLen {
			add(issues, path, "max", "string must contain at most %d character(s)", s.maxLen)
		}
	}}
	return s
}

func (s *StringSchema) Min(n int) *StringSchema { s.minLen = n; return s }
func (s *StringSchema) Max(n int) *StringSchema { s.maxLen = n; return s }
func (s *StringSchema) Optional() *StringSchema { s.optional = true; return s }

// Float64Schema validates numbers.
type Float64Schema struct {
	*core
}

func Float64() *Float64Schema {
	s := &Float64Schema{}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		switch v.(type) {
		case float64, float32, int, int64:
		default:
			add(issues, path, "invalid_type", "expected number, got %T", v)
		}
	}}
	return s
}

func (s *Float64Schema) Optional() *Float64Schema { s.optional = true; return s }

// IntSchema validates integers.
type IntSchema struct {
	*core
}

func Int() *IntSchema {
	s := &IntSchema{}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		switch n := v.(type) {
		case int, int64:
		case float64:
			if n != float64(int64(n)) {
				add(issues, path, "invalid_type", "expected integer, got %v", n)
			}
		default:
			add(issues, path, "invalid_type", "expected integer, got %T", v)
		}
	}}
	return s
}

func (s *IntSchema) Optional() *IntSchema { s.optional = true; return s }

// BoolSchema validates booleans.
type BoolSchema struct {
	*core
}

func Bool() *BoolSchema {
	s := &BoolSchema{}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		if _, ok := v.(bool); !ok {
			add(issues, path, "invalid_type", "expected bool, got %T", v)
		}
	}}
	return s
}

func (s *BoolSchema) Optional() *BoolSchema { s.optional = true; return s }

// TimeSchema validates time values.
type TimeSchema struct {
	*core
}

func Time() *TimeSchema {
	s := &TimeSchema{}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		switch t := v.(type) {
		case time.Time:
		case string:
			if _, err := time.Parse(time.RFC3339, t); err != nil {
				add(issues, path, "invalid_type", "expected RFC3339 time: %v", err)
			}
		default:
			add(issues, path, "invalid_type", "expected time, got %T", v)
		}
	}}
	return s
}

func (s *TimeSchema) Optional() *TimeSchema { s.optional = true; return s }

// StructSchema validates string-keyed objects against a shape.
type StructSchema struct {
	*core
	shape map[string]any
}

func Struct(shape map[string]any) *StructSchema {
	s := &StructSchema{shape: shape}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		m, ok := v.(map[string]any)
		if !ok {
			add(issues, path, "invalid_type", "expected object, got %T", v)
			return
		}
		for k, child := range shape {
			sub, ok := child.(Validator)
			if !ok {
				continue
			}
			val, present := m[k]
			if !present {
				if !sub.IsOptional() {
					add(issues, childPath(path, k), "required", "is required")
				}
				continue
			}
			merge(issues, childPath(path, k), sub.Validate(val))
		}
	}}
	return s
}

func (s *StructSchema) Shape() map[string]any   { return s.shape }
func (s *StructSchema) Optional() *StructSchema { s.optional = true; return s }

// SliceSchema validates homogeneous arrays.
type SliceSchema struct {
	*core
	element any
}

func Slice(element any) *SliceSchema {
	s := &SliceSchema{element: element}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		arr, ok := v.([]any)
		if !ok {
			add(issues, path, "invalid_type", "expected slice, got %T", v)
			return
		}
		sub, ok := element.(Validator)
		if !ok {
			return
		}
		for i, item := range arr {
			key := fmt.Sprintf("[%d]", i)
			if path != "$root" {
				key = fmt.Sprintf("%s[%d]", path, i)
			}
			merge(issues, key, sub.Validate(item))
		}
	}}
	return s
}

func (s *SliceSchema) Element() any           { return s.element }
func (s *SliceSchema) Optional() *SliceSchema { s.optional = true; return s }

// MapSchema validates string-keyed maps with one value schema.
type MapSchema struct {
	*core
	value any
}

func Map(value any) *MapSchema {
	s := &MapSchema{value: value}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		m, ok := v.(map[string]any)
		if !ok {
			add(issues, path, "invalid_type", "expected map, got %T", v)
			return
		}
		sub, ok := value.(Validator)
		if !ok {
			return
		}
		for k, val := range m {
			merge(issues, childPath(path, k), sub.Validate(val))
		}
	}}
	return s
}

func (s *MapSchema) ValueSchema() any     { return s.value }
func (s *MapSchema) Optional() *MapSchema { s.optional = true; return s }

// PtrSchema wraps a schema, additionally accepting nil.
type PtrSchema struct {
	*core
	inner any
}

func Ptr(inner any) *PtrSchema {
	s := &PtrSchema{inner: inner}
	s.core = &core{eval: func(v any, path string, issues map[string][]Issue) {
		if v == nil {
			return
		}
		if sub, ok := inner.(Validator); ok {
			merge(issues, path, sub.Validate(v))
		}
	}}
	return s
}

func (s *PtrSchema) Inner() any           { return s.inner }
func (s *PtrSchema) Optional() *PtrSchema { s.optional = true; return s }

// merge rebases a child's issue map onto the parent path.
func merge(issues map[string][]Issue, base string, child map[string][]Issue) {
	for k, list := range child {
		key := base
		if k != "$root" {
			key = childPath(base, k)
		}
		issues[key] = append(issues[key], list...)
	}
}
