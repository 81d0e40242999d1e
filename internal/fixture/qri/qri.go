// Package qri is a miniature schema library used as adapter test input. The
// schema is a keyword bag read through JSONProp, keywords are named types,
// and validation takes raw JSON bytes and returns key errors carrying
// property paths.
package qri

import (
	"context"
	"fmt"
	"reflect"
	"regexp"

	j "github.com/goccy/go-json"
)

// Named keyword types, one per JSON Schema keyword.
type (
	Type        string
	Const       struct{ Value any }
	Enum        []any
	Minimum     float64
	Maximum     float64
	MinLength   float64
	MaxLength   float64
	MinItems    float64
	MaxItems    float64
	Pattern     string
	Format      string
	Title       string
	Description string
	Default     struct{ Value any }
	Properties  map[string]*Schema
	Required    []string
)

func (t Type) String() string { return string(t) }

// Schema is a keyword bag.
type Schema struct {
	keywords map[string]any
}

// New builds a schema from keyword values. Schema-valued keywords (items as
// a single *Schema, additionalProperties, anyOf/oneOf/allOf as []*Schema)
// are stored as given.
func New(keywords map[string]any) *Schema {
	return &Schema{keywords: keywords}
}

// JSONProp returns the named keyword value, nil when absent.
func (s *Schema) JSONProp(name string) any {
	v, ok := s.keywords[name]
	if !ok {
		return nil
	}
	return v
}

// KeyError is one validation failure at a property path.
type KeyError struct {
	PropertyPath string
	InvalidValue any
	Message      string
}

func (e KeyError) Error() string {
	return fmt.Sprintf("%s: %s", e.PropertyPath, e.Message)
}

// ValidateBytes unmarshals data and evaluates it against the schema.
func (s *Schema) ValidateBytes(ctx context.Context, data []byte) ([]KeyError, error) {
	var v any
	if err := j.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("qri: unmarshal data: %w", err)
	}
	var errs []KeyError
	s.evaluate(v, "/", &errs)
	return errs, nil
}

func (s *Schema) evaluate(v any, path string, errs *[]KeyError) {
	fail := func(format string, args ...any) {
		*errs = append(*errs, KeyError{PropertyPath: path, InvalidValue: v, Message: fmt.Sprintf(format, args...)})
	}
	join := func(base, seg string) string {
		if base == "/" {
			return "/" + seg
		}
		return base + "/" + seg
	}

	if t, ok := s.keywords["type"].(Type); ok && !typeMatches(string(t), v) {
		fail("type should be %s", t)
		return
	}
	if c, ok := s.keywords["const"].(Const); ok && !reflect.DeepEqual(v, c.Value) {
		fail("must equal %v", c.Value)
	}
	if e, ok := s.keywords["enum"].(Enum); ok {
		found := false
		for _, opt := range e {
			if reflect.DeepEqual(v, opt) {
				found = true
				break
			}
		}
		if !found {
			fail("should be one of %v", []any(e))
		}
	}

	if str, ok := v.(string); ok {
		if min, ok := s.keywords["minLength"].(MinLength); ok && float64(len(str)) < float64(min) {
			fail("min length of %v characters required", float64(min))
		}
		if max, ok := s.keywords["maxLength"].(MaxLength); ok && float64(len(str)) > float64(max) {
			fail("max length of %v characters exceeded", float64(max))
		}
		if p, ok := s.keywords["pattern"].(Pattern); ok {
			if re, err := regexp.Compile(string(p)); err == nil && !re.MatchString(str) {
				fail("regexp pattern %s mismatch", p)
			}
		}
	}
	if f, ok := numeric(v); ok {
		if min, ok := s.keywords["minimum"].(Minimum); ok && f < float64(min) {
			fail("must be greater than or equal to %v", float64(min))
		}
		if max, ok := s.keywords["maximum"].(Maximum); ok && f > float64(max) {
			fail("must be less than or equal to %v", float64(max))
		}
	}

	if m, ok := v.(map[string]any); ok {
		if req, ok := s.keywords["required"].(Required); ok {
			for _, k := range req {
				if _, present := m[k]; !present {
					*errs = append(*errs, KeyError{
						PropertyPath: join(path, k),
						Message:      fmt.Sprintf("%q value is required", k),
					})
				}
			}
		}
		if props, ok := s.keywords["properties"].(Properties); ok {
			for k, sub := range props {
				if val, present := m[k]; present {
					sub.evaluate(val, join(path, k), errs)
				}
			}
			if addl, ok := s.keywords["additionalProperties"].(*Schema); ok {
				for k, val := range m {
					if _, declared := props[k]; !declared {
						addl.evaluate(val, join(path, k), errs)
					}
				}
			}
		} else if addl, ok := s.keywords["additionalProperties"].(*Schema); ok {
			for k, val := range m {
				addl.evaluate(val, join(path, k), errs)
			}
		}
	}

	if arr, ok := v.([]any); ok {
		if min, ok := s.keywords["minItems"].(MinItems); ok && float64(len(arr)) < float64(min) {
			fail("minimum of %v items required", float64(min))
		}
		if max, ok := s.keywords["maxItems"].(MaxItems); ok && float64(len(arr)) > float64(max) {
			fail("maximum of %v items exceeded", float64(max))
		}
		switch items := s.keywords["items"].(type) {
		case *Schema:
			for i, item := range arr {
				items.evaluate(item, join(path, fmt.Sprint(i)), errs)
			}
		case []*Schema:
			for i, sub := range items {
				if i >= len(arr) {
					fail("missing item %d", i)
					continue
				}
				sub.evaluate(arr[i], join(path, fmt.Sprint(i)), errs)
			}
		}
	}

	if all, ok := s.keywords["allOf"].([]*Schema); ok {
		for _, sub := range all {
			sub.evaluate(v, path, errs)
		}
	}
	for _, kw := range []string{"anyOf", "oneOf"} {
		opts, ok := s.keywords[kw].([]*Schema)
		if !ok || len(opts) == 0 {
			continue
		}
		matched := false
		for _, sub := range opts {
			var subErrs []KeyError
			sub.evaluate(v, path, &subErrs)
			if len(subErrs) == 0 {
				matched = true
				break
			}
		}
		if !matched {
			fail("did not match any subschema")
		}
	}
}

func typeMatches(t string, v any) bool {
	switch t {
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "null":
		return v == nil
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "number":
		_, ok := numeric(v)
		return ok
	case "integer":
		f, ok := numeric(v)
		return ok && f == float64(int64(f))
	}
	return false
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
