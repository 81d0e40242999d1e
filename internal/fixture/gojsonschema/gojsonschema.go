// Package gojsonschema is a miniature schema library used as adapter test
// input. It compiles a schema document into an opaque value whose Validate
// returns a result/error pair; result errors answer Field and Description.
package gojsonschema

import (
	"fmt"
	"reflect"
	"regexp"
)

// Schema is a compiled schema. The document is private: consumers see only
// Validate.
type Schema struct {
	doc map[string]any
}

// NewSchema compiles a schema document.
func NewSchema(doc map[string]any) *Schema {
	return &Schema{doc: doc}
}

// ResultError is one validation failure.
type ResultError struct {
	field       string
	description string
}

func (e ResultError) Field() string       { return e.field }
func (e ResultError) Description() string { return e.description }
func (e ResultError) String() string      { return fmt.Sprintf("%s: %s", e.field, e.description) }

// Result reports a validation outcome.
type Result struct {
	errors []ResultError
}

func (r *Result) Valid() bool           { return len(r.errors) == 0 }
func (r *Result) Errors() []ResultError { return r.errors }

// Validate checks data against the compiled schema.
func (s *Schema) Validate(data any) (*Result, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("gojsonschema: schema is not compiled")
	}
	r := &Result{}
	validate(s.doc, data, "(root)", r)
	return r, nil
}

func validate(doc map[string]any, v any, field string, r *Result) {
	fail := func(format string, args ...any) {
		r.errors = append(r.errors, ResultError{field: field, description: fmt.Sprintf(format, args...)})
	}

	if t, ok := doc["type"].(string); ok && !typeMatches(t, v) {
		fail("Invalid type. Expected: %s", t)
		return
	}
	if c, ok := doc["const"]; ok && !reflect.DeepEqual(v, c) {
		fail("%v does not match: %v", v, c)
	}
	if e, ok := doc["enum"].([]any); ok {
		found := false
		for _, opt := range e {
			if reflect.DeepEqual(v, opt) {
				found = true
				break
			}
		}
		if !found {
			fail("%v is not one of the allowed values", v)
		}
	}

	if str, ok := v.(string); ok {
		if min, ok := number(doc["minLength"]); ok && float64(len(str)) < min {
			fail("String length must be greater than or equal to %v", min)
		}
		if max, ok := number(doc["maxLength"]); ok && float64(len(str)) > max {
			fail("String length must be less than or equal to %v", max)
		}
		if p, ok := doc["pattern"].(string); ok {
			if re, err := regexp.Compile(p); err == nil && !re.MatchString(str) {
				fail("Does not match pattern '%s'", p)
			}
		}
	}
	if f, ok := number(v); ok {
		if min, ok := number(doc["minimum"]); ok && f < min {
			fail("Must be greater than or equal to %v", min)
		}
		if max, ok := number(doc["maximum"]); ok && f > max {
			fail("Must be less than or equal to %v", max)
		}
	}

	if m, ok := v.(map[string]any); ok {
		if req, ok := doc["required"].([]any); ok {
			for _, rk := range req {
				k, _ := rk.(string)
				if _, present := m[k]; k != "" && !present {
					r.errors = append(r.errors, ResultError{
						field:       field + "." + k,
						description: fmt.Sprintf("%s is required", k),
					})
				}
			}
		}
		if props, ok := doc["properties"].(map[string]any); ok {
			for k, sub := range props {
				subDoc, _ := sub.(map[string]any)
				if val, present := m[k]; present && subDoc != nil {
					validate(subDoc, val, field+"."+k, r)
				}
			}
		}
	}

	if arr, ok := v.([]any); ok {
		if items, ok := doc["items"].(map[string]any); ok {
			for i, item := range arr {
				validate(items, item, fmt.Sprintf("%s.%d", field, i), r)
			}
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
		_, ok := number(v)
		return ok
	case "integer":
		f, ok := number(v)
		return ok && f == float64(int64(f))
	}
	return false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
