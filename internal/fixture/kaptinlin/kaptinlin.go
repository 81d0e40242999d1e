// Package kaptinlin is a miniature compiled-schema library used as adapter
// test input. Keywords sit on exported fields (Type as one string, bounds
// behind *float64), and Validate returns an evaluation result whose Errors
// map is keyed by instance path.
package kaptinlin

import (
	"fmt"
	"reflect"
	"regexp"
)

// Schema is one compiled schema node.
type Schema struct {
	Type string

	Enum  []any
	Const *any

	Minimum   *float64
	Maximum   *float64
	MinLength *float64
	MaxLength *float64
	MinItems  *float64
	MaxItems  *float64
	Pattern   *string
	Format    *string

	Properties           map[string]*Schema
	Required             []string
	AdditionalProperties any

	Items       *Schema
	PrefixItems []*Schema

	ResolvedRef *Schema
	AnyOf       []*Schema
	OneOf       []*Schema
	AllOf       []*Schema

	Title       *string
	Description *string
	Default     any
}

// EvaluationError is one keyword failure.
type EvaluationError struct {
	Keyword string
	Message string
}

// EvaluationResult reports an evaluation outcome.
type EvaluationResult struct {
	Valid  bool
	Errors map[string]*EvaluationError
}

func (r *EvaluationResult) IsValid() bool { return r != nil && r.Valid }

// Validate evaluates data against the schema.
func (s *Schema) Validate(data any) *EvaluationResult {
	errs := map[string]*EvaluationError{}
	s.evaluate(data, "", errs)
	return &EvaluationResult{Valid: len(errs) == 0, Errors: errs}
}

func (s *Schema) evaluate(v any, path string, errs map[string]*EvaluationError) {
	fail := func(keyword, format string, args ...any) {
		if _, taken := errs[path]; !taken {
			errs[path] = &EvaluationError{Keyword: keyword, Message: fmt.Sprintf(format, args...)}
		}
	}

	if s.ResolvedRef != nil {
		s.ResolvedRef.evaluate(v, path, errs)
		return
	}
	if s.Type != "" && !typeMatches(s.Type, v) {
		fail("type", "expected %s, got %T", s.Type, v)
		return
	}
	if s.Const != nil && !reflect.DeepEqual(v, *s.Const) {
		fail("const", "value must be %v", *s.Const)
	}
	if len(s.Enum) > 0 {
		found := false
		for _, e := range s.Enum {
			if reflect.DeepEqual(v, e) {
				found = true
				break
			}
		}
		if !found {
			fail("enum", "value must be one of %v", s.Enum)
		}
	}

	if str, ok := v.(string); ok {
		if s.MinLength != nil && float64(len(str)) < *s.MinLength {
			fail("minLength", "length must be >= %v", *s.MinLength)
		}
		if s.MaxLength != nil && float64(len(str)) > *s.MaxLength {
			fail("maxLength", "length must be <= %v", *s.MaxLength)
		}
		if s.Pattern != nil {
			if re, err := regexp.Compile(*s.Pattern); err == nil && !re.MatchString(str) {
				fail("pattern", "does not match %s", *s.Pattern)
			}
		}
	}
	if f, ok := numeric(v); ok {
		if s.Minimum != nil && f < *s.Minimum {
			fail("minimum", "must be >= %v", *s.Minimum)
		}
		if s.Maximum != nil && f > *s.Maximum {
			fail("maximum", "must be <= %v", *s.Maximum)
		}
	}

	if m, ok := v.(map[string]any); ok {
		for _, k := range s.Required {
			if _, present := m[k]; !present {
				if _, taken := errs[path+"/"+k]; !taken {
					errs[path+"/"+k] = &EvaluationError{Keyword: "required", Message: fmt.Sprintf("missing property %q", k)}
				}
			}
		}
		for k, sub := range s.Properties {
			if val, present := m[k]; present {
				sub.evaluate(val, path+"/"+k, errs)
			}
		}
		if addl, ok := s.AdditionalProperties.(*Schema); ok {
			for k, val := range m {
				if _, declared := s.Properties[k]; !declared {
					addl.evaluate(val, path+"/"+k, errs)
				}
			}
		}
	}

	if arr, ok := v.([]any); ok {
		if s.MinItems != nil && float64(len(arr)) < *s.MinItems {
			fail("minItems", "minimum %v items required", *s.MinItems)
		}
		if s.MaxItems != nil && float64(len(arr)) > *s.MaxItems {
			fail("maxItems", "maximum %v items allowed", *s.MaxItems)
		}
		for i, sub := range s.PrefixItems {
			if i >= len(arr) {
				fail("prefixItems", "missing item %d", i)
				continue
			}
			sub.evaluate(arr[i], fmt.Sprintf("%s/%d", path, i), errs)
		}
		if s.Items != nil {
			for i := len(s.PrefixItems); i < len(arr); i++ {
				s.Items.evaluate(arr[i], fmt.Sprintf("%s/%d", path, i), errs)
			}
		}
	}

	for _, sub := range s.AllOf {
		sub.evaluate(v, path, errs)
	}
	for _, opts := range [][]*Schema{s.AnyOf, s.OneOf} {
		if len(opts) == 0 {
			continue
		}
		matched := false
		for _, sub := range opts {
			if sub.Validate(v).IsValid() {
				matched = true
				break
			}
		}
		if !matched {
			fail("anyOf", "no subschema matched")
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
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Ptr builds pointer-shaped keyword fields.
func Ptr[T any](v T) *T { return &v }
