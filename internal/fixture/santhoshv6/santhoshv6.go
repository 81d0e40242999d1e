// Package santhoshv6 is a miniature compiled-schema library used as adapter
// test input. It carries the v6 field shapes: Types behind a pointer
// answering ToStrings, Enum behind a Values wrapper, Const as a pointer,
// length bounds as *int, the format annotation as a named struct, and
// positional items under PrefixItems.
package santhoshv6

import (
	"fmt"
	"math/big"
	"reflect"
	"regexp"
)

// Types is the compiled type set.
type Types struct {
	names []string
}

func NewTypes(names ...string) *Types { return &Types{names: names} }

func (t *Types) IsEmpty() bool { return t == nil || len(t.names) == 0 }

func (t *Types) ToStrings() []string {
	if t == nil {
		return nil
	}
	return t.names
}

// Enum is the compiled enum keyword.
type Enum struct {
	Values []any
}

// Format is a named format annotation.
type Format struct {
	Name string
}

// Schema is one compiled schema node.
type Schema struct {
	Location string
	Types    *Types

	Enum  *Enum
	Const *any

	Minimum   *big.Rat
	Maximum   *big.Rat
	MinLength *int
	MaxLength *int
	MinItems  *int
	MaxItems  *int
	Pattern   *regexp.Regexp
	Format    *Format

	Properties           map[string]*Schema
	Required             []string
	AdditionalProperties any

	Items       *Schema
	PrefixItems []*Schema

	Ref   *Schema
	AnyOf []*Schema
	OneOf []*Schema
	AllOf []*Schema

	Title       string
	Description string
	Default     any
	Deprecated  bool
}

// ValidationError mirrors the v5 shape; Causes form a tree.
type ValidationError struct {
	InstanceLocation string
	Message          string
	Causes           []*ValidationError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("jsonschema: %q does not validate: %s", e.InstanceLocation, e.Message)
}

// New returns an empty schema at the given location.
func New(location string) *Schema { return &Schema{Location: location} }

// Validate checks v against the schema, returning nil on success. The nil
// *ValidationError must not leak into the error interface as a typed nil.
func (s *Schema) Validate(v any) error {
	if err := s.validate(v, ""); err != nil {
		return err
	}
	return nil
}

func (s *Schema) validate(v any, loc string) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{InstanceLocation: loc, Message: fmt.Sprintf(format, args...)}
	}

	if s.Ref != nil {
		return s.Ref.validate(v, loc)
	}
	if !s.Types.IsEmpty() && !typeMatches(s.Types.ToStrings(), v) {
		return fail("expected %v, got %T", s.Types.ToStrings(), v)
	}
	if s.Const != nil && !reflect.DeepEqual(v, *s.Const) {
		return fail("value must be %v", *s.Const)
	}
	if s.Enum != nil && len(s.Enum.Values) > 0 {
		found := false
		for _, e := range s.Enum.Values {
			if reflect.DeepEqual(v, e) {
				found = true
				break
			}
		}
		if !found {
			return fail("value must be one of %v", s.Enum.Values)
		}
	}

	if str, ok := v.(string); ok {
		if s.MinLength != nil && len(str) < *s.MinLength {
			return fail("length must be >= %d", *s.MinLength)
		}
		if s.MaxLength != nil && len(str) > *s.MaxLength {
			return fail("length must be <= %d", *s.MaxLength)
		}
		if s.Pattern != nil && !s.Pattern.MatchString(str) {
			return fail("does not match pattern %s", s.Pattern)
		}
	}
	if f, ok := numeric(v); ok {
		r := new(big.Rat).SetFloat64(f)
		if s.Minimum != nil && r.Cmp(s.Minimum) < 0 {
			min, _ := s.Minimum.Float64()
			return fail("must be >= %v", min)
		}
		if s.Maximum != nil && r.Cmp(s.Maximum) > 0 {
			max, _ := s.Maximum.Float64()
			return fail("must be <= %v", max)
		}
	}

	if m, ok := v.(map[string]any); ok {
		var causes []*ValidationError
		for _, k := range s.Required {
			if _, present := m[k]; !present {
				causes = append(causes, fail("missing property %q", k))
			}
		}
		for k, sub := range s.Properties {
			val, present := m[k]
			if !present {
				continue
			}
			if err := sub.validate(val, loc+"/"+k); err != nil {
				causes = append(causes, err)
			}
		}
		if addl, ok := s.AdditionalProperties.(*Schema); ok {
			for k, val := range m {
				if _, declared := s.Properties[k]; declared {
					continue
				}
				if err := addl.validate(val, loc+"/"+k); err != nil {
					causes = append(causes, err)
				}
			}
		}
		if len(causes) > 0 {
			return &ValidationError{InstanceLocation: loc, Message: "object invalid", Causes: causes}
		}
	}

	if arr, ok := v.([]any); ok {
		if s.MinItems != nil && len(arr) < *s.MinItems {
			return fail("minimum %d items required", *s.MinItems)
		}
		if s.MaxItems != nil && len(arr) > *s.MaxItems {
			return fail("maximum %d items allowed", *s.MaxItems)
		}
		var causes []*ValidationError
		for i, sub := range s.PrefixItems {
			if i >= len(arr) {
				causes = append(causes, fail("missing item %d", i))
				continue
			}
			if err := sub.validate(arr[i], fmt.Sprintf("%s/%d", loc, i)); err != nil {
				causes = append(causes, err)
			}
		}
		if s.Items != nil {
			for i := len(s.PrefixItems); i < len(arr); i++ {
				if err := s.Items.validate(arr[i], fmt.Sprintf("%s/%d", loc, i)); err != nil {
					causes = append(causes, err)
				}
			}
		}
		if len(causes) > 0 {
			return &ValidationError{InstanceLocation: loc, Message: "array invalid", Causes: causes}
		}
	}

	if len(s.AllOf) > 0 {
		var causes []*ValidationError
		for _, sub := range s.AllOf {
			if err := sub.validate(v, loc); err != nil {
				causes = append(causes, err)
			}
		}
		if len(causes) > 0 {
			return &ValidationError{InstanceLocation: loc, Message: "allOf failed", Causes: causes}
		}
	}
	for _, opts := range [][]*Schema{s.AnyOf, s.OneOf} {
		if len(opts) == 0 {
			continue
		}
		matched := false
		for _, sub := range opts {
			if sub.validate(v, loc) == nil {
				matched = true
				break
			}
		}
		if !matched {
			return fail("no subschema matched")
		}
	}
	return nil
}

func typeMatches(types []string, v any) bool {
	for _, t := range types {
		switch t {
		case "string":
			if _, ok := v.(string); ok {
				return true
			}
		case "boolean":
			if _, ok := v.(bool); ok {
				return true
			}
		case "null":
			if v == nil {
				return true
			}
		case "object":
			if _, ok := v.(map[string]any); ok {
				return true
			}
		case "array":
			if _, ok := v.([]any); ok {
				return true
			}
		case "number":
			if _, ok := numeric(v); ok {
				return true
			}
		case "integer":
			if f, ok := numeric(v); ok && f == float64(int64(f)) {
				return true
			}
		}
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

// Ptr is a small helper for building pointer-shaped keyword fields.
func Ptr[T any](v T) *T { return &v }
