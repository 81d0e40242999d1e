// Package goskema is a miniature schema library used as adapter test input.
// It mirrors the two-phase check surface of goskema: TypeCheck rejects the
// wrong shape, RuleCheck enforces rules on an accepted shape, Validate runs
// both, and JSONSchema exports a schema document.
package goskema

import (
	"context"
	"fmt"
)

// Doc is the exported schema document.
type Doc struct {
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`

	Properties           map[string]*Doc `json:"properties,omitempty"`
	Required             []string        `json:"required,omitempty"`
	AdditionalProperties any             `json:"additionalProperties,omitempty"`

	Items    *Doc `json:"items,omitempty"`
	MinItems *int `json:"minItems,omitempty"`
	MaxItems *int `json:"maxItems,omitempty"`

	OneOf []*Doc `json:"oneOf,omitempty"`
}

// Schema validates values and exports a Doc.
type Schema struct {
	doc       *Doc
	typeCheck func(v any) error
	ruleCheck func(v any) error
}

func (s *Schema) TypeCheck(ctx context.Context, v any) error {
	if s.typeCheck == nil {
		return nil
	}
	return s.typeCheck(v)
}

func (s *Schema) RuleCheck(ctx context.Context, v any) error {
	if s.ruleCheck == nil {
		return nil
	}
	return s.ruleCheck(v)
}

func (s *Schema) Validate(ctx context.Context, v any) error {
	if err := s.TypeCheck(ctx, v); err != nil {
		return err
	}
	return s.RuleCheck(ctx, v)
}

func (s *Schema) JSONSchema() (*Doc, error) { return s.doc, nil }

// WithDefault records a default value on the exported document.
func (s *Schema) WithDefault(v any) *Schema {
	s.doc.Default = v
	return s
}

// WithFormat records a format annotation on the exported document.
func (s *Schema) WithFormat(f string) *Schema {
	s.doc.Format = f
	return s
}

func String() *Schema {
	return &Schema{
		doc: &Doc{Type: "string"},
		typeCheck: func(v any) error {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("expected string, got %T", v)
			}
			return nil
		},
	}
}

func Number() *Schema {
	return &Schema{
		doc: &Doc{Type: "number"},
		typeCheck: func(v any) error {
			switch v.(type) {
			case float64, float32, int, int64:
				return nil
			}
			return fmt.Errorf("expected number, got %T", v)
		},
	}
}

func Bool() *Schema {
	return &Schema{
		doc: &Doc{Type: "boolean"},
		typeCheck: func(v any) error {
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("expected bool, got %T", v)
			}
			return nil
		},
	}
}

// Object builds an object schema. Keys listed in required must be present in
// validated maps; the rest are optional.
func Object(props map[string]*Schema, required ...string) *Schema {
	doc := &Doc{Type: "object", Properties: map[string]*Doc{}, Required: required}
	for k, p := range props {
		doc.Properties[k] = p.doc
	}
	return &Schema{
		doc: doc,
		typeCheck: func(v any) error {
			m, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("expected object, got %T", v)
			}
			for _, k := range required {
				if _, present := m[k]; !present {
					return fmt.Errorf("missing required key %q", k)
				}
			}
			return nil
		},
		ruleCheck: func(v any) error {
			m, _ := v.(map[string]any)
			for k, p := range props {
				val, present := m[k]
				if !present {
					continue
				}
				if err := p.Validate(context.Background(), val); err != nil {
					return fmt.Errorf("%s: %w", k, err)
				}
			}
			return nil
		},
	}
}

// Map builds a homogeneous string-keyed map schema.
func Map(value *Schema) *Schema {
	return &Schema{
		doc: &Doc{Type: "object", AdditionalProperties: value.doc},
		typeCheck: func(v any) error {
			if _, ok := v.(map[string]any); !ok {
				return fmt.Errorf("expected object, got %T", v)
			}
			return nil
		},
	}
}

// Array builds an array schema with optional length bounds (pass -1 to leave
// a bound unset).
func Array(elem *Schema, minItems, maxItems int) *Schema {
	doc := &Doc{Type: "array", Items: elem.doc}
	if minItems >= 0 {
		n := minItems
		doc.MinItems = &n
	}
	if maxItems >= 0 {
		n := maxItems
		doc.MaxItems = &n
	}
	return &Schema{
		doc: doc,
		typeCheck: func(v any) error {
			s, ok := v.([]any)
			if !ok {
				return fmt.Errorf("expected array, got %T", v)
			}
			if minItems >= 0 && len(s) < minItems {
				return fmt.Errorf("expected at least %d items, got %d", minItems, len(s))
			}
			if maxItems >= 0 && len(s) > maxItems {
				return fmt.Errorf("expected at most %d items, got %d", maxItems, len(s))
			}
			return nil
		},
		ruleCheck: func(v any) error {
			s, _ := v.([]any)
			for i, item := range s {
				if err := elem.Validate(context.Background(), item); err != nil {
					return fmt.Errorf("[%d]: %w", i, err)
				}
			}
			return nil
		},
	}
}

// OneOf builds a union schema accepting values valid against any option.
func OneOf(options ...*Schema) *Schema {
	doc := &Doc{}
	for _, o := range options {
		doc.OneOf = append(doc.OneOf, o.doc)
	}
	return &Schema{
		doc: doc,
		typeCheck: func(v any) error {
			for _, o := range options {
				if o.Validate(context.Background(), v) == nil {
					return nil
				}
			}
			return fmt.Errorf("no union option matched %T", v)
		},
	}
}
