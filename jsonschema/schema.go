package jsonschema

// Schema is the JSON Schema representation produced by the transformer.
// It tracks a Draft-2020-12-ish vocabulary: only the keywords the supported
// validation libraries can actually surface are modeled, and every field is
// omitted from the marshaled output when unset.
type Schema struct {
	// Core
	Type  string  `json:"type,omitempty"`
	Const any     `json:"const,omitempty"`
	Enum  []any   `json:"enum,omitempty"`
	Not   *Schema `json:"not,omitempty"`

	// Composition
	AnyOf []*Schema `json:"anyOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	// References
	Ref  string             `json:"$ref,omitempty"`
	Defs map[string]*Schema `json:"$defs,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`
	UniqueItems bool      `json:"uniqueItems,omitempty"`

	// String constraints
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Format    string `json:"format,omitempty"`

	// Numeric constraints
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Metadata
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Examples    []any  `json:"examples,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

// Any returns the canonical "no constraint" fragment ({}), which accepts
// every value.
func Any() *Schema { return &Schema{} }

// Never returns the canonical "matches nothing" fragment ({"not": {}}).
func Never() *Schema { return &Schema{Not: &Schema{}} }

// Nullable wraps s as anyOf[s, {type:"null"}].
func Nullable(s *Schema) *Schema {
	return &Schema{AnyOf: []*Schema{s, {Type: "null"}}}
}

// IsEmpty reports whether the fragment would marshal to {} (accepts anything).
func (s *Schema) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Type == "" && s.Const == nil && len(s.Enum) == 0 && s.Not == nil &&
		len(s.AnyOf) == 0 && len(s.AllOf) == 0 && len(s.OneOf) == 0 &&
		s.Ref == "" && len(s.Defs) == 0 &&
		len(s.Properties) == 0 && len(s.Required) == 0 && s.AdditionalProperties == nil &&
		s.Items == nil && len(s.PrefixItems) == 0 && s.MinItems == nil && s.MaxItems == nil && !s.UniqueItems &&
		s.MinLength == nil && s.MaxLength == nil && s.Pattern == "" && s.Format == "" &&
		s.Minimum == nil && s.Maximum == nil &&
		s.Title == "" && s.Description == "" && s.Default == nil && len(s.Examples) == 0 && !s.Deprecated
}
