package rawschema

import (
	"context"
	"sort"

	anyskema "github.com/reoring/anyskema"
)

// Vendor is the vendor string reported for raw JSON Schema documents.
const Vendor = "rawschema"

// keywords whose presence marks a bare map as a schema document.
var markerKeywords = []string{"type", "$ref", "$schema", "enum", "const", "anyOf", "allOf", "properties", "items"}

// New returns the rawschema adapter. A node whose anyOf is exactly
// [X, {type:"null"}] is classified as a nullable wrapper around X, not as a
// union; this mirrors how the other libraries model nullability and keeps the
// two probes mutually exclusive.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match:  match,

		IsOptional: func(v any) bool {
			n, ok := view(v)
			return ok && n.optional
		},
		IsNullable: func(v any) bool {
			n, ok := view(v)
			return ok && n.nullableInner() != nil
		},
		IsLazy: func(v any) bool {
			n, ok := view(v)
			if !ok {
				return false
			}
			_, isRef := n.val["$ref"].(string)
			return isRef
		},
		Unwrap: unwrap,

		IsString:  isType("string"),
		IsNumber:  isType("number"),
		IsInteger: isType("integer"),
		IsBoolean: isType("boolean"),
		IsNull:    isType("null"),
		IsAny: func(v any) bool {
			n, ok := view(v)
			return ok && len(n.val) == 0
		},
		IsLiteral: hasKeyword("const"),
		IsEnum:    hasKeyword("enum"),
		IsObject: func(v any) bool {
			n, ok := view(v)
			if !ok || n.typeName() != "object" {
				return false
			}
			_, hasProps := n.val["properties"]
			_, hasAddl := n.val["additionalProperties"]
			return hasProps || !hasAddl
		},
		IsRecord: func(v any) bool {
			n, ok := view(v)
			if !ok || n.typeName() != "object" {
				return false
			}
			_, hasProps := n.val["properties"]
			_, hasAddl := n.val["additionalProperties"]
			return !hasProps && hasAddl
		},
		IsArray: func(v any) bool {
			n, ok := view(v)
			if !ok || n.typeName() != "array" {
				return false
			}
			_, tuple := n.val["prefixItems"]
			return !tuple
		},
		IsTuple: func(v any) bool {
			n, ok := view(v)
			if !ok || n.typeName() != "array" {
				return false
			}
			_, tuple := n.val["prefixItems"]
			return tuple
		},
		IsUnion: func(v any) bool {
			n, ok := view(v)
			if !ok || n.nullableInner() != nil {
				return false
			}
			opts, isUnion := n.val["anyOf"].([]any)
			return isUnion && len(opts) > 0
		},
		IsIntersection: hasKeyword("allOf"),

		ObjectEntries: objectEntries,
		ArrayElement: func(v any) any {
			n, ok := view(v)
			if !ok {
				return nil
			}
			return asChild(n, n.val["items"])
		},
		RecordValue: func(v any) any {
			n, ok := view(v)
			if !ok {
				return nil
			}
			return asChild(n, n.val["additionalProperties"])
		},
		TupleItems: func(v any) []any {
			n, ok := view(v)
			if !ok {
				return nil
			}
			return childSlice(n, "prefixItems")
		},
		UnionOptions: func(v any) []any {
			n, ok := view(v)
			if !ok || n.nullableInner() != nil {
				return nil
			}
			return childSlice(n, "anyOf")
		},
		IntersectionSchemas: func(v any) []any {
			n, ok := view(v)
			if !ok {
				return nil
			}
			return childSlice(n, "allOf")
		},
		LiteralValue: func(v any) (any, bool) {
			n, ok := view(v)
			if !ok {
				return nil, false
			}
			c, has := n.val["const"]
			return c, has
		},
		EnumValues: func(v any) []any {
			n, ok := view(v)
			if !ok {
				return nil
			}
			vals, _ := n.val["enum"].([]any)
			return vals
		},

		Constraints: constraints,
		Metadata:    metadata,

		// A raw document has no runtime validator: that is the one capability
		// this adapter structurally cannot offer, surfaced as a failure
		// result so callers can branch on Success uniformly.
		Validate: func(context.Context, any, any) anyskema.Result {
			return anyskema.FailMessage(anyskema.CodeUnsupported,
				"rawschema: document carries no runtime validator; compile it with a JSON Schema implementation to validate data")
		},
	})
}

func match(v any) bool {
	switch n := v.(type) {
	case *Document, *Node:
		return n != nil
	case map[string]any:
		for _, k := range markerKeywords {
			if _, ok := n[k]; ok {
				return true
			}
		}
	}
	return false
}

func isType(name string) func(any) bool {
	return func(v any) bool {
		n, ok := view(v)
		return ok && n.typeName() == name
	}
}

func hasKeyword(name string) func(any) bool {
	return func(v any) bool {
		n, ok := view(v)
		if !ok {
			return false
		}
		_, has := n.val[name]
		return has
	}
}

func (n *Node) typeName() string {
	t, _ := n.val["type"].(string)
	return t
}

// nullableInner returns the non-null branch when the node is exactly
// anyOf[X, {type:"null"}] (in either order), nil otherwise.
func (n *Node) nullableInner() any {
	opts, ok := n.val["anyOf"].([]any)
	if !ok || len(opts) != 2 {
		return nil
	}
	for i, o := range opts {
		m, ok := o.(map[string]any)
		if ok && len(m) == 1 && m["type"] == "null" {
			return opts[1-i]
		}
	}
	return nil
}

// unwrap peels exactly one wrapper layer per call. An optional node first
// sheds its optional mark so the transformer sees the $ref or nullable layer
// underneath on the next pass; collapsing several layers at once would skip
// the $defs naming that makes recursive documents terminate.
func unwrap(v any) any {
	n, ok := view(v)
	if !ok {
		return nil
	}
	if n.optional {
		peeled := *n
		peeled.optional = false
		return &peeled
	}
	if ref, ok := n.val["$ref"].(string); ok {
		if target := n.doc.resolve(ref); target != nil {
			return target
		}
		return nil
	}
	if inner := n.nullableInner(); inner != nil {
		return asChild(n, inner)
	}
	return nil
}

func objectEntries(v any) []anyskema.ObjectEntry {
	n, ok := view(v)
	if !ok {
		return nil
	}
	props, ok := n.val["properties"].(map[string]any)
	if !ok {
		return nil
	}
	required := map[string]bool{}
	if req, ok := n.val["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
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
		child := n.child(props[k])
		if child == nil {
			continue
		}
		child.optional = !required[k]
		entries = append(entries, anyskema.ObjectEntry{Key: k, Value: child})
	}
	return entries
}

func asChild(n *Node, v any) any {
	c := n.child(v)
	if c == nil {
		return nil
	}
	return c
}

func childSlice(n *Node, keyword string) []any {
	raw, ok := n.val[keyword].([]any)
	if !ok {
		return nil
	}
	out := make([]any, 0, len(raw))
	for _, item := range raw {
		if c := n.child(item); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func constraints(v any) *anyskema.Constraints {
	n, ok := view(v)
	if !ok {
		return nil
	}
	cs := &anyskema.Constraints{}
	if f, ok := numberKeyword(n, "minimum"); ok {
		cs.Min = anyskema.Float(f)
	}
	if f, ok := numberKeyword(n, "maximum"); ok {
		cs.Max = anyskema.Float(f)
	}
	if f, ok := numberKeyword(n, "minLength"); ok {
		cs.MinLength = anyskema.Int(int(f))
	}
	if f, ok := numberKeyword(n, "maxLength"); ok {
		cs.MaxLength = anyskema.Int(int(f))
	}
	if f, ok := numberKeyword(n, "minItems"); ok {
		cs.MinLength = anyskema.Int(int(f))
	}
	if f, ok := numberKeyword(n, "maxItems"); ok {
		cs.MaxLength = anyskema.Int(int(f))
	}
	cs.Pattern, _ = n.val["pattern"].(string)
	cs.Format, _ = n.val["format"].(string)
	if cs.IsZero() {
		return nil
	}
	return cs
}

func metadata(v any) *anyskema.Metadata {
	n, ok := view(v)
	if !ok {
		return nil
	}
	m := &anyskema.Metadata{}
	m.Title, _ = n.val["title"].(string)
	m.Description, _ = n.val["description"].(string)
	if d, ok := n.val["default"]; ok {
		m.Default = d
		m.HasDefault = true
	}
	m.Examples, _ = n.val["examples"].([]any)
	m.Deprecated, _ = n.val["deprecated"].(bool)
	if m.IsZero() {
		return nil
	}
	return m
}

// numberKeyword reads a numeric keyword tolerating the decoder's numeric
// types (float64 from JSON, int from YAML).
func numberKeyword(n *Node, keyword string) (float64, bool) {
	switch x := n.val[keyword].(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
