package anyskema

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/reoring/anyskema/internal/identity"
	"github.com/reoring/anyskema/internal/probe"
	js "github.com/reoring/anyskema/jsonschema"
)

// UnknownSchemaError is raised when no adapter claims a schema value. This is
// the one hard error in the transform path: emitting a permissive {} for a
// completely unrecognized value would silently hide an integration gap.
type UnknownSchemaError struct {
	TypeName string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("anyskema: no adapter matched schema of type %s", e.TypeName)
}

// Transformer derives JSON Schema from library-native schema values through a
// fixed, ordered adapter set. A Transformer is stateless across calls: the
// seen/defs bookkeeping lives in a per-call context.
type Transformer struct {
	adapters []Adapter
}

// NewTransformer builds a Transformer restricted to exactly the given
// adapters, earlier entries winning ties. Partial adapter records are
// completed through DefineAdapter.
func NewTransformer(adapters ...Adapter) *Transformer {
	t := &Transformer{adapters: make([]Adapter, 0, len(adapters))}
	for _, a := range adapters {
		t.adapters = append(t.adapters, DefineAdapter(a))
	}
	return t
}

// ToJSONSchema converts a schema from any registered library into a JSON
// Schema fragment using the global registry.
func ToJSONSchema(schema any) (*js.Schema, error) {
	return NewTransformer(Adapters()...).Transform(schema)
}

// transformContext is created fresh at the start of every Transform call and
// discarded at the end. seen maps schema identity to a generated definition
// name so recursive structures terminate in a $ref; defs collects the named
// definitions attached to the outermost fragment.
type transformContext struct {
	seen    map[identity.Key]string
	defs    map[string]*js.Schema
	counter int
}

func newTransformContext() *transformContext {
	return &transformContext{
		seen: map[identity.Key]string{},
		defs: map[string]*js.Schema{},
	}
}

func (c *transformContext) nextName() string {
	name := "schema" + strconv.Itoa(c.counter)
	c.counter++
	return name
}

// Transform produces the JSON Schema fragment for schema. It fails only with
// *UnknownSchemaError; everything an adapter cannot express degrades to a
// permissive or empty fragment instead.
func (t *Transformer) Transform(schema any) (*js.Schema, error) {
	c := newTransformContext()
	frag, err := t.walk(schema, c)
	if err != nil {
		return nil, err
	}
	if len(c.defs) > 0 {
		frag.Defs = c.defs
	}
	return frag, nil
}

func (t *Transformer) find(v any) (Adapter, bool) {
	if v == nil {
		return Adapter{}, false
	}
	for _, a := range t.adapters {
		if a.Match(v) {
			return a, true
		}
	}
	return Adapter{}, false
}

func (t *Transformer) walk(schema any, c *transformContext) (*js.Schema, error) {
	if key, hasID := identity.Of(schema); hasID {
		if name, seen := c.seen[key]; seen {
			return &js.Schema{Ref: "#/$defs/" + name}, nil
		}
	}
	return t.walkNode(schema, c)
}

// walkNode classifies and recurses without the seen-map short circuit; the
// lazy wrapper case uses it to walk a node it has just named itself.
func (t *Transformer) walkNode(schema any, c *transformContext) (*js.Schema, error) {
	ad, ok := t.find(schema)
	if !ok {
		return nil, &UnknownSchemaError{TypeName: probe.TypeName(schema)}
	}

	if inner := ad.Unwrap(schema); inner != nil {
		if frag, handled, err := t.unwrapWrapper(ad, schema, inner, c); handled {
			return frag, err
		}
	}

	frag, err := t.dispatchKind(ad, schema, c)
	if err != nil {
		return nil, err
	}
	applyMetadata(frag, ad.Metadata(schema))
	applyConstraints(frag, ad.Constraints(schema))
	return frag, nil
}

// unwrapWrapper handles single-child wrapper nodes in a fixed priority order:
// default, optional, nullable, transform, lazy, branded, catch. The order is
// contract: a defaulted-and-nullable node surfaces its default before the
// null branch is added on the inner recursion.
func (t *Transformer) unwrapWrapper(ad Adapter, schema, inner any, c *transformContext) (*js.Schema, bool, error) {
	switch {
	case ad.IsDefault(schema):
		frag, err := t.walk(inner, c)
		if err != nil {
			return nil, true, err
		}
		if dv, ok := ad.DefaultValue(schema); ok {
			out := *frag
			out.Default = dv
			return &out, true, nil
		}
		return frag, true, nil

	case ad.IsOptional(schema):
		// Optionality is expressed at the parent object's required list,
		// not on the node itself.
		frag, err := t.walk(inner, c)
		return frag, true, err

	case ad.IsNullable(schema):
		frag, err := t.walk(inner, c)
		if err != nil {
			return nil, true, err
		}
		return js.Nullable(frag), true, nil

	case ad.IsTransform(schema):
		// The transformation itself is not representable in JSON Schema.
		frag, err := t.walk(inner, c)
		return frag, true, err

	case ad.IsLazy(schema):
		// A lazy node names its resolution. If the resolved target was
		// already named (the same definition referenced twice), reuse the
		// existing $ref so each unique recursive node is computed once.
		if key, hasID := identity.Of(inner); hasID {
			if name, seen := c.seen[key]; seen {
				return &js.Schema{Ref: "#/$defs/" + name}, true, nil
			}
		}
		// Register the name before recursing so a self-reference inside
		// resolves to a $ref instead of recursing forever. Both the wrapper
		// and its resolution get the name: other paths may reach the target
		// directly.
		name := c.nextName()
		if key, hasID := identity.Of(schema); hasID {
			c.seen[key] = name
		}
		if key, hasID := identity.Of(inner); hasID {
			c.seen[key] = name
		}
		frag, err := t.walkNode(inner, c)
		if err != nil {
			return nil, true, err
		}
		c.defs[name] = frag
		return &js.Schema{Ref: "#/$defs/" + name}, true, nil

	case ad.IsBranded(schema):
		frag, err := t.walk(inner, c)
		return frag, true, err

	case ad.IsCatch(schema):
		frag, err := t.walk(inner, c)
		return frag, true, err
	}
	return nil, false, nil
}

func (t *Transformer) dispatchKind(ad Adapter, schema any, c *transformContext) (*js.Schema, error) {
	switch {
	case ad.IsString(schema):
		return &js.Schema{Type: "string"}, nil
	case ad.IsNumber(schema):
		return &js.Schema{Type: "number"}, nil
	case ad.IsInteger(schema):
		return &js.Schema{Type: "integer"}, nil
	case ad.IsBoolean(schema):
		return &js.Schema{Type: "boolean"}, nil
	case ad.IsNull(schema):
		return &js.Schema{Type: "null"}, nil
	case ad.IsAny(schema), ad.IsUnknown(schema):
		return js.Any(), nil
	case ad.IsNever(schema):
		return js.Never(), nil
	case ad.IsTime(schema):
		return &js.Schema{Type: "string", Format: "date-time"}, nil
	case ad.IsDuration(schema):
		return &js.Schema{Type: "string", Format: "duration"}, nil
	case ad.IsBigInt(schema):
		return &js.Schema{Type: "integer"}, nil
	case ad.IsBytes(schema):
		return &js.Schema{Type: "string", Format: "byte"}, nil
	case ad.IsLiteral(schema):
		if lv, ok := ad.LiteralValue(schema); ok {
			return &js.Schema{Const: lv}, nil
		}
		return js.Any(), nil
	case ad.IsEnum(schema):
		return &js.Schema{Enum: ad.EnumValues(schema)}, nil
	case ad.IsObject(schema):
		return t.objectFragment(ad, schema, c)
	case ad.IsArray(schema):
		items, err := t.childFragment(ad.ArrayElement(schema), c)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items}, nil
	case ad.IsTuple(schema):
		raw := ad.TupleItems(schema)
		items := make([]*js.Schema, 0, len(raw))
		for _, it := range raw {
			frag, err := t.walk(it, c)
			if err != nil {
				return nil, err
			}
			items = append(items, frag)
		}
		n := len(items)
		return &js.Schema{Type: "array", PrefixItems: items, MinItems: Int(n), MaxItems: Int(n)}, nil
	case ad.IsUnion(schema):
		opts := ad.UnionOptions(schema)
		anyOf := make([]*js.Schema, 0, len(opts))
		for _, o := range opts {
			frag, err := t.walk(o, c)
			if err != nil {
				return nil, err
			}
			anyOf = append(anyOf, frag)
		}
		return &js.Schema{AnyOf: anyOf}, nil
	case ad.IsIntersection(schema):
		members := ad.IntersectionSchemas(schema)
		allOf := make([]*js.Schema, 0, len(members))
		for _, m := range members {
			frag, err := t.walk(m, c)
			if err != nil {
				return nil, err
			}
			allOf = append(allOf, frag)
		}
		return &js.Schema{AllOf: allOf}, nil
	case ad.IsRecord(schema):
		val, err := t.childFragment(ad.RecordValue(schema), c)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "object", AdditionalProperties: val}, nil
	case ad.IsMap(schema):
		val, err := t.childFragment(ad.MapValue(schema), c)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "object", AdditionalProperties: val}, nil
	case ad.IsSet(schema):
		items, err := t.childFragment(ad.SetElement(schema), c)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", UniqueItems: true, Items: items}, nil
	case ad.IsFunc(schema), ad.IsChan(schema):
		return js.Never(), nil
	case ad.IsTypeOf(schema):
		// A concrete Go type with no JSON mapping degrades to "no constraint".
		return js.Any(), nil
	}
	// A node the adapter claims but cannot classify is intentionally
	// unrepresentable (refinements, coercions): degrade to permissive.
	return js.Any(), nil
}

func (t *Transformer) objectFragment(ad Adapter, schema any, c *transformContext) (*js.Schema, error) {
	entries := ad.ObjectEntries(schema)
	props := make(map[string]*js.Schema, len(entries))
	required := make([]string, 0, len(entries))
	for _, e := range entries {
		frag, err := t.walk(e.Value, c)
		if err != nil {
			return nil, err
		}
		props[e.Key] = frag
		// A key is required unless the value's own adapter reports the
		// child node optional.
		if cad, ok := t.find(e.Value); ok && cad.IsOptional(e.Value) {
			continue
		}
		required = append(required, e.Key)
	}
	sort.Strings(required)
	return &js.Schema{Type: "object", Properties: props, Required: required}, nil
}

// childFragment walks an optional child node; a missing child degrades to the
// permissive {} fragment.
func (t *Transformer) childFragment(child any, c *transformContext) (*js.Schema, error) {
	if child == nil {
		return js.Any(), nil
	}
	return t.walk(child, c)
}

// applyMetadata merges annotations into frag; structural keys already set by
// kind dispatch always win.
func applyMetadata(frag *js.Schema, m *Metadata) {
	if m.IsZero() {
		return
	}
	if frag.Title == "" {
		frag.Title = m.Title
	}
	if frag.Description == "" {
		frag.Description = m.Description
	}
	if frag.Default == nil && m.HasDefault {
		frag.Default = m.Default
	}
	if len(frag.Examples) == 0 {
		frag.Examples = m.Examples
	}
	if m.Deprecated {
		frag.Deprecated = true
	}
}

// applyConstraints merges extracted bounds into frag according to its
// structural type: string-length/pattern/format for strings, numeric bounds
// for numbers and integers, and length-derived item counts for arrays.
func applyConstraints(frag *js.Schema, cs *Constraints) {
	if cs.IsZero() {
		return
	}
	switch frag.Type {
	case "string":
		if frag.MinLength == nil {
			frag.MinLength = cs.MinLength
		}
		if frag.MaxLength == nil {
			frag.MaxLength = cs.MaxLength
		}
		if frag.Pattern == "" {
			frag.Pattern = cs.Pattern
		}
		if frag.Format == "" {
			frag.Format = cs.Format
		}
	case "number", "integer":
		if frag.Minimum == nil {
			frag.Minimum = cs.Min
		}
		if frag.Maximum == nil {
			frag.Maximum = cs.Max
		}
	case "array":
		if frag.MinItems == nil {
			frag.MinItems = cs.MinLength
		}
		if frag.MaxItems == nil {
			frag.MaxItems = cs.MaxLength
		}
	}
}
