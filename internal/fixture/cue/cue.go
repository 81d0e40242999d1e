// Package cue is a miniature constraint-unification library used as adapter
// test input. Values carry an incomplete kind, structs expose a field
// iterator, and validation goes encode, unify, validate, mirroring how CUE
// values are checked.
package cue

import (
	"fmt"
)

// Kind is the incomplete kind of a value.
type Kind uint8

const (
	TopKind Kind = iota
	NullKind
	BoolKind
	IntKind
	FloatKind
	StringKind
	BytesKind
	StructKind
	ListKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case BytesKind:
		return "bytes"
	case StructKind:
		return "struct"
	case ListKind:
		return "list"
	}
	return "_"
}

// Context builds and encodes values.
type Context struct{}

// New returns a fresh context.
func New() *Context { return &Context{} }

// Encode wraps concrete Go data as a value.
func (c *Context) Encode(x any) Value {
	return Value{ctx: c, data: x, concrete: true}
}

// Field is one struct member declaration.
type Field struct {
	Name     string
	Value    Value
	Optional bool
}

// Value is a schema, concrete data, or the unification of both.
type Value struct {
	ctx      *Context
	kind     Kind
	fields   []Field
	elem     *Value
	data     any
	concrete bool
	schema   *Value
}

// Scalar builds a schema value of a scalar kind.
func Scalar(c *Context, k Kind) Value { return Value{ctx: c, kind: k} }

// Top builds the unconstrained value.
func Top(c *Context) Value { return Value{ctx: c, kind: TopKind} }

// Struct builds a struct schema from field declarations.
func Struct(c *Context, fields ...Field) Value {
	return Value{ctx: c, kind: StructKind, fields: fields}
}

// List builds a list schema with one element constraint.
func List(c *Context, elem Value) Value {
	return Value{ctx: c, kind: ListKind, elem: &elem}
}

// Context returns the owning context.
func (v Value) Context() *Context { return v.ctx }

// IncompleteKind reports the kind the value can still take.
func (v Value) IncompleteKind() Kind { return v.kind }

// Unify combines a schema with another value; validating the result checks
// the concrete side against the constraint side.
func (v Value) Unify(w Value) Value {
	out := v
	out.data = w.data
	out.concrete = w.concrete
	out.schema = &v
	return out
}

// Elem returns the list element constraint.
func (v Value) Elem() (Value, bool) {
	if v.elem == nil {
		return Value{}, false
	}
	return *v.elem, true
}

// Iterator walks struct fields.
type Iterator struct {
	fields []Field
	i      int
}

// Fields returns an iterator over struct fields.
func (v Value) Fields() *Iterator {
	return &Iterator{fields: v.fields, i: -1}
}

func (it *Iterator) Next() bool {
	it.i++
	return it.i < len(it.fields)
}

func (it *Iterator) Label() string    { return it.fields[it.i].Name }
func (it *Iterator) Value() Value     { return it.fields[it.i].Value }
func (it *Iterator) IsOptional() bool { return it.fields[it.i].Optional }

// Validate checks the concrete side against the constraints. A pure schema
// with no concrete data validates vacuously.
func (v Value) Validate() error {
	if !v.concrete {
		return nil
	}
	constraint := v.schema
	if constraint == nil {
		constraint = &v
	}
	return check(*constraint, v.data, "")
}

func check(c Value, data any, path string) error {
	at := func(format string, args ...any) error {
		msg := fmt.Sprintf(format, args...)
		if path == "" {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("%s: %s", path, msg)
	}

	switch c.kind {
	case TopKind:
		return nil
	case NullKind:
		if data != nil {
			return at("conflicting values null and %T", data)
		}
	case BoolKind:
		if _, ok := data.(bool); !ok {
			return at("cannot use %T as bool", data)
		}
	case StringKind:
		if _, ok := data.(string); !ok {
			return at("cannot use %T as string", data)
		}
	case BytesKind:
		if _, ok := data.([]byte); !ok {
			return at("cannot use %T as bytes", data)
		}
	case IntKind:
		switch n := data.(type) {
		case int, int64:
		case float64:
			if n != float64(int64(n)) {
				return at("cannot use %v as int", n)
			}
		default:
			return at("cannot use %T as int", data)
		}
	case FloatKind:
		switch data.(type) {
		case float64, float32, int, int64:
		default:
			return at("cannot use %T as float", data)
		}
	case StructKind:
		m, ok := data.(map[string]any)
		if !ok {
			return at("cannot use %T as struct", data)
		}
		for _, f := range c.fields {
			val, present := m[f.Name]
			sub := path + "." + f.Name
			if path == "" {
				sub = f.Name
			}
			if !present {
				if !f.Optional {
					return fmt.Errorf("%s: field is required but not present", sub)
				}
				continue
			}
			if err := check(f.Value, val, sub); err != nil {
				return err
			}
		}
	case ListKind:
		arr, ok := data.([]any)
		if !ok {
			return at("cannot use %T as list", data)
		}
		if c.elem != nil {
			for i, item := range arr {
				if err := check(*c.elem, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
