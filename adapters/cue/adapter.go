// Package cue adapts CUE values used as schemas. A value is matched by the
// cue.Value method set (IncompleteKind, Unify, Context), classified by its
// incomplete kind, and validated by encoding the data through the value's
// context, unifying, and asking the unified value to validate itself.
package cue

import (
	"context"
	"fmt"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for CUE values.
const Vendor = "cuelang.org/go"

type node struct {
	schema   any
	optional bool
}

// New returns the cue adapter.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match: func(v any) bool {
			if _, ok := v.(node); ok {
				return true
			}
			return probe.HasMethod(v, "IncompleteKind", 0, 1) &&
				probe.HasMethod(v, "Unify", 1, 1) &&
				probe.HasMethod(v, "Context", 0, 1)
		},

		IsOptional: func(v any) bool {
			n, ok := v.(node)
			return ok && n.optional
		},

		IsString:  isKind("string"),
		IsNumber:  isKind("float", "number"),
		IsInteger: isKind("int"),
		IsBoolean: isKind("bool"),
		IsNull:    isKind("null"),
		IsBytes:   isKind("bytes"),
		IsAny:     isKind("_"),
		IsObject:  isKind("struct"),
		IsArray:   isKind("list"),

		ObjectEntries: objectEntries,
		ArrayElement: func(v any) any {
			out, err := probe.CallMethod(inner(v), "Elem")
			if err != nil || len(out) != 2 || !out[1].Bool() {
				return nil
			}
			return out[0].Interface()
		},

		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				return unifyValidate(inner(schema), data)
			})
		},
	})
}

func inner(v any) any {
	if n, ok := v.(node); ok {
		return n.schema
	}
	return v
}

func kindName(v any) string {
	out, err := probe.CallMethod(inner(v), "IncompleteKind")
	if err != nil || len(out) == 0 {
		return ""
	}
	if s, ok := out[0].Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(out[0].Interface())
}

func isKind(names ...string) func(any) bool {
	return func(v any) bool {
		k := kindName(v)
		for _, n := range names {
			if k == n {
				return true
			}
		}
		return false
	}
}

// objectEntries walks the value's field iterator: Fields() yields an
// iterator answering Next, Label (or Selector), Value and IsOptional.
func objectEntries(v any) []anyskema.ObjectEntry {
	out, err := probe.CallMethod(inner(v), "Fields")
	if err != nil || len(out) == 0 {
		return nil
	}
	it := out[0].Interface()
	if len(out) == 2 {
		if e, isErr := probe.AsError(out[1]); isErr && e != nil {
			return nil
		}
	}
	var entries []anyskema.ObjectEntry
	for {
		next, err := probe.CallMethod(it, "Next")
		if err != nil || len(next) == 0 || !next[0].Bool() {
			break
		}
		label, err := probe.CallMethod(it, "Label")
		if err != nil || len(label) == 0 {
			continue
		}
		val, err := probe.CallMethod(it, "Value")
		if err != nil || len(val) == 0 {
			continue
		}
		optional := false
		if opt, err := probe.CallMethod(it, "IsOptional"); err == nil && len(opt) == 1 {
			optional, _ = opt[0].Interface().(bool)
		}
		entries = append(entries, anyskema.ObjectEntry{
			Key:   fmt.Sprint(label[0].Interface()),
			Value: node{schema: val[0].Interface(), optional: optional},
		})
	}
	return entries
}

// unifyValidate runs the CUE validation chain: encode the data in the
// schema's context, unify, validate the unified value.
func unifyValidate(schema, data any) anyskema.Result {
	ctxOut, err := probe.CallMethod(schema, "Context")
	if err != nil || len(ctxOut) == 0 || probe.IsNilValue(ctxOut[0]) {
		return anyskema.FailMessage(anyskema.CodeUnsupported, "cue: value has no context")
	}
	encoded, err := probe.CallMethod(ctxOut[0].Interface(), "Encode", data)
	if err != nil || len(encoded) == 0 {
		return anyskema.FailMessage(anyskema.CodeInvalidType, fmt.Sprintf("cue: data is not encodable: %v", err))
	}
	unified, err := probe.CallMethod(schema, "Unify", encoded[0].Interface())
	if err != nil || len(unified) == 0 {
		return anyskema.FailMessage(anyskema.CodeNativePanic, fmt.Sprintf("cue: unify: %v", err))
	}
	vErr, err := probe.CallMethod(unified[0].Interface(), "Validate")
	if err != nil || len(vErr) == 0 {
		return anyskema.FailMessage(anyskema.CodeUnsupported, "cue: unified value has no Validate method")
	}
	if nerr, _ := probe.AsError(vErr[0]); nerr != nil {
		return anyskema.Result{Issues: convention.IssuesFrom(nerr)}
	}
	return anyskema.OK(data)
}
