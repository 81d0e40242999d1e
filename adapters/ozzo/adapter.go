// Package ozzo adapts ozzo-validation rule sets. A rule set reaches this
// adapter either as a callable (func(v) error or func(v) []issue) or as a
// value from an ozzo package implementing Validate(v) error. Rules carry no
// structural information, so conversion degrades to a permissive fragment;
// the value of the adapter is uniform validation over plain Go rules.
package ozzo

import (
	"context"
	"reflect"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for ozzo rule sets.
const Vendor = "ozzo-validation"

// New returns the ozzo adapter.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match: func(v any) bool {
			if isCallable(v) {
				return true
			}
			return probe.PkgPathContains(v, "ozzo") && probe.HasMethod(v, "Validate", 1, 1)
		},
		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				if r, ok := convention.Callable(ctx, schema, data); ok {
					return r
				}
				if r, ok := ruleValidate(schema, data); ok {
					return r
				}
				return anyskema.FailMessage(anyskema.CodeUnsupported, "ozzo: rule is neither callable nor a Validate-bearer")
			})
		},
	})
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// isCallable reports whether v is a one-in one-out rule function. The result
// must be an error or an issue slice: accepting any one-out function would
// make ordinary functions duck-match as schemas in vendor detection.
func isCallable(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return false
	}
	t := rv.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 {
		return false
	}
	return t.Out(0) == errType || t.Out(0).Kind() == reflect.Slice
}

// ruleValidate runs a Rule-shaped value: Validate(v) error, where the error
// may be an ozzo Errors map (field name to error).
func ruleValidate(schema, data any) (anyskema.Result, bool) {
	m, ok := probe.Method(schema, "Validate")
	if !ok {
		return anyskema.Result{}, false
	}
	t := m.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 || t.Out(0).Kind() == reflect.Map {
		return anyskema.Result{}, false
	}
	out, err := probe.Call(m, data)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	if nerr, _ := probe.AsError(out[0]); nerr != nil {
		return anyskema.Result{Issues: convention.IssuesFrom(nerr)}, true
	}
	return anyskema.OK(data), true
}
