// Package probe provides the reflection primitives adapters use to inspect
// and invoke values from validation libraries that are not imported at build
// time. Everything here is read-only with respect to the probed value.
package probe

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// TypeName returns the dynamic type of v as a string ("nil" for nil).
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// PkgPathHasSuffix reports whether the (pointer-stripped) dynamic type of v
// was declared in a package whose import path ends with suffix.
func PkgPathHasSuffix(v any, suffix string) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	p := t.PkgPath()
	return p == strings.TrimPrefix(suffix, "/") || strings.HasSuffix(p, suffix)
}

// PkgPathContains reports whether the declaring package path of v's
// (pointer-stripped) dynamic type contains sub.
func PkgPathContains(v any, sub string) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.Contains(t.PkgPath(), sub)
}

// Method looks up a method by name on v (value or pointer receiver).
func Method(v any, name string) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	m := reflect.ValueOf(v).MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, false
	}
	return m, true
}

// HasMethod reports whether v has a method with the given name and arity.
// Pass -1 for numIn or numOut to skip that check.
func HasMethod(v any, name string, numIn, numOut int) bool {
	m, ok := Method(v, name)
	if !ok {
		return false
	}
	t := m.Type()
	if numIn >= 0 && t.NumIn() != numIn {
		return false
	}
	if numOut >= 0 && t.NumOut() != numOut {
		return false
	}
	return true
}

var errNotCallable = errors.New("probe: value is not callable")

// Call invokes fn with args, converting each argument to the parameter type
// where needed. Panics inside the call are recovered and returned as errors:
// a foreign library must never take the process down.
func Call(fn reflect.Value, args ...any) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe: call panicked: %v", r)
		}
	}()
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, errNotCallable
	}
	t := fn.Type()
	if t.IsVariadic() {
		if len(args) < t.NumIn()-1 {
			return nil, fmt.Errorf("probe: want at least %d args, got %d", t.NumIn()-1, len(args))
		}
	} else if len(args) != t.NumIn() {
		return nil, fmt.Errorf("probe: want %d args, got %d", t.NumIn(), len(args))
	}
	in := make([]reflect.Value, 0, len(args))
	for i, a := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= t.NumIn()-1 {
			pt = t.In(t.NumIn() - 1).Elem()
		} else {
			pt = t.In(i)
		}
		if a == nil {
			in = append(in, reflect.Zero(pt))
			continue
		}
		av := reflect.ValueOf(a)
		if !av.Type().AssignableTo(pt) {
			if !av.Type().ConvertibleTo(pt) {
				return nil, fmt.Errorf("probe: arg %d (%s) not assignable to %s", i, av.Type(), pt)
			}
			av = av.Convert(pt)
		}
		in = append(in, av)
	}
	return fn.Call(in), nil
}

// CallMethod is Method followed by Call.
func CallMethod(v any, name string, args ...any) ([]reflect.Value, error) {
	m, ok := Method(v, name)
	if !ok {
		return nil, fmt.Errorf("probe: no method %s on %s", name, TypeName(v))
	}
	return Call(m, args...)
}

// Field reads an exported struct field by name, dereferencing pointers.
// The second result is false when v is not a struct, the field does not
// exist, or it is unexported.
func Field(v any, name string) (any, bool) {
	rv, ok := structValue(v)
	if !ok {
		return nil, false
	}
	f := rv.FieldByName(name)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

// HasField reports whether v is a struct (possibly behind pointers) with an
// exported field of the given name.
func HasField(v any, name string) bool {
	_, ok := Field(v, name)
	return ok
}

// StringField reads an exported string field.
func StringField(v any, name string) (string, bool) {
	f, ok := Field(v, name)
	if !ok {
		return "", false
	}
	s, ok := f.(string)
	return s, ok
}

// AsError converts a returned reflect value to error. A nil interface value
// yields (nil, true), and so does a typed nil concrete error — some libraries
// return a nil *Error through the error interface, and calling Error() on the
// nil receiver would blow up downstream.
func AsError(rv reflect.Value) (error, bool) {
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, true
		}
		rv = rv.Elem()
	}
	err, ok := rv.Interface().(error)
	if !ok {
		return nil, false
	}
	if IsNilValue(rv) {
		return nil, true
	}
	return err, true
}

// IsNilValue reports whether rv holds a nil pointer/map/slice/interface.
func IsNilValue(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func structValue(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return rv, true
}
