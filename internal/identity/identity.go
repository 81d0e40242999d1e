// Package identity derives reference identities for schema values so the
// transformer can detect cycles. Only referential kinds (pointers, maps,
// slices, funcs, channels) carry an identity; a value that cannot alias
// itself cannot form a cycle and needs none.
package identity

import "reflect"

// Key identifies a schema value by its referent and dynamic type.
type Key struct {
	ptr uintptr
	typ reflect.Type
}

// Of returns the identity of v, or false when v is nil or non-referential.
func Of(v any) (Key, bool) {
	if v == nil {
		return Key{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return Key{}, false
		}
		return Key{ptr: rv.Pointer(), typ: rv.Type()}, true
	}
	return Key{}, false
}
