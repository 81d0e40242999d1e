package convention

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/internal/probe"
)

// IssuesFrom normalizes whatever issue carrier a native library returned —
// an error, an issue struct, a slice of them, or a path-keyed map — into
// anyskema.Issues. It never returns an empty slice for a non-nil carrier:
// a carrier that yields nothing produces one generic issue.
func IssuesFrom(v any) anyskema.Issues {
	iss := collectIssues(v, nil)
	if len(iss) == 0 && v != nil && !probe.IsNilValue(reflect.ValueOf(v)) {
		if err, ok := v.(error); ok {
			return anyskema.Issues{{Code: anyskema.CodeValidationFailed, Message: err.Error()}}
		}
		return anyskema.Issues{{Code: anyskema.CodeValidationFailed, Message: fmt.Sprintf("%v", v)}}
	}
	return iss
}

func collectIssues(v any, prefix []any) anyskema.Issues {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var out anyskema.Issues
		for i := 0; i < rv.Len(); i++ {
			out = append(out, collectIssues(rv.Index(i).Interface(), prefix)...)
		}
		return out

	case reflect.Map:
		// Path-keyed maps (ozzo validation.Errors, zog issue maps). Keys are
		// visited in sorted order for deterministic output.
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		for _, k := range rv.MapKeys() {
			ks := fmt.Sprintf("%v", k.Interface())
			keys = append(keys, ks)
			byKey[ks] = rv.MapIndex(k)
		}
		sort.Strings(keys)
		var out anyskema.Issues
		for _, ks := range keys {
			p := append(append([]any{}, prefix...), NormalizeDotted(ks)...)
			out = append(out, collectIssues(byKey[ks].Interface(), p)...)
		}
		return out

	case reflect.String:
		return anyskema.Issues{{Code: anyskema.CodeValidationFailed, Message: rv.String(), Path: prefix}}

	case reflect.Struct:
		return anyskema.Issues{issueFromStruct(rv.Interface(), v, prefix)}
	}

	if err, ok := v.(error); ok {
		return anyskema.Issues{{Code: anyskema.CodeValidationFailed, Message: err.Error(), Path: prefix}}
	}
	return nil
}

// issueFromStruct reads the message, path and code out of a single native
// issue value using the field and method names the supported libraries use.
func issueFromStruct(v, orig any, prefix []any) anyskema.Issue {
	it := anyskema.Issue{Code: anyskema.CodeValidationFailed, Path: prefix}

	for _, name := range []string{"Message", "Description", "Msg"} {
		if s, ok := probe.StringField(v, name); ok && s != "" {
			it.Message = s
			break
		}
	}
	if it.Message == "" {
		for _, name := range []string{"Message", "Description"} {
			if out, err := probe.CallMethod(v, name); err == nil && len(out) == 1 && out[0].Kind() == reflect.String {
				it.Message = out[0].String()
				break
			}
		}
	}
	if it.Message == "" {
		if err, ok := orig.(error); ok {
			it.Message = err.Error()
		} else if err, ok := v.(error); ok {
			it.Message = err.Error()
		}
	}
	if it.Message == "" {
		it.Message = fmt.Sprintf("%v", v)
	}

	if c, ok := probe.StringField(v, "Code"); ok && c != "" {
		it.Code = c
	}

	it.Path = append(it.Path, nativePath(v)...)
	return it
}

// nativePath extracts a path from a native issue value, trying the pointer,
// dotted and segment-slice shapes in turn.
func nativePath(v any) []any {
	for _, name := range []string{"Path", "PropertyPath", "InstanceLocation", "InstancePtr", "Field", "DataPath"} {
		f, ok := probe.Field(v, name)
		if !ok {
			if out, err := probe.CallMethod(v, name); err == nil && len(out) == 1 {
				f, ok = out[0].Interface(), true
			}
		}
		if !ok || f == nil {
			continue
		}
		switch p := f.(type) {
		case string:
			p = strings.TrimPrefix(p, "#")
			if p == "" {
				continue
			}
			if p[0] == '/' {
				return NormalizePointer(p)
			}
			return NormalizeDotted(p)
		case []any:
			return NormalizeSegments(p)
		case []string:
			segs := make([]any, len(p))
			for i, s := range p {
				segs[i] = s
			}
			return NormalizeSegments(segs)
		default:
			rv := reflect.ValueOf(f)
			if rv.Kind() == reflect.Slice {
				segs := make([]any, rv.Len())
				for i := 0; i < rv.Len(); i++ {
					segs[i] = rv.Index(i).Interface()
				}
				return NormalizeSegments(segs)
			}
		}
	}
	return nil
}
