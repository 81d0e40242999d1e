package convention

import (
	"context"
	"fmt"
	"reflect"

	j "github.com/goccy/go-json"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/internal/probe"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Guard runs fn and recovers any panic into a single opaque-message failure.
// Every adapter Validate should run its native call under Guard: a foreign
// library must never panic through this package.
func Guard(fn func() anyskema.Result) (r anyskema.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r = anyskema.FailMessage(anyskema.CodeNativePanic, fmt.Sprintf("native validator panicked: %v", rec))
		}
	}()
	return fn()
}

// SafeParse attempts the result-object convention: a SafeParse method whose
// return value carries a success flag plus data or issues (gozod).
func SafeParse(ctx context.Context, schema, data any) (anyskema.Result, bool) {
	m, ok := probe.Method(schema, "SafeParse")
	if !ok {
		return anyskema.Result{}, false
	}
	args, ok := callArgs(m.Type(), ctx, data)
	if !ok {
		return anyskema.Result{}, false
	}
	out, err := probe.Call(m, args...)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	if len(out) == 0 {
		return anyskema.Result{}, false
	}
	res, ok := resultValue(out[0])
	if !ok {
		return anyskema.Fail(), true
	}

	success, ok := boolOf(res, "Success", "Valid", "IsValid", "IsSuccess")
	if !ok {
		return anyskema.Result{}, false
	}
	if success {
		for _, name := range []string{"Data", "Value"} {
			if d, ok := probe.Field(res, name); ok {
				return anyskema.OK(d), true
			}
		}
		return anyskema.OK(data), true
	}
	for _, name := range []string{"Issues", "Errors", "Error"} {
		if f, ok := probe.Field(res, name); ok && f != nil {
			return anyskema.Result{Issues: IssuesFrom(f)}, true
		}
	}
	return anyskema.Fail(), true
}

// ContextValidate attempts the context-first convention:
// Validate(ctx, v) error (goskema). Guard: the value must not also expose
// SafeParse, which is the more specific convention.
func ContextValidate(ctx context.Context, schema, data any) (anyskema.Result, bool) {
	if probe.HasMethod(schema, "SafeParse", -1, -1) {
		return anyskema.Result{}, false
	}
	m, ok := probe.Method(schema, "Validate")
	if !ok {
		return anyskema.Result{}, false
	}
	t := m.Type()
	if t.NumIn() != 2 || t.In(0) != ctxType || t.NumOut() != 1 || t.Out(0) != errType {
		return anyskema.Result{}, false
	}
	out, err := probe.Call(m, ctx, data)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	if nerr, _ := probe.AsError(out[0]); nerr != nil {
		return anyskema.Result{Issues: IssuesFrom(nerr)}, true
	}
	return anyskema.OK(data), true
}

// ThrowingValidate attempts the throwing-sync convention: Validate(v) error
// where a non-nil error may carry a structured cause tree (santhosh-tekuri's
// jsonschema). Panics are converted, never propagated.
func ThrowingValidate(ctx context.Context, schema, data any) (anyskema.Result, bool) {
	if probe.HasMethod(schema, "SafeParse", -1, -1) {
		return anyskema.Result{}, false
	}
	m, ok := probe.Method(schema, "Validate")
	if !ok {
		return anyskema.Result{}, false
	}
	t := m.Type()
	if t.NumIn() != 1 || t.In(0) == ctxType || t.NumOut() != 1 || t.Out(0) != errType {
		return anyskema.Result{}, false
	}
	out, err := probe.Call(m, data)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	if nerr, _ := probe.AsError(out[0]); nerr != nil {
		return anyskema.Result{Issues: causeTree(nerr)}, true
	}
	return anyskema.OK(data), true
}

// ErrorValuePair attempts the error/value-pair convention:
// Validate(v) (result, error) where the result answers Valid() and Errors()
// (xeipuuv's gojsonschema).
func ErrorValuePair(ctx context.Context, schema, data any) (anyskema.Result, bool) {
	if probe.HasMethod(schema, "SafeParse", -1, -1) {
		return anyskema.Result{}, false
	}
	m, ok := probe.Method(schema, "Validate")
	if !ok {
		return anyskema.Result{}, false
	}
	t := m.Type()
	if t.NumIn() != 1 || t.NumOut() != 2 || t.Out(1) != errType {
		return anyskema.Result{}, false
	}
	out, err := probe.Call(m, data)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	if nerr, _ := probe.AsError(out[1]); nerr != nil {
		return anyskema.FailMessage(anyskema.CodeValidationFailed, nerr.Error()), true
	}
	res, ok := resultValue(out[0])
	if !ok {
		return anyskema.Fail(), true
	}
	valid, ok := boolOf(res, "Valid", "IsValid")
	if !ok {
		return anyskema.Result{}, false
	}
	if valid {
		return anyskema.OK(data), true
	}
	if errs, err := probe.CallMethod(res, "Errors"); err == nil && len(errs) == 1 {
		return anyskema.Result{Issues: IssuesFrom(errs[0].Interface())}, true
	}
	return anyskema.Fail(), true
}

// EvaluationResult attempts the evaluation-object convention: Validate(v)
// returning a single non-error result that answers IsValid()
// (kaptinlin's jsonschema).
func EvaluationResult(ctx context.Context, schema, data any) (anyskema.Result, bool) {
	if probe.HasMethod(schema, "SafeParse", -1, -1) {
		return anyskema.Result{}, false
	}
	m, ok := probe.Method(schema, "Validate")
	if !ok {
		return anyskema.Result{}, false
	}
	t := m.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 || t.Out(0) == errType || t.Out(0).Kind() == reflect.Map {
		return anyskema.Result{}, false
	}
	out, err := probe.Call(m, data)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	res, ok := resultValue(out[0])
	if !ok {
		return anyskema.Fail(), true
	}
	valid, ok := boolOf(res, "IsValid", "Valid")
	if !ok {
		return anyskema.Result{}, false
	}
	if valid {
		return anyskema.OK(data), true
	}
	if f, ok := probe.Field(res, "Errors"); ok && f != nil {
		return anyskema.Result{Issues: IssuesFrom(f)}, true
	}
	if errs, err := probe.CallMethod(res, "Errors"); err == nil && len(errs) == 1 {
		return anyskema.Result{Issues: IssuesFrom(errs[0].Interface())}, true
	}
	return anyskema.Fail(), true
}

// ValidateBytes attempts the two-argument dataset convention:
// ValidateBytes(ctx, []byte) ([]keyError, error) (qri-io's jsonschema).
// The data value is marshaled to JSON first.
func ValidateBytes(ctx context.Context, schema, data any) (anyskema.Result, bool) {
	m, ok := probe.Method(schema, "ValidateBytes")
	if !ok {
		return anyskema.Result{}, false
	}
	t := m.Type()
	if t.NumIn() != 2 || t.In(0) != ctxType || t.NumOut() != 2 || t.Out(1) != errType {
		return anyskema.Result{}, false
	}
	raw, err := j.Marshal(data)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeInvalidType, fmt.Sprintf("data is not JSON-encodable: %v", err)), true
	}
	out, err := probe.Call(m, ctx, raw)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	if nerr, _ := probe.AsError(out[1]); nerr != nil {
		return anyskema.FailMessage(anyskema.CodeValidationFailed, nerr.Error()), true
	}
	errsVal := out[0]
	if probe.IsNilValue(errsVal) || (errsVal.Kind() == reflect.Slice && errsVal.Len() == 0) {
		return anyskema.OK(data), true
	}
	return anyskema.Result{Issues: IssuesFrom(errsVal.Interface())}, true
}

// IssueMap attempts the issue-map convention: Validate(v) returning a
// path-keyed map of issues, nil or empty meaning success (zog, and ozzo's
// validation.Errors shape).
func IssueMap(ctx context.Context, schema, data any) (anyskema.Result, bool) {
	if probe.HasMethod(schema, "SafeParse", -1, -1) {
		return anyskema.Result{}, false
	}
	m, ok := probe.Method(schema, "Validate")
	if !ok {
		return anyskema.Result{}, false
	}
	t := m.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.Map {
		return anyskema.Result{}, false
	}
	out, err := probe.Call(m, data)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	if probe.IsNilValue(out[0]) || out[0].Len() == 0 {
		return anyskema.OK(data), true
	}
	return anyskema.Result{Issues: IssuesFrom(out[0].Interface())}, true
}

// Callable attempts the callable-schema convention: the schema value is
// itself a function, either func(v) error or func(v) []issue with an empty
// slice meaning success (ozzo rule functions).
func Callable(ctx context.Context, schema, data any) (anyskema.Result, bool) {
	rv := reflect.ValueOf(schema)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return anyskema.Result{}, false
	}
	t := rv.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 {
		return anyskema.Result{}, false
	}
	out, err := probe.Call(rv, data)
	if err != nil {
		return anyskema.FailMessage(anyskema.CodeNativePanic, err.Error()), true
	}
	switch {
	case t.Out(0) == errType:
		if nerr, _ := probe.AsError(out[0]); nerr != nil {
			return anyskema.Result{Issues: IssuesFrom(nerr)}, true
		}
		return anyskema.OK(data), true
	case t.Out(0).Kind() == reflect.Slice:
		if probe.IsNilValue(out[0]) || out[0].Len() == 0 {
			return anyskema.OK(data), true
		}
		return anyskema.Result{Issues: IssuesFrom(out[0].Interface())}, true
	}
	return anyskema.Result{}, false
}

// causeTree flattens a structured error tree (an error whose value carries a
// Causes slice of the same shape) into issues, one per leaf.
func causeTree(err error) anyskema.Issues {
	var walk func(v any) anyskema.Issues
	walk = func(v any) anyskema.Issues {
		causes, ok := probe.Field(v, "Causes")
		if ok && causes != nil {
			cv := reflect.ValueOf(causes)
			if cv.Kind() == reflect.Slice && cv.Len() > 0 {
				var out anyskema.Issues
				for i := 0; i < cv.Len(); i++ {
					out = append(out, walk(cv.Index(i).Interface())...)
				}
				return out
			}
		}
		return IssuesFrom(v)
	}
	iss := walk(err)
	if len(iss) == 0 {
		iss = anyskema.Issues{{Code: anyskema.CodeValidationFailed, Message: err.Error()}}
	}
	return iss
}

// callArgs shapes (ctx, data) to the method's parameter list: plain 1-arg
// conventions get data only, context-first 2-arg conventions get both.
func callArgs(t reflect.Type, ctx context.Context, data any) ([]any, bool) {
	switch {
	case t.NumIn() == 1:
		return []any{data}, true
	case t.NumIn() == 2 && t.In(0) == ctxType:
		return []any{ctx, data}, true
	}
	return nil, false
}

// resultValue unboxes a returned native result, keeping pointers intact so
// pointer-receiver methods stay reachable. Reports false for nil results.
func resultValue(rv reflect.Value) (any, bool) {
	if !rv.IsValid() || probe.IsNilValue(rv) {
		return nil, false
	}
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
		if probe.IsNilValue(rv) {
			return nil, false
		}
	}
	return rv.Interface(), true
}

// boolOf reads the first available boolean of the given field or zero-arg
// method names.
func boolOf(v any, names ...string) (bool, bool) {
	if v == nil {
		return false, false
	}
	for _, name := range names {
		if f, ok := probe.Field(v, name); ok {
			if b, ok := f.(bool); ok {
				return b, true
			}
		}
		if out, err := probe.CallMethod(v, name); err == nil && len(out) == 1 && out[0].Kind() == reflect.Bool {
			return out[0].Bool(), true
		}
	}
	return false, false
}
