package convention_test

import (
	"context"
	"errors"
	"testing"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	gjsfix "github.com/reoring/anyskema/internal/fixture/gojsonschema"
	goskemafix "github.com/reoring/anyskema/internal/fixture/goskema"
	gozodfix "github.com/reoring/anyskema/internal/fixture/gozod"
	kapfix "github.com/reoring/anyskema/internal/fixture/kaptinlin"
	qrifix "github.com/reoring/anyskema/internal/fixture/qri"
	v5fix "github.com/reoring/anyskema/internal/fixture/santhoshv5"
	zogfix "github.com/reoring/anyskema/internal/fixture/zog"
)

func TestGuard_RecoversPanic(t *testing.T) {
	r := convention.Guard(func() anyskema.Result {
		panic("native library exploded")
	})
	if r.Success {
		t.Fatalf("a recovered panic must be a failure")
	}
	if len(r.Issues) != 1 || r.Issues[0].Code != anyskema.CodeNativePanic {
		t.Fatalf("issues = %+v, want a single %q issue", r.Issues, anyskema.CodeNativePanic)
	}
}

func TestGuard_PassesResultThrough(t *testing.T) {
	r := convention.Guard(func() anyskema.Result { return anyskema.OK("fine") })
	if !r.Success || r.Data != "fine" {
		t.Fatalf("Guard altered a clean result: %+v", r)
	}
}

func TestSafeParse(t *testing.T) {
	ctx := context.Background()

	r, ok := convention.SafeParse(ctx, gozodfix.String(), "hello")
	if !ok || !r.Success || r.Data != "hello" {
		t.Fatalf("SafeParse success = %+v, %v", r, ok)
	}

	r, ok = convention.SafeParse(ctx, gozodfix.String(), 7)
	if !ok || r.Success || len(r.Issues) == 0 {
		t.Fatalf("SafeParse failure = %+v, %v", r, ok)
	}

	if _, ok := convention.SafeParse(ctx, "not a schema", "x"); ok {
		t.Fatalf("SafeParse must decline values without the method")
	}
}

func TestContextValidate(t *testing.T) {
	ctx := context.Background()
	schema := goskemafix.String()

	r, ok := convention.ContextValidate(ctx, schema, "hello")
	if !ok || !r.Success {
		t.Fatalf("ContextValidate success = %+v, %v", r, ok)
	}

	r, ok = convention.ContextValidate(ctx, schema, 7)
	if !ok || r.Success {
		t.Fatalf("ContextValidate failure = %+v, %v", r, ok)
	}

	// SafeParse-bearers are claimed by the more specific convention.
	if _, ok := convention.ContextValidate(ctx, gozodfix.String(), "x"); ok {
		t.Fatalf("ContextValidate must decline SafeParse-bearers")
	}
}

func TestThrowingValidate_FlattensCauseTree(t *testing.T) {
	ctx := context.Background()
	str := v5fix.New("file:///s.json#")
	str.Types = []string{"string"}
	obj := v5fix.New("file:///s.json#")
	obj.Types = []string{"object"}
	obj.Properties = map[string]*v5fix.Schema{"a": str, "b": str}

	r, ok := convention.ThrowingValidate(ctx, obj, map[string]any{"a": "x", "b": "y"})
	if !ok || !r.Success {
		t.Fatalf("ThrowingValidate success = %+v, %v", r, ok)
	}

	r, ok = convention.ThrowingValidate(ctx, obj, map[string]any{"a": 1, "b": 2})
	if !ok || r.Success {
		t.Fatalf("ThrowingValidate failure = %+v, %v", r, ok)
	}
	if len(r.Issues) != 2 {
		t.Fatalf("cause tree must flatten to one issue per leaf, got %+v", r.Issues)
	}
	pointers := map[string]bool{}
	for _, it := range r.Issues {
		pointers[it.Pointer()] = true
	}
	if !pointers["/a"] || !pointers["/b"] {
		t.Fatalf("issue pointers = %v, want /a and /b", pointers)
	}
}

// typedNilSchema models a library whose Validate returns a nil *typedNilErr
// through the error interface on success.
type typedNilSchema struct{}

type typedNilErr struct{ msg string }

func (e *typedNilErr) Error() string { return e.msg }

func (typedNilSchema) Validate(v any) error {
	var e *typedNilErr
	if _, ok := v.(string); !ok {
		e = &typedNilErr{msg: "not a string"}
	}
	return e
}

func TestThrowingValidate_TypedNilErrorIsSuccess(t *testing.T) {
	ctx := context.Background()

	r, ok := convention.ThrowingValidate(ctx, typedNilSchema{}, "fine")
	if !ok || !r.Success {
		t.Fatalf("ThrowingValidate = %+v, %v, want success", r, ok)
	}

	r, ok = convention.ThrowingValidate(ctx, typedNilSchema{}, 7)
	if !ok || r.Success || len(r.Issues) == 0 {
		t.Fatalf("ThrowingValidate failure = %+v, %v", r, ok)
	}
}

func TestIssuesFrom_TypedNilCarrier(t *testing.T) {
	if iss := convention.IssuesFrom((*typedNilErr)(nil)); len(iss) != 0 {
		t.Fatalf("a typed nil carrier must yield no issues, got %+v", iss)
	}
}

func TestErrorValuePair(t *testing.T) {
	ctx := context.Background()
	schema := gjsfix.NewSchema(map[string]any{"type": "string"})

	r, ok := convention.ErrorValuePair(ctx, schema, "hello")
	if !ok || !r.Success {
		t.Fatalf("ErrorValuePair success = %+v, %v", r, ok)
	}

	r, ok = convention.ErrorValuePair(ctx, schema, 7)
	if !ok || r.Success || len(r.Issues) == 0 {
		t.Fatalf("ErrorValuePair failure = %+v, %v", r, ok)
	}
}

func TestEvaluationResult(t *testing.T) {
	ctx := context.Background()
	schema := &kapfix.Schema{Type: "string"}

	r, ok := convention.EvaluationResult(ctx, schema, "hello")
	if !ok || !r.Success {
		t.Fatalf("EvaluationResult success = %+v, %v", r, ok)
	}

	r, ok = convention.EvaluationResult(ctx, schema, 7)
	if !ok || r.Success || len(r.Issues) == 0 {
		t.Fatalf("EvaluationResult failure = %+v, %v", r, ok)
	}
}

func TestValidateBytes(t *testing.T) {
	ctx := context.Background()
	schema := qrifix.New(map[string]any{"type": qrifix.Type("string")})

	r, ok := convention.ValidateBytes(ctx, schema, "hello")
	if !ok || !r.Success {
		t.Fatalf("ValidateBytes success = %+v, %v", r, ok)
	}

	r, ok = convention.ValidateBytes(ctx, schema, 7)
	if !ok || r.Success || len(r.Issues) == 0 {
		t.Fatalf("ValidateBytes failure = %+v, %v", r, ok)
	}

	// Non-encodable data degrades to a typed failure, never an escape.
	r, ok = convention.ValidateBytes(ctx, schema, make(chan int))
	if !ok || r.Success || r.Issues[0].Code != anyskema.CodeInvalidType {
		t.Fatalf("ValidateBytes on non-JSON data = %+v, %v", r, ok)
	}
}

func TestIssueMap(t *testing.T) {
	ctx := context.Background()
	schema := zogfix.String().Min(3)

	r, ok := convention.IssueMap(ctx, schema, "hello")
	if !ok || !r.Success {
		t.Fatalf("IssueMap success = %+v, %v", r, ok)
	}

	r, ok = convention.IssueMap(ctx, schema, "hi")
	if !ok || r.Success || len(r.Issues) == 0 {
		t.Fatalf("IssueMap failure = %+v, %v", r, ok)
	}
}

func TestCallable(t *testing.T) {
	ctx := context.Background()
	rule := func(v any) error {
		if v == nil {
			return errors.New("value required")
		}
		return nil
	}

	r, ok := convention.Callable(ctx, rule, "present")
	if !ok || !r.Success {
		t.Fatalf("Callable success = %+v, %v", r, ok)
	}

	r, ok = convention.Callable(ctx, rule, nil)
	if !ok || r.Success || len(r.Issues) == 0 {
		t.Fatalf("Callable failure = %+v, %v", r, ok)
	}

	if _, ok := convention.Callable(ctx, "not callable", nil); ok {
		t.Fatalf("Callable must decline non-functions")
	}
}

func TestIssuesFrom(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		iss := convention.IssuesFrom(errors.New("boom"))
		if len(iss) != 1 || iss[0].Message != "boom" {
			t.Fatalf("IssuesFrom(error) = %+v", iss)
		}
	})

	t.Run("path-keyed map is sorted", func(t *testing.T) {
		iss := convention.IssuesFrom(map[string]string{
			"b": "second",
			"a": "first",
		})
		if len(iss) != 2 {
			t.Fatalf("IssuesFrom(map) = %+v", iss)
		}
		if iss[0].Pointer() != "/a" || iss[1].Pointer() != "/b" {
			t.Fatalf("map issues must come out key-sorted: %+v", iss)
		}
	})

	t.Run("issue struct", func(t *testing.T) {
		type nativeIssue struct {
			Message string
			Path    []any
		}
		iss := convention.IssuesFrom([]nativeIssue{{Message: "bad", Path: []any{"items", 2}}})
		if len(iss) != 1 || iss[0].Message != "bad" || iss[0].Pointer() != "/items/2" {
			t.Fatalf("IssuesFrom(struct slice) = %+v", iss)
		}
	})

	t.Run("non-empty carrier never yields nothing", func(t *testing.T) {
		iss := convention.IssuesFrom(42)
		if len(iss) != 1 || iss[0].Message == "" {
			t.Fatalf("IssuesFrom(42) = %+v", iss)
		}
	})
}
