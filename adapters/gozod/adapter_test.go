package gozod_test

import (
	"context"
	"testing"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/adapters/gozod"
	fix "github.com/reoring/anyskema/internal/fixture/gozod"
)

func TestMatch(t *testing.T) {
	a := gozod.New()
	if !a.Match(fix.String()) {
		t.Fatalf("a gozod schema must match")
	}
	for _, v := range []any{nil, 42, "text", map[string]any{"type": "string"}, struct{}{}} {
		if a.Match(v) {
			t.Fatalf("Match(%#v) = true, want false", v)
		}
	}
}

// gozod models enums as all-literal unions; such a union must classify as an
// enum and never double-report as a union.
func TestEnumUnionExclusion(t *testing.T) {
	a := gozod.New()

	enum := fix.Enum("red", "green")
	if !a.IsEnum(enum) {
		t.Fatalf("all-literal union must be an enum")
	}
	if a.IsUnion(enum) {
		t.Fatalf("all-literal union must not also be a union")
	}
	if got := a.EnumValues(enum); len(got) != 2 || got[0] != "red" {
		t.Fatalf("EnumValues = %v", got)
	}

	mixed := fix.Union(fix.Literal("red"), fix.Number())
	if a.IsEnum(mixed) {
		t.Fatalf("mixed union must not be an enum")
	}
	if !a.IsUnion(mixed) {
		t.Fatalf("mixed union must be a union")
	}
	if got := a.UnionOptions(mixed); len(got) != 2 {
		t.Fatalf("UnionOptions = %v", got)
	}
}

func TestWrapperProbes(t *testing.T) {
	a := gozod.New()
	inner := fix.String()

	cases := []struct {
		name   string
		schema any
		probe  func(any) bool
	}{
		{"optional", fix.Optional(inner), a.IsOptional},
		{"nullable", fix.Nullable(inner), a.IsNullable},
		{"default", fix.Default(inner, "x"), a.IsDefault},
		{"transform", fix.Transform(inner), a.IsTransform},
		{"branded", fix.Branded(inner), a.IsBranded},
		{"catch", fix.Catch(inner, "y"), a.IsCatch},
	}
	for _, tc := range cases {
		if !tc.probe(tc.schema) {
			t.Errorf("%s probe = false", tc.name)
		}
		got := a.Unwrap(tc.schema)
		if got != inner {
			t.Errorf("%s Unwrap = %v, want the inner schema", tc.name, got)
		}
	}

	lazy := fix.Lazy(func() any { return inner })
	if !a.IsLazy(lazy) || a.Unwrap(lazy) != inner {
		t.Fatalf("lazy must unwrap through its getter")
	}
	if a.Unwrap(inner) != nil {
		t.Fatalf("a non-wrapper must unwrap to nil")
	}
}

func TestValidate_CatchRecovers(t *testing.T) {
	schema := fix.Catch(fix.Int(), -1)
	r := anyskema.NewValidator(gozod.New()).Validate(context.Background(), schema, "oops")
	if !r.Success || r.Data != -1 {
		t.Fatalf("catch must swallow the failure and produce the fallback: %+v", r)
	}
}
