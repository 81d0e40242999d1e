package anyskema_test

import (
	"fmt"
	"strings"
	"testing"

	anyskema "github.com/reoring/anyskema"
)

func TestIssue_PointerEscaping(t *testing.T) {
	it := anyskema.Issue{Path: []any{"a/b", "c~d", 2}}
	if got := it.Pointer(); got != "/a~1b/c~0d/2" {
		t.Fatalf("Pointer() = %q, want /a~1b/c~0d/2", got)
	}
}

func TestIssue_PointerRoot(t *testing.T) {
	it := anyskema.Issue{Message: "boom"}
	if got := it.Pointer(); got != "/" {
		t.Fatalf("Pointer() on empty path = %q, want /", got)
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := anyskema.Issues{
		{Message: "too short", Path: []any{"name"}},
		{Message: "not a number", Path: []any{"age"}},
	}
	s := iss.Error()
	if !strings.Contains(s, "too short at /name") {
		t.Fatalf("summary %q missing first issue", s)
	}
	if !strings.Contains(s, "not a number at /age") {
		t.Fatalf("summary %q missing second issue", s)
	}
}

func TestIssues_ErrorSummaryTruncates(t *testing.T) {
	iss := make(anyskema.Issues, 5)
	for i := range iss {
		iss[i] = anyskema.Issue{Message: "bad", Path: []any{i}}
	}
	s := iss.Error()
	if !strings.Contains(s, "(total 5)") {
		t.Fatalf("summary %q should report the total count", s)
	}
}

func TestFail_InsertsGenericIssue(t *testing.T) {
	r := anyskema.Fail()
	if r.Success {
		t.Fatalf("Fail() must not be a success")
	}
	if len(r.Issues) != 1 {
		t.Fatalf("Fail() issues = %d, want exactly one generic issue", len(r.Issues))
	}
	if r.Issues[0].Code != anyskema.CodeValidationFailed {
		t.Fatalf("generic issue code = %q, want %q", r.Issues[0].Code, anyskema.CodeValidationFailed)
	}
	if r.Issues[0].Message == "" {
		t.Fatalf("generic issue must carry a message")
	}
}

func TestFailMessage_FallsBackToCatalog(t *testing.T) {
	r := anyskema.FailMessage(anyskema.CodeUnsupported, "")
	if len(r.Issues) != 1 || r.Issues[0].Message == "" {
		t.Fatalf("FailMessage with empty message must fill from the catalog, got %+v", r.Issues)
	}
}

func TestResult_Err(t *testing.T) {
	if err := anyskema.OK("x").Err(); err != nil {
		t.Fatalf("OK().Err() = %v, want nil", err)
	}
	err := anyskema.Fail(anyskema.Issue{Message: "nope"}).Err()
	if err == nil {
		t.Fatalf("failure Err() must be non-nil")
	}
	iss, ok := anyskema.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("AsIssues(%v) = %v, %v", err, iss, ok)
	}
}

func TestAsIssues_Wrapped(t *testing.T) {
	base := anyskema.Issues{{Message: "inner"}}
	wrapped := fmt.Errorf("validate payload: %w", base)
	iss, ok := anyskema.AsIssues(wrapped)
	if !ok || len(iss) != 1 || iss[0].Message != "inner" {
		t.Fatalf("AsIssues through a wrapped error = %v, %v", iss, ok)
	}
	if _, ok := anyskema.AsIssues(nil); ok {
		t.Fatalf("AsIssues(nil) must report false")
	}
	if _, ok := anyskema.AsIssues(fmt.Errorf("plain")); ok {
		t.Fatalf("AsIssues on a plain error must report false")
	}
}
