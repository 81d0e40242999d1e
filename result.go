package anyskema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/anyskema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeValidationFailed = "validation_failed"
	CodeInvalidType      = "invalid_type"
	CodeUnsupported      = "unsupported"
	CodeUnknownVendor    = "unknown_vendor"
	CodeNativePanic      = "native_panic"
)

// Issue represents a single normalized validation entry. Path holds the chain
// of object keys (string) and array indices (int) from the validated root to
// the point of failure; an empty path means the root value itself.
type Issue struct {
	Message string
	Path    []any
	Code    string // Optional: one of the codes listed above, or a vendor code.
}

// Pointer renders the issue path as an RFC 6901 JSON Pointer
// (for example: /items/2/price). The root path renders as "/".
func (it Issue) Pointer() string {
	if len(it.Path) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range it.Path {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			b.WriteString(escapePointerToken(s))
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			fmt.Fprintf(b, "%v", s)
		}
	}
	return b.String()
}

func escapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// Issues is a collection of validation entries that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Message, it.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Result is the normalized envelope returned by every adapter's Validate.
// Exactly one of the two states holds: Success with Data, or not Success with
// at least one Issue.
type Result struct {
	Success bool
	Data    any
	Issues  Issues
}

// OK returns a success Result carrying the validated (possibly coerced) data.
func OK(data any) Result { return Result{Success: true, Data: data} }

// Fail returns a failure Result. When the caller supplies no issues — common
// when a native library reports failure without detail — a single generic
// issue is inserted so the failure invariant holds.
func Fail(issues ...Issue) Result {
	if len(issues) == 0 {
		issues = []Issue{{Code: CodeValidationFailed, Message: i18n.T(CodeValidationFailed, nil)}}
	}
	return Result{Issues: issues}
}

// FailMessage returns a failure Result with a single issue built from code
// and message. An empty message falls back to the i18n catalog for the code.
func FailMessage(code, message string) Result {
	if message == "" {
		message = i18n.T(code, nil)
	}
	return Result{Issues: Issues{{Code: code, Message: message}}}
}

// Err converts the Result to the error form: nil on success, Issues otherwise.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	if len(r.Issues) == 0 {
		return Issues{{Code: CodeValidationFailed, Message: i18n.T(CodeValidationFailed, nil)}}
	}
	return r.Issues
}
