package convention

import (
	"strconv"
	"strings"

	"github.com/reoring/anyskema/internal/probe"
)

// NormalizePointer converts an RFC 6901 JSON Pointer ("/items/2/price") into
// bare path segments: object keys as string, array indices as int. "" and "/"
// normalize to the empty (root) path.
func NormalizePointer(p string) []any {
	if p == "" || p == "/" {
		return nil
	}
	var out []any
	for _, tok := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tok = strings.ReplaceAll(tok, "~0", "~")
		out = append(out, segment(tok))
	}
	return out
}

// NormalizeDotted converts dotted paths ("items[2].price", "a.b.0") into bare
// segments. The pseudo-roots "$", "$root" and "(root)" normalize to the empty
// path.
func NormalizeDotted(p string) []any {
	switch p {
	case "", ".", "$", "$root", "(root)":
		return nil
	}
	p = strings.TrimPrefix(p, "$.")
	var out []any
	for _, tok := range strings.Split(p, ".") {
		if tok == "" || tok == "(root)" || tok == "$" {
			continue
		}
		for {
			open := strings.IndexByte(tok, '[')
			if open < 0 {
				out = append(out, segment(tok))
				break
			}
			if open > 0 {
				out = append(out, segment(tok[:open]))
			}
			close := strings.IndexByte(tok, ']')
			if close <= open {
				out = append(out, segment(tok[open:]))
				break
			}
			out = append(out, segment(tok[open+1:close]))
			tok = tok[close+1:]
			if tok == "" {
				break
			}
		}
	}
	return out
}

// NormalizeSegments maps a native segment slice to bare string/int segments.
// Conventions that model object keys as {Key} wrapper structures are
// flattened to the wrapped key.
func NormalizeSegments(segs []any) []any {
	if len(segs) == 0 {
		return nil
	}
	out := make([]any, 0, len(segs))
	for _, s := range segs {
		switch v := s.(type) {
		case string:
			out = append(out, segment(v))
		case int:
			out = append(out, v)
		case int64:
			out = append(out, int(v))
		case float64:
			out = append(out, int(v))
		default:
			if k, ok := probe.Field(s, "Key"); ok {
				out = append(out, NormalizeSegments([]any{k})...)
				continue
			}
			if i, ok := probe.Field(s, "Index"); ok {
				out = append(out, NormalizeSegments([]any{i})...)
				continue
			}
			out = append(out, probe.TypeName(s))
		}
	}
	return out
}

// segment turns a single path token into an int when it is all digits, and
// leaves it a string key otherwise.
func segment(tok string) any {
	if n, err := strconv.Atoi(tok); err == nil && tok != "" && tok[0] != '+' {
		return n
	}
	return tok
}
