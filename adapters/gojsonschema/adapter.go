// Package gojsonschema adapts compiled schemas from xeipuuv/gojsonschema.
// The compiled schema is fully opaque, so this adapter is validate-only:
// Validate(v) returns a result/error pair, the result answering Valid and
// Errors. Conversion degrades every node to a permissive fragment.
package gojsonschema

import (
	"context"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/convention"
	"github.com/reoring/anyskema/internal/probe"
)

// Vendor is the vendor string reported for xeipuuv schemas.
const Vendor = "xeipuuv/gojsonschema"

// New returns the gojsonschema adapter.
func New() anyskema.Adapter {
	return anyskema.DefineAdapter(anyskema.Adapter{
		Vendor: Vendor,
		Match: func(v any) bool {
			return probe.PkgPathHasSuffix(v, "gojsonschema") &&
				probe.HasMethod(v, "Validate", 1, 2)
		},
		Validate: func(ctx context.Context, schema, data any) anyskema.Result {
			return convention.Guard(func() anyskema.Result {
				if r, ok := convention.ErrorValuePair(ctx, schema, data); ok {
					return r
				}
				return anyskema.FailMessage(anyskema.CodeUnsupported, "gojsonschema: schema has no Validate method")
			})
		},
	})
}
