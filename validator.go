package anyskema

import (
	"context"
	"fmt"

	"github.com/reoring/anyskema/internal/probe"
)

// Validator bundles validation entry points over a fixed, ordered adapter
// set. Building one from an explicit subset of adapters keeps unused adapter
// packages out of a built artifact entirely.
type Validator struct {
	adapters []Adapter
}

// NewValidator builds a Validator restricted to exactly the given adapters,
// earlier entries winning ties. Partial records are completed through
// DefineAdapter.
func NewValidator(adapters ...Adapter) *Validator {
	v := &Validator{adapters: make([]Adapter, 0, len(adapters))}
	for _, a := range adapters {
		v.adapters = append(v.adapters, DefineAdapter(a))
	}
	return v
}

func (v *Validator) find(schema any) (Adapter, bool) {
	if schema == nil {
		return Adapter{}, false
	}
	for _, a := range v.adapters {
		if a.Match(schema) {
			return a, true
		}
	}
	return Adapter{}, false
}

// Validate runs the native validation of whichever adapter claims schema.
// The validation path never returns a hard error: an unmatched schema yields
// a failure Result naming the value's runtime type.
func (v *Validator) Validate(ctx context.Context, schema, data any) Result {
	a, ok := v.find(schema)
	if !ok {
		return FailMessage(CodeUnknownVendor, fmt.Sprintf("no adapter matched schema of type %s", probe.TypeName(schema)))
	}
	return a.Validate(ctx, schema, data)
}

// ValidateAsync prefers the adapter's context-aware native entry point and
// falls back to the synchronous one. It blocks until the native call
// completes; cancellation is whatever the native library honors via ctx.
func (v *Validator) ValidateAsync(ctx context.Context, schema, data any) Result {
	a, ok := v.find(schema)
	if !ok {
		return FailMessage(CodeUnknownVendor, fmt.Sprintf("no adapter matched schema of type %s", probe.TypeName(schema)))
	}
	return a.ValidateAsync(ctx, schema, data)
}

// Is reports whether data conforms to schema.
func (v *Validator) Is(ctx context.Context, schema, data any) bool {
	return v.Validate(ctx, schema, data).Success
}

// Assert returns nil on success and the Issues error otherwise.
func (v *Validator) Assert(ctx context.Context, schema, data any) error {
	return v.Validate(ctx, schema, data).Err()
}

// Parse returns the validated (possibly coerced) data, or the Issues error.
func (v *Validator) Parse(ctx context.Context, schema, data any) (any, error) {
	r := v.Validate(ctx, schema, data)
	if !r.Success {
		return nil, r.Err()
	}
	return r.Data, nil
}

// ParseAsync is Parse over ValidateAsync.
func (v *Validator) ParseAsync(ctx context.Context, schema, data any) (any, error) {
	r := v.ValidateAsync(ctx, schema, data)
	if !r.Success {
		return nil, r.Err()
	}
	return r.Data, nil
}

// ---- Global-registry convenience entry points ----

// Validate validates data against schema using the global registry.
func Validate(ctx context.Context, schema, data any) Result {
	return NewValidator(Adapters()...).Validate(ctx, schema, data)
}

// ValidateAsync is the context-aware variant of Validate.
func ValidateAsync(ctx context.Context, schema, data any) Result {
	return NewValidator(Adapters()...).ValidateAsync(ctx, schema, data)
}

// Is reports whether data conforms to schema using the global registry.
func Is(ctx context.Context, schema, data any) bool {
	return Validate(ctx, schema, data).Success
}

// Assert returns nil when data conforms to schema, the Issues error otherwise.
func Assert(ctx context.Context, schema, data any) error {
	return Validate(ctx, schema, data).Err()
}

// Parse validates data against schema and returns the normalized value.
func Parse(ctx context.Context, schema, data any) (any, error) {
	r := Validate(ctx, schema, data)
	if !r.Success {
		return nil, r.Err()
	}
	return r.Data, nil
}
