package anyskema

import (
	"context"
	"fmt"
)

// ObjectEntry is one key/value pair of an object schema node. Value is the
// child schema node in the source library's own representation.
type ObjectEntry struct {
	Key   string
	Value any
}

// Adapter is the capability contract one validation library implements. It is
// a stateless, immutable record of functions: construct it once through
// DefineAdapter and register it (or pass it to NewValidator/NewTransformer).
//
// Probes are pure classifications of a single schema node. For any well-formed
// node exactly one primary kind probe is expected to be true; libraries that
// model booleans or nullables as unions of literals must exclude those shapes
// from IsUnion/IsLiteral so a node is never classified twice.
type Adapter struct {
	// Vendor names the library. Duplicate vendors across adapters are allowed
	// (dual-major-version libraries); disambiguation is solely by Match.
	Vendor string

	// Match is the structural test that claims a schema value for this
	// adapter. It must be cheap (property lookups only) and must not panic.
	Match func(v any) bool

	// Wrapper probes. A node for which one of these holds has a single child
	// reachable via Unwrap.
	IsOptional  func(v any) bool
	IsNullable  func(v any) bool
	IsDefault   func(v any) bool
	IsTransform func(v any) bool
	IsLazy      func(v any) bool
	IsBranded   func(v any) bool
	IsCatch     func(v any) bool

	// Primary kind probes.
	IsString       func(v any) bool
	IsNumber       func(v any) bool
	IsInteger      func(v any) bool
	IsBoolean      func(v any) bool
	IsNull         func(v any) bool
	IsAny          func(v any) bool
	IsUnknown      func(v any) bool
	IsNever        func(v any) bool
	IsTime         func(v any) bool
	IsDuration     func(v any) bool
	IsBigInt       func(v any) bool
	IsBytes        func(v any) bool
	IsLiteral      func(v any) bool
	IsEnum         func(v any) bool
	IsObject       func(v any) bool
	IsArray        func(v any) bool
	IsTuple        func(v any) bool
	IsUnion        func(v any) bool
	IsIntersection func(v any) bool
	IsRecord       func(v any) bool
	IsMap          func(v any) bool
	IsSet          func(v any) bool
	IsFunc         func(v any) bool
	IsChan         func(v any) bool
	IsTypeOf       func(v any) bool

	// Unwrap returns the single child of a wrapper node and nil for every
	// other node kind. Lazy nodes must force the library's own thunk.
	Unwrap func(v any) any

	// Extractors. Each returns the natural child structure for exactly the
	// node kind it names, and nil/empty elsewhere.
	ObjectEntries       func(v any) []ObjectEntry
	ArrayElement        func(v any) any
	UnionOptions        func(v any) []any
	TupleItems          func(v any) []any
	IntersectionSchemas func(v any) []any
	RecordKey           func(v any) any
	RecordValue         func(v any) any
	MapKey              func(v any) any
	MapValue            func(v any) any
	SetElement          func(v any) any
	LiteralValue        func(v any) (any, bool)
	EnumValues          func(v any) []any
	DefaultValue        func(v any) (any, bool)
	TypeOfName          func(v any) string

	// Constraints walks the library's attached checks and maps the known ones
	// into the shared vocabulary; unrecognized checks are dropped.
	Constraints func(v any) *Constraints
	// Metadata reads title/description/default/examples/deprecated from
	// wherever the library stores them.
	Metadata func(v any) *Metadata

	// Validate delegates to the library's native validation call and must
	// never panic; native panics are recovered into a failure Result.
	// ValidateAsync is the context-aware variant for libraries whose native
	// entry point accepts one; it defaults to Validate.
	Validate      func(ctx context.Context, schema, data any) Result
	ValidateAsync func(ctx context.Context, schema, data any) Result
}

func probeFalse(any) bool       { return false }
func unwrapNone(any) any        { return nil }
func childNone(any) any         { return nil }
func childrenNone(any) []any    { return nil }
func valueNone(any) (any, bool) { return nil, false }

// DefineAdapter overlays a partial adapter implementation onto total
// defaults, so each concrete adapter implements only the methods meaningful
// for its library. The returned record has no nil function fields.
func DefineAdapter(a Adapter) Adapter {
	if a.Vendor == "" {
		a.Vendor = "unknown"
	}
	if a.Match == nil {
		a.Match = probeFalse
	}
	for _, p := range []*func(any) bool{
		&a.IsOptional, &a.IsNullable, &a.IsDefault, &a.IsTransform, &a.IsLazy, &a.IsBranded, &a.IsCatch,
		&a.IsString, &a.IsNumber, &a.IsInteger, &a.IsBoolean, &a.IsNull, &a.IsAny, &a.IsUnknown, &a.IsNever,
		&a.IsTime, &a.IsDuration, &a.IsBigInt, &a.IsBytes, &a.IsLiteral, &a.IsEnum, &a.IsObject, &a.IsArray,
		&a.IsTuple, &a.IsUnion, &a.IsIntersection, &a.IsRecord, &a.IsMap, &a.IsSet, &a.IsFunc, &a.IsChan,
		&a.IsTypeOf,
	} {
		if *p == nil {
			*p = probeFalse
		}
	}
	if a.Unwrap == nil {
		a.Unwrap = unwrapNone
	}
	if a.ObjectEntries == nil {
		a.ObjectEntries = func(any) []ObjectEntry { return nil }
	}
	for _, c := range []*func(any) any{
		&a.ArrayElement, &a.RecordKey, &a.RecordValue, &a.MapKey, &a.MapValue, &a.SetElement,
	} {
		if *c == nil {
			*c = childNone
		}
	}
	for _, c := range []*func(any) []any{&a.UnionOptions, &a.TupleItems, &a.IntersectionSchemas, &a.EnumValues} {
		if *c == nil {
			*c = childrenNone
		}
	}
	if a.LiteralValue == nil {
		a.LiteralValue = valueNone
	}
	if a.DefaultValue == nil {
		a.DefaultValue = valueNone
	}
	if a.TypeOfName == nil {
		a.TypeOfName = func(any) string { return "" }
	}
	if a.Constraints == nil {
		a.Constraints = func(any) *Constraints { return nil }
	}
	if a.Metadata == nil {
		a.Metadata = func(any) *Metadata { return nil }
	}
	if a.Validate == nil {
		vendor := a.Vendor
		a.Validate = func(context.Context, any, any) Result {
			return FailMessage(CodeUnsupported, fmt.Sprintf("%s: native validation is not available for this schema", vendor))
		}
	}
	if a.ValidateAsync == nil {
		a.ValidateAsync = a.Validate
	}
	return a
}
