package anyskema

import "context"

// DetectionType names the protocol tier that identified a schema.
type DetectionType string

const (
	// TypeAnySchema is the first-party protocol tier: the schema opts in to
	// this library's own marker interface.
	TypeAnySchema DetectionType = "anyschema"
	// TypeStandardSchema is the community protocol tier.
	TypeStandardSchema DetectionType = "standard-schema"
	// TypeDuck means the schema was identified structurally via the registry.
	TypeDuck DetectionType = "duck"
)

// Detection reports which tier and vendor matched a schema value.
type Detection struct {
	Type   DetectionType
	Vendor string
}

// SchemaInfo is the payload of the first-party protocol marker.
type SchemaInfo struct {
	Version  int
	Vendor   string
	Validate func(ctx context.Context, data any) Result
}

// Protocol is this library's own opt-in marker: a schema type that wants to
// be recognized without duck typing implements AnySchema.
type Protocol interface {
	AnySchema() SchemaInfo
}

// StandardSchemaProps is the payload of the community protocol marker.
type StandardSchemaProps struct {
	Version  int
	Vendor   string
	Validate func(ctx context.Context, data any) Result
}

// StandardProtocol is the community-standard marker interface.
type StandardProtocol interface {
	StandardSchema() StandardSchemaProps
}

// Detect identifies the library or protocol behind a schema value without
// validating anything. Tiers are ranked: explicit protocol markers are
// contracts a library author controls and are trusted over structural
// guessing, so the first-party tier wins over the community tier, which wins
// over registry duck typing. nil values, primitives, empty maps, bare slices
// and plain functions all report no detection.
func Detect(v any) (Detection, bool) {
	if v == nil {
		return Detection{}, false
	}
	if p, ok := v.(Protocol); ok {
		if info := p.AnySchema(); info.Vendor != "" && info.Validate != nil {
			return Detection{Type: TypeAnySchema, Vendor: info.Vendor}, true
		}
	}
	if p, ok := v.(StandardProtocol); ok {
		if props := p.StandardSchema(); props.Vendor != "" && props.Validate != nil {
			return Detection{Type: TypeStandardSchema, Vendor: props.Vendor}, true
		}
	}
	if a, ok := Find(v); ok {
		return Detection{Type: TypeDuck, Vendor: a.Vendor}, true
	}
	return Detection{}, false
}

// DetectVendor is a convenience over Detect that reports only the vendor.
func DetectVendor(v any) (string, bool) {
	d, ok := Detect(v)
	return d.Vendor, ok
}
