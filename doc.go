package anyskema

// Package anyskema provides:
//
// - A uniform Validate/Parse surface over schemas from many Go validation libraries
// - JSON Schema derivation from any recognized schema value (ToJSONSchema)
// - A stable error model via Issues (JSON Pointer, code, message)
// - Vendor detection without importing the vendor (Detect, tiered protocols then duck typing)
//
// Design policy:
// - Keep only public APIs in the root package; put reflection plumbing under internal/.
// - Place per-library adapters under adapters/, native-call conventions under
//   convention/, and the CLI under cmd/anyskema.
// - Adapters never import the library they adapt: they recognize it
//   structurally, so depending on anyskema adds no build-time dependency.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  anyskema.Register(gozod.New())
//
//  r := anyskema.Validate(ctx, schema, data)
//  js, err := anyskema.ToJSONSchema(schema)
//  vendor, ok := anyskema.DetectVendor(schema)
//
