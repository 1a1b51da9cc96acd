// Package schema implements the per-property schema and constraint
// sub-language.
//
// A [Schema] mirrors what a TOSCA property/attribute/input definition
// carries: a type name, a required flag (default true), a description, a
// default value, zero or more [Constraint]s, and for map/list types an
// optional KeySchema/EntrySchema describing the shape of keys/elements.
//
// Each [Constraint] implementation validates its own configuration at
// construction time (e.g. in_range requires exactly two bound values)
// and exposes a single [Constraint.Validate] entry point. Scalar-unit
// property types are normalized to their canonical base unit before
// comparison (see package scalarunit); intrinsic function expressions
// (anything shaped like `{ <fn-name>: ... }` for a known TOSCA function)
// are treated as opaque and validate vacuously, since evaluating them is
// explicitly out of scope for the core.
//
// The "schema" constraint kind is the one place this package reaches
// outside the core value model: its argument is a JSON-Schema document,
// represented with google/jsonschema-go's [jsonschema.Schema] and
// resolved/validated with that library rather than a hand-rolled
// validator.
package schema
