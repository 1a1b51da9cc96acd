// Package value defines the tagged-variant Value type used throughout the
// parser to represent a generic YAML-shaped tree: scalars, ordered
// sequences, and ordered mappings.
//
// The parser core never depends on a specific YAML decoder. Callers (a CLI,
// a resolver, a test) build a Value tree however they like -- from
// goccy/go-yaml, from JSON, or by hand -- and hand it to [tosca.Parse].
// This keeps deserialization out of the core, per the parser's non-goals.
//
// # Ordering and provenance
//
// Mappings preserve insertion order; [Mapping.Keys] and [Mapping.Range]
// iterate in that order rather than Go's randomized map order. Every Value
// may carry a [Provenance] (source file and line) for diagnostics; it is
// ignored by [Equal] and carried over by [Value.DeepCopy].
//
// # Merging
//
// [Merge] implements the overlay-wins merge used for property and
// definition inheritance across the type system: mapping keys recurse,
// scalar and sequence values are replaced by the overlay unless the caller
// asks for list-append semantics via [MergeOptions].AppendLists.
package value
