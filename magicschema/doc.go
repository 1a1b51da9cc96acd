// Package magicschema merges pairs of JSON Schema (Draft 7) documents
// using union semantics: properties from both sides are kept, conflicting
// scalar types widen to their common supertype (e.g. integer + number ->
// number), and additionalProperties fails open (true wins over false).
//
// [MergeSchemas] is consumed by
// [github.com/onecommons/tosca-parser-go/schemagen], which folds a
// derived_from chain's per-ancestor schemas together one pair at a time --
// the same "combine N partial schemas, most-specific wins" problem this
// package was originally built to solve for several example YAML documents
// instead of several ancestor types.
package magicschema
