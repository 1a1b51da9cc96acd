// Package yamltree adapts goccy/go-yaml's AST into [value.Value] trees,
// the generic tagged variant the core consumes (spec.md §1 NON-GOALS:
// "YAML deserialization" lives outside the core; this package is where
// it happens). It also carries a description-comment extraction helper,
// [ExtractDescription], which no package of this module calls.
package yamltree
