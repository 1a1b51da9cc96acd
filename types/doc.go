// Package types implements the stateful type registry and inheritance
// engine: entity type definitions, `derived_from` chains, ancestor
// iteration, and merged definition retrieval (spec.md §4.D).
//
// The original parser this package is translated from keeps its type
// cache in thread-local "globals" state (`globals._types`,
// `globals._parent_types`) so that one process-wide cache serves every
// parse. spec.md §9 flags this as a redesign point: "per-parse context
// explicitly threaded through the code, not module-level state." This
// package has no package-level mutable state at all -- every type lives
// in a [Registry] value that the caller constructs once per parse (as
// tosca.Parse does) and passes or holds explicitly. Two *Registry
// values are entirely independent; running two parses concurrently on
// two goroutines, each with its own Registry, is safe.
//
// A [Registry] accumulates [EntityType] definitions during the import
// phase and is read-only after lookup-heavy phases begin (spec.md §3
// "Lifecycle"); nothing in this package enforces that read-only
// discipline mechanically, since spec.md §5 scopes the core to
// single-threaded cooperative use within one parse.
package types
