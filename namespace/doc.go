// Package namespace implements namespaces, prefixed imports, and the
// cycle-safe import graph traversal that builds the [types.Registry]
// alongside them (spec.md §4.E).
//
// A [Namespace] is a named scope holding a mapping from local name to
// the [types.Source] that originally defined it; prefixed imports
// compose (if N imports M under prefix p, and M imports K under prefix
// q, N sees K's types under "p.q"). A [Graph] resolves and loads
// transitive imports through a caller-supplied [Resolver], loading each
// canonical location at most once and tolerating cycles by returning the
// already-registered [Namespace] when one is re-encountered.
//
// Neither type performs network or filesystem I/O itself -- that is the
// explicit non-goal spec.md §1 assigns to the [Resolver] the caller
// supplies (package resolver provides a default, filesystem-backed
// implementation; see its doc comment).
package namespace
