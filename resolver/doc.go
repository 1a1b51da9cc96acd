// Package resolver supplies the default, filesystem-backed
// [namespace.Resolver] implementation spec.md §6 describes as a
// pluggable external collaborator: given a path or URL it resolves a
// canonical location, loads and parses the YAML at that location via
// [yamltree], and detects the CSAR (ZIP) archive boundary spec.md §6
// names as a boundary-only concern of the resolver, never the core.
package resolver
