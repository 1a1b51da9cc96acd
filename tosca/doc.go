// Package tosca exposes the top-level entry point spec.md §6 names:
// [Parse], taking a filesystem path, a URL, or an already-parsed tree,
// and producing a [Model] — the fully resolved in-memory result of
// running the import/namespace resolver, the type registry, template
// instantiation, and requirement resolution over one document.
package tosca
