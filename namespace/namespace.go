package namespace

import "github.com/onecommons/tosca-parser-go/types"

// Namespace is a named scope of type definitions (spec.md §3
// "Namespace"): a mapping from local name (possibly prefix-composed) to
// the [types.Source] that originally defined it, plus a record of
// imports the namespace itself declared.
type Namespace struct {
	// ID is this namespace's canonical location, typically the
	// canonical URI of the document it was loaded from.
	ID string

	// Global, if set, is a shared namespace consulted when a name isn't
	// found locally -- spec.md §3's "A Namespace may designate a
	// global namespace."
	Global *Namespace

	entries map[string]types.Source
	imports map[string]string // imported namespace_id -> prefix ("" = no prefix)
}

// New returns an empty Namespace identified by id.
func New(id string) *Namespace {
	return &Namespace{
		ID:      id,
		entries: make(map[string]types.Source),
		imports: make(map[string]string),
	}
}

// AddWithPrefix records that key is visible in n under prefix (composing
// prefix.key if prefix is non-empty), originating from source. Calling
// this for every entry of an imported namespace, with that import's own
// prefix, is how prefix composition is implemented: a key that already
// carries a prefix from the imported namespace's own imports becomes
// doubly prefixed here.
func (n *Namespace) AddWithPrefix(prefix, key string, source types.Source) {
	full := key
	if prefix != "" {
		full = prefix + "." + key
	}

	n.entries[full] = source
}

// GetLocalName resolves name (as seen from within n) to its originating
// [types.Source], falling back to n.Global if name isn't found locally.
func (n *Namespace) GetLocalName(name string) (types.Source, bool) {
	if s, ok := n.entries[name]; ok {
		return s, true
	}

	if n.Global != nil {
		return n.Global.GetLocalName(name)
	}

	return types.Source{}, false
}

// GetGlobalName resolves name to its canonical global name
// (local_name@namespace_id), per spec.md §4.E.
func (n *Namespace) GetGlobalName(name string) (string, bool) {
	s, ok := n.GetLocalName(name)
	if !ok {
		return "", false
	}

	return s.GlobalName(), true
}

// Resolve maps a document-local type-name reference to its global name
// (local_name@namespace_id) via n's entries, falling back to name
// unchanged when n has no entry for it -- a name already fully
// qualified, or a built-in root type no document ever declares, passes
// through untouched. Template and topology instantiation use this to
// turn a bare `type:`/`node:`/`capability:` string from the document
// tree into the key [types.Registry] actually indexes types under,
// mirroring how [Graph.resolveDerivedFrom] resolves `derived_from`.
func (n *Namespace) Resolve(name string) string {
	if g, ok := n.GetGlobalName(name); ok {
		return g
	}

	return name
}

// RecordImport notes that n imports the namespace identified by
// importedID under prefix (empty meaning "no prefix").
func (n *Namespace) RecordImport(importedID, prefix string) {
	n.imports[importedID] = prefix
}

// Imports returns a copy of n's import-to-prefix map.
func (n *Namespace) Imports() map[string]string {
	out := make(map[string]string, len(n.imports))
	for k, v := range n.imports {
		out[k] = v
	}

	return out
}

// Entries returns a copy of n's local-name-to-source map, for diagnostics
// and for the propagation step a [Graph] performs when composing prefixes
// across nested imports.
func (n *Namespace) Entries() map[string]types.Source {
	out := make(map[string]types.Source, len(n.entries))
	for k, v := range n.entries {
		out[k] = v
	}

	return out
}
