package namespace

import "github.com/onecommons/tosca-parser-go/value"

// ImportSpec is one entry of a document's `imports:` section, normalized
// from either a bare location string (File only, everything else zero)
// or the mapping form spec.md §4.E describes.
type ImportSpec struct {
	File            string
	Repository      string
	NamespaceURI    string
	NamespacePrefix string
	When            value.Value
}

// ResolvedLocation is what [Resolver.Resolve] returns: a canonical
// location plus enough information to load it and report it in
// diagnostics.
type ResolvedLocation struct {
	Canonical string
	IsLocal   bool
	Fragment  string
}

// Repository is a named, URL-bearing import/artifact source declared in
// a document's top-level `repositories:` section (spec.md's
// SUPPLEMENTED FEATURES; see SPEC_FULL.md).
type Repository struct {
	Name       string
	URL        string
	Credential value.Value
}

// Resolver is the external collaborator the core consumes to turn an
// import/artifact reference into loaded content, without the core ever
// performing network or filesystem access itself (spec.md §1 NON-GOALS,
// §6 "Resolver interface").
type Resolver interface {
	// Resolve turns spec (relative to baseLocation, the importing
	// document's own canonical location) into a canonical location.
	// File locations are joined against the importing document's base
	// directory when relative; URL locations are accepted verbatim. An
	// absolute local path inside a URL-based template is an error.
	Resolve(baseLocation string, spec ImportSpec) (ResolvedLocation, error)

	// Load returns the raw parsed tree at loc. The core never
	// deserializes YAML itself (spec.md §1); Load is where that
	// happens, outside the core.
	Load(loc ResolvedLocation) (value.Value, error)

	// GetRepository resolves a named entry of a document's
	// `repositories:` section into a [Repository] record.
	GetRepository(name string, def value.Value) (Repository, error)
}

// NodeMatcher is the optional extension to [Resolver] spec.md §6
// describes: a resolver may supply out-of-topology candidate matching
// for a requirement whose node-type constraint no in-topology template
// satisfies.
type NodeMatcher interface {
	// FindMatchingNode returns a candidate node template (as a raw
	// value.Value, keyed by its name in the returned mapping) and
	// capability name satisfying requirementName/requirementDef, or
	// ok=false if the resolver has nothing to offer.
	FindMatchingNode(requirementName string, requirementDef value.Value) (node value.Value, capability string, ok bool)
}
