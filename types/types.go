package types

import (
	"errors"
	"fmt"

	"github.com/onecommons/tosca-parser-go/value"
)

// Kind distinguishes the eight TOSCA type sections (spec.md §6 "Supported
// document shapes").
type Kind int

// Type kinds, one per TOSCA type section.
const (
	KindNode Kind = iota
	KindRelationship
	KindCapability
	KindArtifact
	KindData
	KindInterface
	KindPolicy
	KindGroup
)

// String returns a lowercase label for k.
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindRelationship:
		return "relationship"
	case KindCapability:
		return "capability"
	case KindArtifact:
		return "artifact"
	case KindData:
		return "data"
	case KindInterface:
		return "interface"
	case KindPolicy:
		return "policy"
	case KindGroup:
		return "group"
	}

	return "unknown"
}

// Source identifies where an EntityType was *originally* defined --
// surviving re-export through prefixed imports (spec.md §3 Namespace
// invariants).
type Source struct {
	LocalName   string
	NamespaceID string
}

// GlobalName returns "local_name@namespace_id", the canonical identity
// spec.md's GLOSSARY defines.
func (s Source) GlobalName() string {
	return fmt.Sprintf("%s@%s", s.LocalName, s.NamespaceID)
}

// EntityType is a TOSCA type definition: optional parents, and the raw
// (still-merged-lazily) sub-definitions a concrete kind interprets
// (property/attribute/capability/requirement/interface/artifact
// definitions), kept as [value.Value] so the merge algorithms in
// merge.go can operate on them uniformly regardless of kind.
type EntityType struct {
	// Name is this type's global name (local_name@namespace_id).
	Name string
	Kind Kind
	// Source records the original definition point; it survives
	// inheritance and re-export through prefixed imports.
	Source Source
	// Scope is an opaque token identifying which custom-defs document
	// registered this type, used by [Registry.AddType]'s guard check.
	Scope string

	// DerivedFrom holds parent global names; DerivedFrom[0] is primary,
	// the rest secondary (spec.md §3 "Multiple-inheritance").
	DerivedFrom []string

	Properties   value.Value // mapping: name -> property definition
	Attributes   value.Value // mapping: name -> attribute definition
	Capabilities value.Value // mapping: name -> capability declaration
	Requirements value.Value // sequence of single-key mappings
	Interfaces   value.Value // mapping: interface name -> interface definition
	Artifacts    value.Value // mapping: name -> artifact declaration
	Metadata     value.Value // mapping
}

// ErrTypeRedefined is returned by [Registry.AddType] when a type is
// already registered under a different scope than the one attempting to
// (re)register it.
var ErrTypeRedefined = errors.New("types: type redefined under a different scope")

// Registry indexes every [EntityType] known to one parse. The zero
// Registry is ready to use. A Registry is the explicit per-parse context
// spec.md §9 requires in place of the original parser's thread-local
// cache: construct one per parse, never share it across concurrent
// parses unless the caller truly wants them to see each other's types.
type Registry struct {
	byName map[string]*EntityType
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*EntityType)}
}

// FindType looks up a type by global name.
func (r *Registry) FindType(name string) (*EntityType, bool) {
	t, ok := r.byName[name]

	return t, ok
}

// AddType registers def. If a type is already registered under def.Name
// with a different non-empty Scope, AddType refuses to overwrite it and
// returns [ErrTypeRedefined] -- the "guard" spec.md §4.D describes,
// which stops one custom-defs document from silently clobbering a type
// contributed by another.
func (r *Registry) AddType(def *EntityType) error {
	if r.byName == nil {
		r.byName = make(map[string]*EntityType)
	}

	if existing, ok := r.byName[def.Name]; ok {
		if existing.Scope != "" && def.Scope != "" && existing.Scope != def.Scope {
			return fmt.Errorf("%w: %s already registered under scope %q (attempted %q)",
				ErrTypeRedefined, def.Name, existing.Scope, def.Scope)
		}
	}

	r.byName[def.Name] = def

	return nil
}

// Reset discards every registered type, returning the Registry to its
// zero state.
func (r *Registry) Reset() {
	r.byName = make(map[string]*EntityType)
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.byName) }

// Ancestors returns t followed by every ancestor reachable via
// DerivedFrom, depth-first in declaration order, each type visited at
// most once -- tolerating diamond multiple inheritance via a
// visited-set keyed by global name (spec.md §3, §9).
//
// A parent name that does not resolve in the registry is silently
// skipped; callers that need to diagnose a missing parent should resolve
// DerivedFrom themselves during import and record a MissingType
// diagnostic at that point.
func (r *Registry) Ancestors(t *EntityType) []*EntityType {
	if t == nil {
		return nil
	}

	visited := make(map[string]bool)

	var out []*EntityType

	var walk func(*EntityType)

	walk = func(et *EntityType) {
		if et == nil || visited[et.Name] {
			return
		}

		visited[et.Name] = true
		out = append(out, et)

		for _, parentName := range et.DerivedFrom {
			if parent, ok := r.FindType(parentName); ok {
				walk(parent)
			}
		}
	}

	walk(t)

	return out
}

// IsDerivedFrom reports whether name equals t's global name or appears
// among t's ancestors.
func (r *Registry) IsDerivedFrom(t *EntityType, name string) bool {
	if t == nil {
		return false
	}

	if t.Name == name {
		return true
	}

	for _, a := range r.Ancestors(t) {
		if a.Name == name {
			return true
		}
	}

	return false
}

// ParentTypes returns t's immediate parents, resolved against r, in
// declaration order (primary first).
func (r *Registry) ParentTypes(t *EntityType) []*EntityType {
	if t == nil {
		return nil
	}

	out := make([]*EntityType, 0, len(t.DerivedFrom))

	for _, name := range t.DerivedFrom {
		if p, ok := r.FindType(name); ok {
			out = append(out, p)
		}
	}

	return out
}
