package namespace

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

// ErrAbsolutePathInURLTemplate is returned when a relative-import base
// location is a URL but the import spec names an absolute local path
// (spec.md §4.E: "An absolute local path inside a URL-based template is
// an error").
var ErrAbsolutePathInURLTemplate = errors.New("namespace: absolute local path inside URL-based template")

// typeSections maps each of spec.md §6's eight type-section keys to its
// [types.Kind].
var typeSections = map[string]types.Kind{
	"node_types":         types.KindNode,
	"relationship_types": types.KindRelationship,
	"capability_types":   types.KindCapability,
	"artifact_types":     types.KindArtifact,
	"data_types":         types.KindData,
	"interface_types":    types.KindInterface,
	"policy_types":       types.KindPolicy,
	"group_types":        types.KindGroup,
}

// Graph resolves and loads transitive imports through a [Resolver],
// building a [types.Registry] and one [Namespace] per canonical location
// as it goes. Each canonical location is loaded at most once; a cycle
// (an import graph that re-encounters an already-registered canonical
// location) reuses the cached Namespace rather than looping forever
// (spec.md §4.E).
type Graph struct {
	resolver  Resolver
	registry  *types.Registry
	collector *errcol.Collector
	logger    *slog.Logger

	namespaces map[string]*Namespace
	loading    map[string]bool // in-progress set, for cycle detection while a load is still running
}

// NewGraph returns a Graph backed by resolver, indexing types into
// registry and reporting non-fatal failures to collector. Import
// resolution and type registration are logged at [slog.LevelDebug] on
// [slog.Default] (use [Graph.SetLogger] to override).
func NewGraph(resolver Resolver, registry *types.Registry, collector *errcol.Collector) *Graph {
	return &Graph{
		resolver:   resolver,
		registry:   registry,
		collector:  collector,
		logger:     slog.Default(),
		namespaces: make(map[string]*Namespace),
		loading:    make(map[string]bool),
	}
}

// SetLogger overrides the [*slog.Logger] used for import/type-registration
// diagnostics. A nil logger disables logging.
func (g *Graph) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	g.logger = logger
}

// Namespaces returns every namespace loaded so far, keyed by canonical
// location.
func (g *Graph) Namespaces() map[string]*Namespace { return g.namespaces }

// Root loads the top-level document at location (already resolved,
// e.g. a filesystem path or URL handed to the top-level Parse call) as
// the root namespace, registering its own types and processing its
// `imports:` section.
func (g *Graph) Root(location string, tree value.Value) (*Namespace, error) {
	if ns, ok := g.namespaces[location]; ok {
		return ns, nil
	}

	ns := New(location)
	g.namespaces[location] = ns

	if err := g.populate(ns, tree); err != nil {
		return nil, err
	}

	return ns, nil
}

// LoadImports processes importerNS's `imports:` section value (a
// sequence of bare location strings and/or mappings), resolving and
// loading each one in document order (spec.md §5 "Import resolution is
// deterministic") and propagating every resulting namespace's entries
// into importerNS under that import's prefix.
func (g *Graph) LoadImports(importerNS *Namespace, imports value.Value) error {
	if imports.IsNull() {
		return nil
	}

	if imports.Kind() != value.KindSequence {
		return fmt.Errorf("namespace: imports section must be a sequence")
	}

	for _, item := range imports.Sequence() {
		spec, err := parseImportSpec(item)
		if err != nil {
			g.collector.Appendf(errcol.KindImportFailure, errcol.Location{Source: importerNS.ID}, "%v", err)

			continue
		}

		if err := g.loadOne(importerNS, spec); err != nil {
			g.collector.Appendf(errcol.KindImportFailure, errcol.Location{Source: importerNS.ID}, "importing %q: %v", spec.File, err)
			g.logger.Warn("tosca: import failed", "importer", importerNS.ID, "file", spec.File, "error", err)
		}
	}

	return nil
}

func (g *Graph) loadOne(importerNS *Namespace, spec ImportSpec) error {
	loc, err := g.resolver.Resolve(importerNS.ID, spec)
	if err != nil {
		return err
	}

	importerNS.RecordImport(loc.Canonical, spec.NamespacePrefix)

	imported, ok := g.namespaces[loc.Canonical]
	if !ok {
		if g.loading[loc.Canonical] {
			// A location marked loading but not stored in g.namespaces.
			// An import cycle does not reach this branch: the load path
			// below stores the namespace in g.namespaces before populate
			// runs, so an import that cycles back to a namespace still
			// mid-load takes the cached lookup above and sees the entries
			// registered into it so far. This branch registers an empty
			// placeholder.
			g.logger.Debug("tosca: import cycle tolerated", "namespace", loc.Canonical)
			imported = New(loc.Canonical)
			g.namespaces[loc.Canonical] = imported
		} else {
			tree, err := g.resolver.Load(loc)
			if err != nil {
				return err
			}

			g.logger.Debug("tosca: loading import", "importer", importerNS.ID, "namespace", loc.Canonical, "prefix", spec.NamespacePrefix)

			imported = New(loc.Canonical)
			g.namespaces[loc.Canonical] = imported
			g.loading[loc.Canonical] = true

			if err := g.populate(imported, tree); err != nil {
				delete(g.loading, loc.Canonical)

				return err
			}

			delete(g.loading, loc.Canonical)
		}
	}

	for key, source := range imported.Entries() {
		importerNS.AddWithPrefix(spec.NamespacePrefix, key, source)
	}

	return nil
}

// populate registers every type section of tree into g.registry and ns,
// then recurses into tree's own `imports:` section.
func (g *Graph) populate(ns *Namespace, tree value.Value) error {
	if tree.Kind() != value.KindMapping {
		return fmt.Errorf("namespace: document %q is not a mapping", ns.ID)
	}

	m := tree.Mapping()

	for section, kind := range typeSections {
		sv, ok := m.Get(section)
		if !ok {
			continue
		}

		if sv.Kind() != value.KindMapping {
			g.collector.Appendf(errcol.KindInvalidTypeDefinition, errcol.Location{Source: ns.ID, Path: section},
				"%s must be a mapping", section)

			continue
		}

		sv.Mapping().Range(func(localName string, def value.Value) bool {
			g.registerType(ns, kind, localName, def)

			return true
		})
	}

	if imp, ok := m.Get("imports"); ok {
		if err := g.LoadImports(ns, imp); err != nil {
			return err
		}
	}

	return nil
}

func (g *Graph) registerType(ns *Namespace, kind types.Kind, localName string, def value.Value) {
	source := types.Source{LocalName: localName, NamespaceID: ns.ID}

	et := &types.EntityType{
		Name:   source.GlobalName(),
		Kind:   kind,
		Source: source,
		Scope:  ns.ID,
	}

	if def.Kind() == value.KindMapping {
		m := def.Mapping()
		et.DerivedFrom = g.resolveDerivedFrom(ns, m.GetOr("derived_from", value.NewNull()))
		et.Properties = m.GetOr("properties", value.NewNull())
		et.Attributes = m.GetOr("attributes", value.NewNull())
		et.Capabilities = m.GetOr("capabilities", value.NewNull())
		et.Requirements = m.GetOr("requirements", value.NewNull())
		et.Interfaces = m.GetOr("interfaces", value.NewNull())
		et.Artifacts = m.GetOr("artifacts", value.NewNull())
		et.Metadata = m.GetOr("metadata", value.NewNull())
	}

	if err := g.registry.AddType(et); err != nil {
		g.collector.Appendf(errcol.KindInvalidTypeDefinition, errcol.Location{Source: ns.ID, Path: localName}, "%v", err)
		g.logger.Warn("tosca: type registration failed", "type", et.Name, "error", err)
	} else {
		g.logger.Debug("tosca: registered type", "type", et.Name, "kind", kind)
	}

	ns.AddWithPrefix("", localName, source)
}

// resolveDerivedFrom normalizes and resolves a derived_from value (a
// bare string, or a sequence for multiple inheritance) into global type
// names, first-listed primary. A name not found in ns is assumed to
// already be fully qualified (e.g. a built-in root type).
func (g *Graph) resolveDerivedFrom(ns *Namespace, v value.Value) []string {
	var names []string

	switch v.Kind() {
	case value.KindString:
		names = []string{v.String()}
	case value.KindSequence:
		for _, item := range v.Sequence() {
			names = append(names, item.String())
		}
	default:
		return nil
	}

	out := make([]string, len(names))

	for i, n := range names {
		out[i] = ns.Resolve(n)
	}

	return out
}

func parseImportSpec(v value.Value) (ImportSpec, error) {
	if v.Kind() == value.KindString {
		return ImportSpec{File: v.String()}, nil
	}

	if v.Kind() != value.KindMapping {
		return ImportSpec{}, fmt.Errorf("namespace: import entry must be a string or mapping")
	}

	m := v.Mapping()

	spec := ImportSpec{
		File:            m.GetOr("file", value.NewNull()).String(),
		Repository:      m.GetOr("repository", value.NewNull()).String(),
		NamespaceURI:    m.GetOr("namespace_uri", value.NewNull()).String(),
		NamespacePrefix: m.GetOr("namespace_prefix", value.NewNull()).String(),
	}

	if when, ok := m.Get("when"); ok {
		spec.When = when
	}

	if spec.File == "" {
		return ImportSpec{}, fmt.Errorf("namespace: import mapping missing %q", "file")
	}

	return spec, nil
}
