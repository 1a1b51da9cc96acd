package template

import (
	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/namespace"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

// NodeTemplate is a node instance in a topology (spec.md §3 "Entity
// Template"): its resolved type, materialized properties/capabilities/
// interfaces/artifacts, directives, and (after [ResolveRequirements])
// its resolved requirements and inbound relationships.
type NodeTemplate struct {
	Name       string
	TypeName   string
	Directives []string

	Properties   *value.Mapping
	Capabilities map[string]*Capability
	Interfaces   map[string]*Interface
	Artifacts    map[string]*Artifact

	Requirements []*Requirement
	Inbound      []*RelationshipTemplate
}

// HasDirective reports whether d appears in nt's directives list (e.g.
// "select", "substitute", "default").
func (nt *NodeTemplate) HasDirective(d string) bool {
	for _, x := range nt.Directives {
		if x == d {
			return true
		}
	}

	return false
}

// RelationshipTemplate links a source node template, a target node
// template, and a capability on the target (spec.md §3 "Relationship
// Template"). Created explicitly in the document or implicitly when a
// requirement resolves (spec.md §4.G step 3).
type RelationshipTemplate struct {
	Name       string
	TypeName   string
	Source     *NodeTemplate
	Target     *NodeTemplate
	Capability string
	Properties *value.Mapping
	Interfaces map[string]*Interface
}

// Group is a named collection of node templates sharing a policy or
// management scope (SPEC_FULL.md supplemented feature, grounded on
// groups.py/entity_template.py's shared EntityTemplate base).
type Group struct {
	Name       string
	TypeName   string
	Members    []string
	Properties *value.Mapping
	Interfaces map[string]*Interface
}

// Policy targets node templates and/or groups by name (SPEC_FULL.md
// supplemented feature).
type Policy struct {
	Name       string
	TypeName   string
	Targets    []string
	Properties *value.Mapping
	Triggers   value.Value
}

// DefaultRelationshipType is the root relationship type a requirement's
// relationship is synthesized against when neither the requirement nor
// its type declares one (spec.md §4.G step 3).
const DefaultRelationshipType = "tosca.relationships.Root"

// additionalPropertiesAllowed inspects a merged type's Metadata field
// for the `additionalProperties: true` override spec.md §3 "Entity
// Template" invariants reference.
func additionalPropertiesAllowed(def *types.EntityType) bool {
	if def.Metadata.Kind() != value.KindMapping {
		return false
	}

	v, ok := def.Metadata.Mapping().Get("additionalProperties")

	return ok && v.Kind() == value.KindBool && v.Bool()
}

// InstantiateNode builds a [NodeTemplate] named name from raw (the
// template's own mapping: `type`, `properties`, `capabilities`,
// `artifacts`, `interfaces`, `requirements`, `directives`), resolving its
// type against reg (spec.md §4.F steps 1-5; requirement normalization
// only -- resolution happens later, across the whole topology, via
// [ResolveRequirements]). ns resolves the template's document-local
// `type:` reference to the global name reg indexes types under.
func InstantiateNode(reg *types.Registry, ns *namespace.Namespace, name string, raw value.Value, collector *errcol.Collector) *NodeTemplate {
	loc := errcol.Location{Path: "node_templates." + name}
	nt := &NodeTemplate{Name: name}

	if raw.Kind() != value.KindMapping {
		collector.Appendf(errcol.KindInvalidTypeDefinition, loc, "node template %q must be a mapping", name)

		return nt
	}

	m := raw.Mapping()
	nt.TypeName = m.GetOr("type", value.NewNull()).String()

	if dir, ok := m.Get("directives"); ok && dir.Kind() == value.KindSequence {
		for _, d := range dir.Sequence() {
			nt.Directives = append(nt.Directives, d.String())
		}
	}

	t, ok := reg.FindType(ns.Resolve(nt.TypeName))
	if !ok {
		if !nt.HasDirective("select") && !nt.HasDirective("substitute") {
			collector.Appendf(errcol.KindMissingType, loc, "unknown node type %q", nt.TypeName)
		}

		nt.Properties = value.NewMappingData()
		nt.Capabilities = map[string]*Capability{}
		nt.Interfaces = map[string]*Interface{}
		nt.Artifacts = map[string]*Artifact{}

		return nt
	}

	def := types.Definition(reg, t)
	additional := additionalPropertiesAllowed(def)

	var assignedProps *value.Mapping
	if p, ok := m.Get("properties"); ok && p.Kind() == value.KindMapping {
		assignedProps = p.Mapping()
	}

	nt.Properties = MaterializeProperties(def.Properties, assignedProps, additional, loc, collector)

	var capOverrides *value.Mapping
	if c, ok := m.Get("capabilities"); ok && c.Kind() == value.KindMapping {
		capOverrides = c.Mapping()
	}

	nt.Capabilities = BuildCapabilities(reg, ns, def.Capabilities, capOverrides, loc, collector)

	artifactOverrides := m.GetOr("artifacts", value.NewNull())
	nt.Artifacts = BuildArtifacts(def.Artifacts, artifactOverrides, loc, collector)

	ifaceOverrides := m.GetOr("interfaces", value.NewNull())
	nt.Interfaces = BuildInterfaces(def.Interfaces, ifaceOverrides)

	nt.Requirements = NormalizeRequirements(def.Requirements, m.GetOr("requirements", value.NewNull()), collector, loc)

	return nt
}
