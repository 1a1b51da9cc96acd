package topology

import (
	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/namespace"
	"github.com/onecommons/tosca-parser-go/template"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

// Topology is one parsed `topology_template` section, fully instantiated
// and with requirements resolved (spec.md §3 "Topology", §4.H).
type Topology struct {
	Description string
	Inputs      *value.Mapping
	Outputs     *value.Mapping

	NodeOrder             []string
	NodeTemplates         map[string]*template.NodeTemplate
	RelationshipTemplates map[string]*template.RelationshipTemplate
	Groups                map[string]*template.Group
	Policies              map[string]*template.Policy
	Workflows             map[string]*Workflow
	Repositories          map[string]*namespace.Repository

	Substitution *SubstitutionMapping

	// Nested holds substituted-node-name -> nested Topology links.
	// [Build] creates it empty and nothing in this module fills it in:
	// substitute-directive nodes are not linked to nested topologies.
	Nested map[string]*Topology
}

// Build instantiates a Topology from doc, the whole parsed document tree
// (so that a document-level `repositories:` section is visible alongside
// `topology_template`). reg must already have every type the document's
// own and imported namespaces contribute registered (spec.md's data flow:
// import resolution and type registration happen before topology
// instantiation). ns is doc's own namespace, consulted to resolve a
// document-local `type:`/`node:`/`capability:` reference to the global
// name reg indexes types under (spec.md §3, §4.E).
func Build(reg *types.Registry, ns *namespace.Namespace, doc value.Value, collector *errcol.Collector) *Topology {
	topo := &Topology{
		Inputs:                value.NewMappingData(),
		Outputs:               value.NewMappingData(),
		NodeTemplates:         make(map[string]*template.NodeTemplate),
		RelationshipTemplates: make(map[string]*template.RelationshipTemplate),
		Groups:                make(map[string]*template.Group),
		Policies:              make(map[string]*template.Policy),
		Workflows:             make(map[string]*Workflow),
		Repositories:          make(map[string]*namespace.Repository),
		Nested:                make(map[string]*Topology),
	}

	if doc.Kind() != value.KindMapping {
		return topo
	}

	docMap := doc.Mapping()

	if repos, ok := docMap.Get("repositories"); ok && repos.Kind() == value.KindMapping {
		repos.Mapping().Range(func(name string, def value.Value) bool {
			topo.Repositories[name] = parseRepository(name, def)

			return true
		})
	}

	tpl, ok := docMap.Get("topology_template")
	if !ok || tpl.Kind() != value.KindMapping {
		return topo
	}

	m := tpl.Mapping()
	topo.Description = m.GetOr("description", value.NewNull()).String()

	if inputs, ok := m.Get("inputs"); ok && inputs.Kind() == value.KindMapping {
		topo.Inputs = inputs.Mapping().Clone()
	}

	if outputs, ok := m.Get("outputs"); ok && outputs.Kind() == value.KindMapping {
		topo.Outputs = outputs.Mapping().Clone()
	}

	// Relationship templates are instantiated before node templates so
	// that a requirement's `relationship: {template: ...}` reference
	// (spec.md §4.G) can bind to an already-built RelationshipTemplate.
	if relTpls, ok := m.Get("relationship_templates"); ok && relTpls.Kind() == value.KindMapping {
		relTpls.Mapping().Range(func(name string, raw value.Value) bool {
			topo.RelationshipTemplates[name] = instantiateRelationshipTemplate(reg, ns, name, raw, collector)

			return true
		})
	}

	if nodeTpls, ok := m.Get("node_templates"); ok && nodeTpls.Kind() == value.KindMapping {
		for _, name := range nodeTpls.Mapping().Keys() {
			raw, _ := nodeTpls.Mapping().Get(name)
			nt := template.InstantiateNode(reg, ns, name, raw, collector)
			topo.NodeTemplates[name] = nt
			topo.NodeOrder = append(topo.NodeOrder, name)
		}
	}

	order := make([]*template.NodeTemplate, 0, len(topo.NodeOrder))
	for _, name := range topo.NodeOrder {
		order = append(order, topo.NodeTemplates[name])
	}

	template.ResolveRequirements(reg, ns, order, topo.NodeTemplates, topo.RelationshipTemplates, collector)

	if groups, ok := m.Get("groups"); ok && groups.Kind() == value.KindMapping {
		groups.Mapping().Range(func(name string, raw value.Value) bool {
			topo.Groups[name] = parseGroup(name, raw, collector)

			return true
		})
	}

	if policies, ok := m.Get("policies"); ok && policies.Kind() == value.KindMapping {
		policies.Mapping().Range(func(name string, raw value.Value) bool {
			topo.Policies[name] = parsePolicy(name, raw)

			return true
		})
	}

	if workflows, ok := m.Get("workflows"); ok && workflows.Kind() == value.KindMapping {
		workflows.Mapping().Range(func(name string, raw value.Value) bool {
			topo.Workflows[name] = ParseWorkflow(name, raw)

			return true
		})
	}

	validatePolicyAndGroupTargets(topo, collector)

	if sm, ok := m.Get("substitution_mappings"); ok {
		topo.Substitution = ParseSubstitutionMapping(sm)
	}

	return topo
}

func instantiateRelationshipTemplate(reg *types.Registry, ns *namespace.Namespace, name string, raw value.Value, collector *errcol.Collector) *template.RelationshipTemplate {
	rt := &template.RelationshipTemplate{Name: name, Properties: value.NewMappingData(), Interfaces: map[string]*template.Interface{}}

	if raw.Kind() != value.KindMapping {
		return rt
	}

	m := raw.Mapping()
	rt.TypeName = m.GetOr("type", value.NewNull()).String()

	t, ok := reg.FindType(ns.Resolve(rt.TypeName))
	if !ok {
		collector.Appendf(errcol.KindMissingType, errcol.Location{Path: "relationship_templates." + name},
			"unknown relationship type %q", rt.TypeName)

		return rt
	}

	def := types.Definition(reg, t)

	var assignedProps *value.Mapping
	if p, ok := m.Get("properties"); ok && p.Kind() == value.KindMapping {
		assignedProps = p.Mapping()
	}

	loc := errcol.Location{Path: "relationship_templates." + name}
	rt.Properties = template.MaterializeProperties(def.Properties, assignedProps, false, loc, collector)
	rt.Interfaces = template.BuildInterfaces(def.Interfaces, m.GetOr("interfaces", value.NewNull()))

	return rt
}

func parseRepository(name string, v value.Value) *namespace.Repository {
	r := &namespace.Repository{Name: name}

	if v.Kind() == value.KindString {
		r.URL = v.String()

		return r
	}

	if v.Kind() != value.KindMapping {
		return r
	}

	m := v.Mapping()
	r.URL = m.GetOr("url", value.NewNull()).String()
	r.Credential = m.GetOr("credential", value.NewNull())

	return r
}

func parseGroup(name string, v value.Value, collector *errcol.Collector) *template.Group {
	g := &template.Group{Name: name, Properties: value.NewMappingData(), Interfaces: map[string]*template.Interface{}}

	if v.Kind() != value.KindMapping {
		return g
	}

	m := v.Mapping()
	g.TypeName = m.GetOr("type", value.NewNull()).String()

	if members, ok := m.Get("members"); ok && members.Kind() == value.KindSequence {
		g.Members = stringList(members)
	}

	if props, ok := m.Get("properties"); ok && props.Kind() == value.KindMapping {
		g.Properties = props.Mapping().Clone()
	}

	return g
}

func parsePolicy(name string, v value.Value) *template.Policy {
	p := &template.Policy{Name: name, Properties: value.NewMappingData()}

	if v.Kind() != value.KindMapping {
		return p
	}

	m := v.Mapping()
	p.TypeName = m.GetOr("type", value.NewNull()).String()

	if targets, ok := m.Get("targets"); ok && targets.Kind() == value.KindSequence {
		p.Targets = stringList(targets)
	}

	if props, ok := m.Get("properties"); ok && props.Kind() == value.KindMapping {
		p.Properties = props.Mapping().Clone()
	}

	p.Triggers = m.GetOr("triggers", value.NewNull())

	return p
}

// validatePolicyAndGroupTargets checks that every group member names an
// existing node template and every policy target names an existing node
// template or group, the way
// `nodetemplate.py`'s requirement-target validation checks requirement
// targets exist (spec.md §4.F step 5's "name must exist" family of
// checks, generalized here to policies and groups).
func validatePolicyAndGroupTargets(topo *Topology, collector *errcol.Collector) {
	exists := func(name string) bool {
		if _, ok := topo.NodeTemplates[name]; ok {
			return true
		}

		_, ok := topo.Groups[name]

		return ok
	}

	for name, g := range topo.Groups {
		for _, member := range g.Members {
			if _, ok := topo.NodeTemplates[member]; !ok {
				collector.Appendf(errcol.KindInvalidGroupTarget, errcol.Location{Path: "groups." + name},
					"group member %q is not a node template in this topology", member)
			}
		}
	}

	for name, p := range topo.Policies {
		for _, target := range p.Targets {
			if !exists(target) {
				collector.Appendf(errcol.KindInvalidGroupTarget, errcol.Location{Path: "policies." + name},
					"policy target %q is not a node template or group in this topology", target)
			}
		}
	}
}
