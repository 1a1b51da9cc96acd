package template

import (
	"fmt"

	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/namespace"
	"github.com/onecommons/tosca-parser-go/schema"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

// State is a requirement's position in the state machine spec.md §4.G
// names: declared -> matched(target, capability) -> bound(relationship),
// or declared -> missing, or declared -> skipped(optional).
type State int

// Requirement states.
const (
	StateDeclared State = iota
	StateMatched
	StateBound
	StateMissing
	StateSkipped
)

// RequirementDef is a requirement normalized per spec.md §4.G step 1.
type RequirementDef struct {
	Name                 string
	Node                 string
	Capability           string
	RelationshipType     string
	RelationshipTemplate string
	NodeFilter           *NodeFilter

	OccursMin          int
	OccursMax          int
	OccursMaxUnbounded bool
}

// Requirement is one requirement attached to a node template, tracked
// through its resolution lifecycle.
type Requirement struct {
	Def        RequirementDef
	State      State
	Target     *NodeTemplate
	Capability string
	Relation   *RelationshipTemplate
}

// NormalizeRequirements implements spec.md §4.G step 1: combine a type's
// ancestor-merged requirement declarations with a template's own
// requirement assignments, keyed by requirement name, the template
// contribution merging onto the type's (template wins on scalars,
// per spec.md §9's resolved open question), and parse each into a
// [RequirementDef].
func NormalizeRequirements(typeReqs, templateReqs value.Value, collector *errcol.Collector, loc errcol.Location) []*Requirement {
	byName := make(map[string]value.Value)

	var order []string

	addSeq := func(seq value.Value) {
		if seq.Kind() != value.KindSequence {
			return
		}

		for _, item := range seq.Sequence() {
			if item.Kind() != value.KindMapping || item.Mapping().Len() != 1 {
				continue
			}

			name := item.Mapping().Keys()[0]
			val, _ := item.Mapping().Get(name)

			if existing, ok := byName[name]; ok {
				byName[name] = value.Merge(existing, val, value.MergeOptions{})
			} else {
				byName[name] = val
				order = append(order, name)
			}
		}
	}

	addSeq(typeReqs)
	addSeq(templateReqs)

	out := make([]*Requirement, 0, len(order))

	for _, name := range order {
		out = append(out, normalizeOne(name, byName[name], collector, loc))
	}

	return out
}

func normalizeOne(name string, val value.Value, collector *errcol.Collector, loc errcol.Location) *Requirement {
	def := RequirementDef{Name: name, OccursMin: 1, OccursMax: 1}

	switch val.Kind() {
	case value.KindString:
		def.Node = val.String()
	case value.KindMapping:
		m := val.Mapping()
		def.Node = m.GetOr("node", value.NewNull()).String()
		def.Capability = m.GetOr("capability", value.NewNull()).String()

		if rel, ok := m.Get("relationship"); ok {
			switch rel.Kind() {
			case value.KindString:
				def.RelationshipType = rel.String()
			case value.KindMapping:
				def.RelationshipType = rel.Mapping().GetOr("type", value.NewNull()).String()
				def.RelationshipTemplate = rel.Mapping().GetOr("template", value.NewNull()).String()
			}
		}

		if nf, ok := m.Get("node_filter"); ok {
			parsed, err := ParseNodeFilter(nf)
			if err != nil {
				collector.Appendf(errcol.KindInvalidSchema, withPath(loc, "requirements."+name), "%v", err)
			} else {
				def.NodeFilter = parsed
			}
		}

		if occ, ok := m.Get("occurrences"); ok {
			min, max, unbounded, err := parseOccurrences(occ)
			if err != nil {
				collector.Appendf(errcol.KindInvalidOccurrences, withPath(loc, "requirements."+name), "%v", err)
			} else {
				def.OccursMin, def.OccursMax, def.OccursMaxUnbounded = min, max, unbounded
			}
		}
	}

	return &Requirement{Def: def, State: StateDeclared}
}

func parseOccurrences(v value.Value) (min, max int, maxUnbounded bool, err error) {
	if v.Kind() != value.KindSequence || len(v.Sequence()) != 2 {
		return 0, 0, false, fmt.Errorf("occurrences requires a 2-element sequence")
	}

	seq := v.Sequence()
	min = int(seq[0].Int())

	if seq[1].Kind() == value.KindString && seq[1].String() == schema.UnboundedSentinel {
		return min, 0, true, nil
	}

	max = int(seq[1].Int())

	return min, max, false, nil
}

// ResolveRequirements implements spec.md §4.G steps 2-4 across an entire
// node-template collection: for each requirement, find its target,
// create or bind a [RelationshipTemplate], and record it on the target's
// inbound list. order fixes iteration order (document declaration order,
// per spec.md §5's determinism guarantee); byName indexes the same
// templates for by-name lookup. relTemplates holds explicitly-declared
// relationship templates a requirement may bind to by name. ns resolves
// a requirement's document-local type reference to the global name reg
// indexes types under.
func ResolveRequirements(
	reg *types.Registry,
	ns *namespace.Namespace,
	order []*NodeTemplate,
	byName map[string]*NodeTemplate,
	relTemplates map[string]*RelationshipTemplate,
	collector *errcol.Collector,
) {
	for _, nt := range order {
		for _, req := range nt.Requirements {
			resolveOne(reg, ns, nt, req, order, byName, relTemplates, collector)
		}
	}
}

func resolveOne(
	reg *types.Registry,
	ns *namespace.Namespace,
	nt *NodeTemplate,
	req *Requirement,
	order []*NodeTemplate,
	byName map[string]*NodeTemplate,
	relTemplates map[string]*RelationshipTemplate,
	collector *errcol.Collector,
) {
	loc := errcol.Location{Path: fmt.Sprintf("node_templates.%s.requirements.%s", nt.Name, req.Def.Name)}

	if req.Def.Node != "" {
		if target, ok := byName[req.Def.Node]; ok {
			bind(reg, ns, nt, req, target, relTemplates)

			return
		}
	}

	var candidates []*NodeTemplate

	for _, cand := range order {
		if cand == nt {
			continue
		}

		if req.Def.Node != "" {
			candType, ok := reg.FindType(ns.Resolve(cand.TypeName))
			if !ok || !reg.IsDerivedFrom(candType, ns.Resolve(req.Def.Node)) {
				continue
			}
		}

		if req.Def.Capability != "" && !candidateHasCapability(reg, ns, cand, req.Def.Capability) {
			continue
		}

		if req.Def.NodeFilter != nil {
			if !req.Def.NodeFilter.Match(cand.Properties) || !req.Def.NodeFilter.MatchCapabilities(cand.Capabilities) {
				continue
			}
		}

		candidates = append(candidates, cand)
	}

	if len(candidates) == 0 {
		if req.Def.OccursMin == 0 {
			req.State = StateSkipped
		} else {
			req.State = StateMissing
			collector.Appendf(errcol.KindMissingRequiredField, loc, "requirement %q on %q has no matching target", req.Def.Name, nt.Name)
		}

		return
	}

	// Demote candidates bearing the "default" directive (spec.md §4.G
	// "Ambiguity").
	var nonDefault []*NodeTemplate

	for _, c := range candidates {
		if !c.HasDirective("default") {
			nonDefault = append(nonDefault, c)
		}
	}

	pool := nonDefault
	if len(pool) == 0 {
		pool = candidates
	}

	var target *NodeTemplate

	switch {
	case len(pool) == 1:
		target = pool[0]
	case req.Def.NodeFilter != nil:
		collector.Appendf(errcol.KindInvalidOccurrences, loc,
			"requirement %q on %q matches %d candidates ambiguously with a node_filter in effect", req.Def.Name, nt.Name, len(pool))
		req.State = StateMissing

		return
	default:
		// No node_filter: first encountered wins (spec.md §4.G).
		target = pool[0]
	}

	bind(reg, ns, nt, req, target, relTemplates)
}

func candidateHasCapability(reg *types.Registry, ns *namespace.Namespace, cand *NodeTemplate, capNameOrType string) bool {
	if _, ok := cand.Capabilities[capNameOrType]; ok {
		return true
	}

	for _, cap := range cand.Capabilities {
		if capType, ok := reg.FindType(ns.Resolve(cap.Type)); ok && reg.IsDerivedFrom(capType, ns.Resolve(capNameOrType)) {
			return true
		}
	}

	return false
}

func resolveCapabilityName(reg *types.Registry, ns *namespace.Namespace, target *NodeTemplate, capNameOrType string) string {
	if _, ok := target.Capabilities[capNameOrType]; ok {
		return capNameOrType
	}

	for name, cap := range target.Capabilities {
		if capType, ok := reg.FindType(ns.Resolve(cap.Type)); ok && reg.IsDerivedFrom(capType, ns.Resolve(capNameOrType)) {
			return name
		}
	}

	return capNameOrType
}

func bind(reg *types.Registry, ns *namespace.Namespace, nt *NodeTemplate, req *Requirement, target *NodeTemplate, relTemplates map[string]*RelationshipTemplate) {
	capName := req.Def.Capability
	if capName != "" {
		capName = resolveCapabilityName(reg, ns, target, capName)
	}

	req.State = StateMatched
	req.Target = target
	req.Capability = capName

	var rel *RelationshipTemplate

	if req.Def.RelationshipTemplate != "" {
		if existing, ok := relTemplates[req.Def.RelationshipTemplate]; ok {
			existing.Source = nt
			existing.Target = target
			existing.Capability = capName
			rel = existing
		}
	}

	if rel == nil {
		relType := req.Def.RelationshipType
		if relType == "" {
			relType = DefaultRelationshipType
		}

		rel = &RelationshipTemplate{
			Name:       nt.Name + "_" + req.Def.Name,
			TypeName:   relType,
			Source:     nt,
			Target:     target,
			Capability: capName,
			Properties: value.NewMappingData(),
		}
	}

	req.State = StateBound
	req.Relation = rel
	target.Inbound = append(target.Inbound, rel)
}
