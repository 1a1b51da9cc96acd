package template

import (
	"github.com/onecommons/tosca-parser-go/schema"
	"github.com/onecommons/tosca-parser-go/value"
)

// PropertyFilter is one property name's constraint list inside a
// node_filter, parsed into a [schema.Schema] carrying only Constraints
// (the filter form never declares a type; the type is whatever the
// candidate's own property schema says).
type PropertyFilter struct {
	Name   string
	Schema *schema.Schema
}

// CapabilityFilter constrains properties of a named capability on the
// candidate node (SPEC_FULL.md supplemented feature, grounded on
// `nodetemplate.py`'s match_nodefilter handling capability-scoped
// entries).
type CapabilityFilter struct {
	Name       string
	Properties []PropertyFilter
}

// NodeFilter is a requirement's `node_filter`: constraints on the
// candidate node's own properties and, optionally, on named
// capabilities' properties (spec.md §4.G step 2; SPEC_FULL.md
// supplement).
type NodeFilter struct {
	Properties   []PropertyFilter
	Capabilities []CapabilityFilter
}

// ParseNodeFilter parses a `node_filter:` mapping. Each entry of its
// `properties:` sequence is a single-key mapping (name -> either a
// constraint-mapping shorthand like `{greater_than: 1}` applied
// directly, or a full `{in_range: [...]}`-shaped constraint list under
// `constraints:`). Each entry of `capabilities:` names a capability and
// nests its own `properties:` in the same shape.
func ParseNodeFilter(v value.Value) (*NodeFilter, error) {
	if v.Kind() != value.KindMapping {
		return nil, nil //nolint:nilnil // absent node_filter is not an error
	}

	nf := &NodeFilter{}

	if props, ok := v.Mapping().Get("properties"); ok {
		pfs, err := parsePropertyFilters(props)
		if err != nil {
			return nil, err
		}

		nf.Properties = pfs
	}

	if caps, ok := v.Mapping().Get("capabilities"); ok && caps.Kind() == value.KindSequence {
		for _, item := range caps.Sequence() {
			if item.Kind() != value.KindMapping || item.Mapping().Len() != 1 {
				continue
			}

			capName := item.Mapping().Keys()[0]
			capVal, _ := item.Mapping().Get(capName)

			cf := CapabilityFilter{Name: capName}

			if props, ok := capVal.Mapping().Get("properties"); ok {
				pfs, err := parsePropertyFilters(props)
				if err != nil {
					return nil, err
				}

				cf.Properties = pfs
			}

			nf.Capabilities = append(nf.Capabilities, cf)
		}
	}

	return nf, nil
}

func parsePropertyFilters(v value.Value) ([]PropertyFilter, error) {
	if v.Kind() != value.KindSequence {
		return nil, nil
	}

	var out []PropertyFilter

	for _, item := range v.Sequence() {
		if item.Kind() != value.KindMapping || item.Mapping().Len() != 1 {
			continue
		}

		name := item.Mapping().Keys()[0]
		constraintArg, _ := item.Mapping().Get(name)

		s, err := constraintListFromFilterEntry(constraintArg)
		if err != nil {
			return nil, err
		}

		out = append(out, PropertyFilter{Name: name, Schema: s})
	}

	return out, nil
}

// constraintListFromFilterEntry interprets a node_filter property
// entry's value: either a full schema-shaped mapping with a
// `constraints:` key, or shorthand -- a single-key mapping naming one
// constraint directly, e.g. `{greater_than: 1}`, or a bare value meaning
// `{equal: value}`.
func constraintListFromFilterEntry(v value.Value) (*schema.Schema, error) {
	if v.Kind() == value.KindMapping {
		if cs, ok := v.Mapping().Get("constraints"); ok {
			wrapped := value.NewMapping(value.MappingOf(value.KV{Key: "constraints", Value: cs}))

			return schema.FromValue(wrapped)
		}

		if v.Mapping().Len() == 1 {
			kind := v.Mapping().Keys()[0]
			arg, _ := v.Mapping().Get(kind)

			c, err := schema.New(kind, "", arg)
			if err != nil {
				return nil, err
			}

			return &schema.Schema{Constraints: []schema.Constraint{c}}, nil
		}
	}

	c, err := schema.New("equal", "", v)
	if err != nil {
		return nil, err
	}

	return &schema.Schema{Constraints: []schema.Constraint{c}}, nil
}

// Match reports whether candidateProps satisfies every property filter
// in nf (capability filters are checked separately by the caller, which
// has access to the candidate's instantiated [Capability] objects).
func (nf *NodeFilter) Match(candidateProps *value.Mapping) bool {
	if nf == nil {
		return true
	}

	for _, pf := range nf.Properties {
		v, ok := candidateProps.Get(pf.Name)
		if !ok {
			return false
		}

		if err := pf.Schema.Validate(v); err != nil {
			return false
		}
	}

	return true
}

// MatchCapabilities reports whether the candidate's instantiated
// capabilities satisfy every capability filter in nf.
func (nf *NodeFilter) MatchCapabilities(caps map[string]*Capability) bool {
	if nf == nil {
		return true
	}

	for _, cf := range nf.Capabilities {
		cap, ok := caps[cf.Name]
		if !ok {
			return false
		}

		for _, pf := range cf.Properties {
			v, ok := cap.Properties.Get(pf.Name)
			if !ok {
				return false
			}

			if err := pf.Schema.Validate(v); err != nil {
				return false
			}
		}
	}

	return true
}
