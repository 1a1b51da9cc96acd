package topology

import "github.com/onecommons/tosca-parser-go/value"

// SubstitutionMapping exposes a topology as a node of NodeType: its
// inputs bind to the exposed node's properties, and its outputs,
// capabilities, and requirements map back from names on the
// substituting node to a `[node_template, local_name]` pair inside
// this topology (spec.md §4.H).
type SubstitutionMapping struct {
	NodeType     string
	Properties   map[string]string
	Capabilities map[string][2]string
	Requirements map[string][2]string
}

// ParseSubstitutionMapping parses a `substitution_mappings:` mapping.
// Returns nil if v is not a substitution mapping (the topology does not
// expose itself as a node).
func ParseSubstitutionMapping(v value.Value) *SubstitutionMapping {
	if v.Kind() != value.KindMapping {
		return nil
	}

	m := v.Mapping()

	sm := &SubstitutionMapping{
		NodeType:     m.GetOr("node_type", value.NewNull()).String(),
		Properties:   map[string]string{},
		Capabilities: map[string][2]string{},
		Requirements: map[string][2]string{},
	}

	if props, ok := m.Get("properties"); ok && props.Kind() == value.KindMapping {
		props.Mapping().Range(func(name string, inputName value.Value) bool {
			sm.Properties[name] = inputName.String()

			return true
		})
	}

	parsePair := func(section string, dest map[string][2]string) {
		v, ok := m.Get(section)
		if !ok || v.Kind() != value.KindMapping {
			return
		}

		v.Mapping().Range(func(name string, pair value.Value) bool {
			if pair.Kind() != value.KindSequence || len(pair.Sequence()) != 2 {
				return true
			}

			dest[name] = [2]string{pair.Sequence()[0].String(), pair.Sequence()[1].String()}

			return true
		})
	}

	parsePair("capabilities", sm.Capabilities)
	parsePair("requirements", sm.Requirements)

	return sm
}
