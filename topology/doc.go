// Package topology assembles a parsed document's `topology_template`
// section into a [Topology]: instantiated node/relationship templates
// (spec.md §4.F), resolved requirements (spec.md §4.G), groups,
// policies, workflows, repositories, and an optional substitution
// mapping (spec.md §4.H). It is the layer above template that knows
// about a whole document rather than one entity at a time.
package topology
