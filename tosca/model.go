package tosca

import (
	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/namespace"
	"github.com/onecommons/tosca-parser-go/template"
	"github.com/onecommons/tosca-parser-go/topology"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

// Model is the fully resolved result of [Parse] (spec.md §6's
// `ToscaModel`): a parsed document's version and description, its
// topology's inputs/outputs/templates/groups/policies/workflows/
// repositories, the topology's Nested map (left empty: nested topologies
// are not linked), and the type registry that produced it all.
type Model struct {
	Version     string
	Description string

	Inputs                *value.Mapping
	Outputs               *value.Mapping
	NodeTemplates         map[string]*template.NodeTemplate
	RelationshipTemplates map[string]*template.RelationshipTemplate
	Groups                map[string]*template.Group
	Policies              map[string]*template.Policy
	Workflows             map[string]*topology.Workflow
	Repositories          map[string]*namespace.Repository
	NestedTopologies      map[string]*topology.Topology

	Registry *types.Registry
}

func newModel(topo *topology.Topology, version string, reg *types.Registry) *Model {
	return &Model{
		Version:               version,
		Description:           topo.Description,
		Inputs:                topo.Inputs,
		Outputs:               topo.Outputs,
		NodeTemplates:         topo.NodeTemplates,
		RelationshipTemplates: topo.RelationshipTemplates,
		Groups:                topo.Groups,
		Policies:              topo.Policies,
		Workflows:             topo.Workflows,
		Repositories:          topo.Repositories,
		NestedTopologies:      topo.Nested,
		Registry:              reg,
	}
}

// Diagnostics is re-exported for callers that want the errcol vocabulary
// without importing errcol themselves.
type Diagnostics = errcol.AggregateError
