package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/namespace"
	"github.com/onecommons/tosca-parser-go/topology"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

func kv(k string, v value.Value) value.KV { return value.KV{Key: k, Value: v} }

func TestBuildWiresNodeTemplatesAndRequirements(t *testing.T) {
	t.Parallel()

	reg := types.NewRegistry()
	require.NoError(t, reg.AddType(&types.EntityType{
		Name:   "tosca.nodes.Root",
		Kind:   types.KindNode,
		Source: types.Source{LocalName: "tosca.nodes.Root", NamespaceID: "builtin"},
		Scope:  "builtin",
	}))
	require.NoError(t, reg.AddType(&types.EntityType{
		Name:         "my.App",
		Kind:         types.KindNode,
		Source:       types.Source{LocalName: "App", NamespaceID: "doc.yaml"},
		Scope:        "doc.yaml",
		DerivedFrom:  []string{"tosca.nodes.Root"},
		Requirements: value.NewSequence(value.NewMapping(value.MappingOf(kv("host", value.NewMapping(value.MappingOf(kv("node", value.NewString("tosca.nodes.Root")))))))),
	}))

	doc := value.NewMapping(value.MappingOf(
		kv("topology_template", value.NewMapping(value.MappingOf(
			kv("node_templates", value.NewMapping(value.MappingOf(
				kv("server", value.NewMapping(value.MappingOf(kv("type", value.NewString("tosca.nodes.Root"))))),
				kv("app", value.NewMapping(value.MappingOf(
					kv("type", value.NewString("my.App")),
					kv("requirements", value.NewSequence(value.NewMapping(value.MappingOf(kv("host", value.NewString("server")))))),
				))),
			))),
		))),
	))

	collector := &errcol.Collector{}
	collector.Start()

	topo := topology.Build(reg, namespace.New("doc.yaml"), doc, collector)

	require.Len(t, topo.NodeTemplates, 2)
	require.Contains(t, topo.NodeOrder, "server")
	require.Contains(t, topo.NodeOrder, "app")

	app := topo.NodeTemplates["app"]
	require.Len(t, app.Requirements, 1)
	assert.Equal(t, "server", app.Requirements[0].Target.Name)
}

func TestBuildParsesRepositoriesAndWorkflows(t *testing.T) {
	t.Parallel()

	reg := types.NewRegistry()

	doc := value.NewMapping(value.MappingOf(
		kv("repositories", value.NewMapping(value.MappingOf(
			kv("artifactory", value.NewString("https://example.test/repo")),
		))),
		kv("topology_template", value.NewMapping(value.MappingOf(
			kv("workflows", value.NewMapping(value.MappingOf(
				kv("deploy", value.NewMapping(value.MappingOf(
					kv("steps", value.NewMapping(value.MappingOf(
						kv("start_app", value.NewMapping(value.MappingOf(
							kv("target", value.NewString("app")),
							kv("activities", value.NewSequence(
								value.NewMapping(value.MappingOf(kv("call_operation", value.NewString("Standard.start")))),
							)),
						))),
					))),
				))),
			))),
		))),
	))

	collector := &errcol.Collector{}
	collector.Start()

	topo := topology.Build(reg, namespace.New("doc.yaml"), doc, collector)

	require.Contains(t, topo.Repositories, "artifactory")
	assert.Equal(t, "https://example.test/repo", topo.Repositories["artifactory"].URL)

	require.Contains(t, topo.Workflows, "deploy")
	step := topo.Workflows["deploy"].Steps["start_app"]
	require.NotNil(t, step)
	assert.Equal(t, "app", step.Target)
	require.Len(t, step.Activities, 1)
	assert.Equal(t, topology.ActivityCallOperation, step.Activities[0].Kind)
	assert.Equal(t, "Standard.start", step.Activities[0].Target.String())
}

func TestBuildFlagsUnresolvedGroupMember(t *testing.T) {
	t.Parallel()

	reg := types.NewRegistry()

	doc := value.NewMapping(value.MappingOf(
		kv("topology_template", value.NewMapping(value.MappingOf(
			kv("groups", value.NewMapping(value.MappingOf(
				kv("web_tier", value.NewMapping(value.MappingOf(
					kv("members", value.NewSequence(value.NewString("nonexistent"))),
				))),
			))),
		))),
	))

	collector := &errcol.Collector{}
	collector.Start()

	topology.Build(reg, namespace.New("doc.yaml"), doc, collector)

	assert.True(t, collector.HasErrors())
}

func TestParseSubstitutionMapping(t *testing.T) {
	t.Parallel()

	v := value.NewMapping(value.MappingOf(
		kv("node_type", value.NewString("my.Service")),
		kv("properties", value.NewMapping(value.MappingOf(kv("port", value.NewString("service_port"))))),
		kv("capabilities", value.NewMapping(value.MappingOf(
			kv("endpoint", value.NewSequence(value.NewString("api"), value.NewString("endpoint"))),
		))),
	))

	sm := topology.ParseSubstitutionMapping(v)
	require.NotNil(t, sm)
	assert.Equal(t, "my.Service", sm.NodeType)
	assert.Equal(t, "service_port", sm.Properties["port"])
	assert.Equal(t, [2]string{"api", "endpoint"}, sm.Capabilities["endpoint"])
}
