package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

func propsOf(pairs ...value.KV) value.Value {
	return value.NewMapping(value.MappingOf(pairs...))
}

func TestAncestorsSelfFirstDepthFirst(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	root := &types.EntityType{Name: "tosca.nodes.Root"}
	mid := &types.EntityType{Name: "A", DerivedFrom: []string{"tosca.nodes.Root"}}
	leaf := &types.EntityType{Name: "B", DerivedFrom: []string{"A"}}

	require.NoError(t, r.AddType(root))
	require.NoError(t, r.AddType(mid))
	require.NoError(t, r.AddType(leaf))

	names := func(ancestors []*types.EntityType) []string {
		out := make([]string, len(ancestors))
		for i, a := range ancestors {
			out[i] = a.Name
		}

		return out
	}

	assert.Equal(t, []string{"B", "A", "tosca.nodes.Root"}, names(r.Ancestors(leaf)))
	assert.True(t, r.IsDerivedFrom(leaf, "tosca.nodes.Root"))
	assert.False(t, r.IsDerivedFrom(mid, "B"))
}

func TestAncestorsToleratesDiamondInheritance(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	root := &types.EntityType{Name: "Root"}
	left := &types.EntityType{Name: "Left", DerivedFrom: []string{"Root"}}
	right := &types.EntityType{Name: "Right", DerivedFrom: []string{"Root"}}
	diamond := &types.EntityType{Name: "Diamond", DerivedFrom: []string{"Left", "Right"}}

	require.NoError(t, r.AddType(root))
	require.NoError(t, r.AddType(left))
	require.NoError(t, r.AddType(right))
	require.NoError(t, r.AddType(diamond))

	ancestors := r.Ancestors(diamond)

	assert.Len(t, ancestors, 4) // Diamond, Left, Root, Right -- Root visited once only
}

func TestAddTypeGuardRefusesCrossScopeRedefinition(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	require.NoError(t, r.AddType(&types.EntityType{Name: "X", Scope: "a.yaml"}))

	err := r.AddType(&types.EntityType{Name: "X", Scope: "b.yaml"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTypeRedefined)
}

func TestAddTypeSameScopeOverwrites(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	require.NoError(t, r.AddType(&types.EntityType{Name: "X", Scope: "a.yaml"}))
	require.NoError(t, r.AddType(&types.EntityType{Name: "X", Scope: "a.yaml", Kind: types.KindNode}))

	got, ok := r.FindType("X")
	require.True(t, ok)
	assert.Equal(t, types.KindNode, got.Kind)
}

func TestMergedFieldRecursiveDerivedWins(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	parent := &types.EntityType{
		Name: "Parent",
		Properties: propsOf(
			value.KV{Key: "a", Value: value.NewString("parent-a")},
			value.KV{Key: "b", Value: value.NewString("parent-b")},
		),
	}
	child := &types.EntityType{
		Name:        "Child",
		DerivedFrom: []string{"Parent"},
		Properties: propsOf(
			value.KV{Key: "b", Value: value.NewString("child-b")},
			value.KV{Key: "c", Value: value.NewString("child-c")},
		),
	}

	require.NoError(t, r.AddType(parent))
	require.NoError(t, r.AddType(child))

	merged := types.MergedField(r, child, func(e *types.EntityType) value.Value { return e.Properties }, types.ModeMergeRecursive)

	a, _ := merged.Mapping().Get("a")
	b, _ := merged.Mapping().Get("b")
	c, _ := merged.Mapping().Get("c")
	assert.Equal(t, "parent-a", a.String())
	assert.Equal(t, "child-b", b.String())
	assert.Equal(t, "child-c", c.String())
}

func TestMergedFieldAppendListDedupes(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	parent := &types.EntityType{
		Name:         "Parent",
		Requirements: value.NewSequence(value.NewString("host"), value.NewString("dependency")),
	}
	child := &types.EntityType{
		Name:         "Child",
		DerivedFrom:  []string{"Parent"},
		Requirements: value.NewSequence(value.NewString("host")),
	}

	require.NoError(t, r.AddType(parent))
	require.NoError(t, r.AddType(child))

	merged := types.MergedField(r, child, func(e *types.EntityType) value.Value { return e.Requirements }, types.ModeAppendList)

	got := make([]string, 0)
	for _, v := range merged.Sequence() {
		got = append(got, v.String())
	}

	assert.Equal(t, []string{"host", "dependency"}, got)
}

func TestDefinitionMergesEveryField(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	parent := &types.EntityType{
		Name:       "Parent",
		Properties: propsOf(value.KV{Key: "a", Value: value.NewInt(1)}),
	}
	child := &types.EntityType{
		Name:        "Child",
		DerivedFrom: []string{"Parent"},
	}

	require.NoError(t, r.AddType(parent))
	require.NoError(t, r.AddType(child))

	def := types.Definition(r, child)
	a, ok := def.Properties.Mapping().Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), a.Int())
}
