package yamltree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecommons/tosca-parser-go/value"
	"github.com/onecommons/tosca-parser-go/yamltree"
)

func TestParseScalarsAndCollections(t *testing.T) {
	t.Parallel()

	src := "name: server\ncount: 3\nratio: 1.5\nenabled: true\ntags:\n  - web\n  - prod\n"

	v, err := yamltree.Parse("test.yaml", []byte(src))
	require.NoError(t, err)
	require.Equal(t, value.KindMapping, v.Kind())

	m := v.Mapping()

	name, ok := m.Get("name")
	require.True(t, ok)
	assert.Equal(t, "server", name.String())

	count, ok := m.Get("count")
	require.True(t, ok)
	assert.Equal(t, value.KindInt, count.Kind())

	tags, ok := m.Get("tags")
	require.True(t, ok)
	require.Equal(t, value.KindSequence, tags.Kind())
	assert.Len(t, tags.Sequence(), 2)
}

func TestParseNestedMapping(t *testing.T) {
	t.Parallel()

	src := "node_templates:\n  app:\n    type: my.App\n"

	v, err := yamltree.Parse("test.yaml", []byte(src))
	require.NoError(t, err)

	nodeTemplates, ok := v.Mapping().Get("node_templates")
	require.True(t, ok)

	app, ok := nodeTemplates.Mapping().Get("app")
	require.True(t, ok)

	typ, ok := app.Mapping().Get("type")
	require.True(t, ok)
	assert.Equal(t, "my.App", typ.String())
}

func TestParseEmptyDocumentIsNull(t *testing.T) {
	t.Parallel()

	v, err := yamltree.Parse("empty.yaml", []byte(""))
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestParseTracksProvenance(t *testing.T) {
	t.Parallel()

	v, err := yamltree.Parse("located.yaml", []byte("key: value\n"))
	require.NoError(t, err)

	val, ok := v.Mapping().Get("key")
	require.True(t, ok)

	prov := val.Provenance()
	if prov != nil {
		assert.Equal(t, "located.yaml", prov.Source)
	}
}
