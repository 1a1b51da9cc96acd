package magicschema_test

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecommons/tosca-parser-go/magicschema"
)

func TestMergeSchemasUnionsProperties(t *testing.T) {
	t.Parallel()

	a := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{"a": {Type: "string"}, "b": {Type: "string"}},
	}
	b := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{"b": {Type: "string"}, "c": {Type: "boolean"}},
	}

	merged := magicschema.MergeSchemas(a, b)
	require.NotNil(t, merged)
	assert.Contains(t, merged.Properties, "a")
	assert.Contains(t, merged.Properties, "b")
	assert.Contains(t, merged.Properties, "c")
}

func TestMergeSchemasNilOperandReturnsOther(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{Type: "string"}

	assert.Same(t, s, magicschema.MergeSchemas(nil, s))
	assert.Same(t, s, magicschema.MergeSchemas(s, nil))
	assert.Nil(t, magicschema.MergeSchemas(nil, nil))
}

func TestMergeSchemasWidensTypes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		typeA, typeB string
		want         string
	}{
		"integer + number -> number": {typeInteger, typeNumber, typeNumber},
		"number + integer -> number": {typeNumber, typeInteger, typeNumber},
		"integer + string -> no constraint": {typeInteger, "string", ""},
		"same type preserved":              {"string", "string", "string"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			merged := magicschema.MergeSchemas(&jsonschema.Schema{Type: tc.typeA}, &jsonschema.Schema{Type: tc.typeB})
			require.NotNil(t, merged)
			assert.Equal(t, tc.want, merged.Type)
		})
	}
}

const (
	typeInteger = "integer"
	typeNumber  = "number"
)

func TestMergeSchemasRequiredIsIntersection(t *testing.T) {
	t.Parallel()

	a := &jsonschema.Schema{Required: []string{"name", "age"}}
	b := &jsonschema.Schema{Required: []string{"name"}}

	merged := magicschema.MergeSchemas(a, b)
	require.NotNil(t, merged)
	assert.Equal(t, []string{"name"}, merged.Required)
}

func TestMergeSchemasAdditionalPropertiesFailsOpen(t *testing.T) {
	t.Parallel()

	strict := &jsonschema.Schema{AdditionalProperties: magicschema.FalseSchema()}
	open := &jsonschema.Schema{AdditionalProperties: magicschema.TrueSchema()}

	merged := magicschema.MergeSchemas(strict, open)
	require.NotNil(t, merged)
	assert.NotEqual(t, magicschema.FalseSchema(), merged.AdditionalProperties)
}

func TestMergeSchemasMergesItemsRecursively(t *testing.T) {
	t.Parallel()

	a := &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "integer"}}
	b := &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "number"}}

	merged := magicschema.MergeSchemas(a, b)
	require.NotNil(t, merged)
	require.NotNil(t, merged.Items)
	assert.Equal(t, "number", merged.Items.Type)
}

func TestTrueAndFalseSchemaMarshalToJSONBooleans(t *testing.T) {
	t.Parallel()

	assert.Nil(t, magicschema.TrueSchema().Not)
	require.NotNil(t, magicschema.FalseSchema().Not)
}
