package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecommons/tosca-parser-go/schema"
	"github.com/onecommons/tosca-parser-go/value"
)

func mapping(pairs ...value.KV) value.Value {
	return value.NewMapping(value.MappingOf(pairs...))
}

func TestFromValueBareStringShorthand(t *testing.T) {
	t.Parallel()

	s, err := schema.FromValue(value.NewString("integer"))
	require.NoError(t, err)
	assert.Equal(t, "integer", s.Type)
	assert.True(t, s.Required)
}

func TestFromValueGreaterThanConstraintRejectsZero(t *testing.T) {
	t.Parallel()

	def := mapping(
		value.KV{Key: "type", Value: value.NewString("integer")},
		value.KV{Key: "constraints", Value: value.NewSequence(
			mapping(value.KV{Key: "greater_than", Value: value.NewInt(0)}),
		)},
	)

	s, err := schema.FromValue(def)
	require.NoError(t, err)

	err = s.Validate(value.NewInt(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrConstraintFailed)

	assert.NoError(t, s.Validate(value.NewInt(1)))
}

func TestInRangeUnboundedSides(t *testing.T) {
	t.Parallel()

	def := mapping(
		value.KV{Key: "type", Value: value.NewString("integer")},
		value.KV{Key: "constraints", Value: value.NewSequence(
			mapping(value.KV{Key: "in_range", Value: value.NewSequence(
				value.NewInt(1), value.NewString(schema.UnboundedSentinel),
			)}),
		)},
	)

	s, err := schema.FromValue(def)
	require.NoError(t, err)

	assert.NoError(t, s.Validate(value.NewInt(1000000)))
	assert.Error(t, s.Validate(value.NewInt(0)))
}

func TestPatternRequiresFullMatch(t *testing.T) {
	t.Parallel()

	def := mapping(
		value.KV{Key: "type", Value: value.NewString("string")},
		value.KV{Key: "constraints", Value: value.NewSequence(
			mapping(value.KV{Key: "pattern", Value: value.NewString("^[a-z]+$")}),
		)},
	)

	s, err := schema.FromValue(def)
	require.NoError(t, err)

	assert.NoError(t, s.Validate(value.NewString("abc")))
	assert.Error(t, s.Validate(value.NewString("abc1")))
}

func TestScalarUnitConstraintNormalizesUnits(t *testing.T) {
	t.Parallel()

	def := mapping(
		value.KV{Key: "type", Value: value.NewString("scalar-unit.size")},
		value.KV{Key: "constraints", Value: value.NewSequence(
			mapping(value.KV{Key: "greater_than", Value: value.NewString("1 GB")}),
		)},
	)

	s, err := schema.FromValue(def)
	require.NoError(t, err)

	assert.NoError(t, s.Validate(value.NewString("2048 MB")))
	assert.Error(t, s.Validate(value.NewString("512 MB")))
}

func TestFunctionExpressionValidatesVacuously(t *testing.T) {
	t.Parallel()

	def := mapping(
		value.KV{Key: "type", Value: value.NewString("integer")},
		value.KV{Key: "constraints", Value: value.NewSequence(
			mapping(value.KV{Key: "greater_than", Value: value.NewInt(100)}),
		)},
	)

	s, err := schema.FromValue(def)
	require.NoError(t, err)

	fn := mapping(value.KV{Key: "get_input", Value: value.NewString("size")})
	assert.NoError(t, s.Validate(fn))
}

func TestValidValuesOnListRequiresEveryElement(t *testing.T) {
	t.Parallel()

	def := mapping(
		value.KV{Key: "type", Value: value.NewString("list")},
		value.KV{Key: "constraints", Value: value.NewSequence(
			mapping(value.KV{Key: "valid_values", Value: value.NewSequence(
				value.NewString("a"), value.NewString("b"),
			)}),
		)},
	)

	s, err := schema.FromValue(def)
	require.NoError(t, err)

	good := value.NewSequence(value.NewString("a"), value.NewString("b"))
	bad := value.NewSequence(value.NewString("a"), value.NewString("z"))

	assert.NoError(t, s.Validate(good))
	assert.Error(t, s.Validate(bad))
}

func TestUnknownConstraintKind(t *testing.T) {
	t.Parallel()

	def := mapping(
		value.KV{Key: "type", Value: value.NewString("string")},
		value.KV{Key: "constraints", Value: value.NewSequence(
			mapping(value.KV{Key: "bogus", Value: value.NewInt(1)}),
		)},
	)

	_, err := schema.FromValue(def)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnknownConstraint)
}
