package scalarunit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecommons/tosca-parser-go/scalarunit"
)

func TestParseSize(t *testing.T) {
	t.Parallel()

	v, err := scalarunit.Parse("10 MB")
	require.NoError(t, err)
	assert.Equal(t, scalarunit.FamilySize, v.Family())
	assert.Equal(t, float64(10*1024*1024), v.Base())
}

func TestParseAcceptsNoWhitespace(t *testing.T) {
	t.Parallel()

	v, err := scalarunit.Parse("500ms")
	require.NoError(t, err)
	assert.Equal(t, scalarunit.FamilyTime, v.Family())
	assert.InDelta(t, 0.5, v.Base(), 1e-9)
}

func TestParseKiBSynonymOfKB(t *testing.T) {
	t.Parallel()

	kb, err := scalarunit.Parse("2 KB")
	require.NoError(t, err)
	kib, err := scalarunit.Parse("2 KiB")
	require.NoError(t, err)

	assert.Equal(t, kb.Base(), kib.Base())
}

func TestParseUnknownUnit(t *testing.T) {
	t.Parallel()

	_, err := scalarunit.Parse("10 furlongs")
	require.ErrorIs(t, err, scalarunit.ErrUnknownUnit)
}

func TestParseInvalidLiteral(t *testing.T) {
	t.Parallel()

	_, err := scalarunit.Parse("MB")
	require.ErrorIs(t, err, scalarunit.ErrInvalidLiteral)
}

func TestCompareAcrossUnitsInSameFamily(t *testing.T) {
	t.Parallel()

	a, err := scalarunit.Parse("1 GB")
	require.NoError(t, err)
	b, err := scalarunit.Parse("1024 MB")
	require.NoError(t, err)

	cmp, err := scalarunit.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestCompareFamilyMismatch(t *testing.T) {
	t.Parallel()

	a, err := scalarunit.Parse("1 GB")
	require.NoError(t, err)
	b, err := scalarunit.Parse("1 GHz")
	require.NoError(t, err)

	_, err = scalarunit.Compare(a, b)
	require.ErrorIs(t, err, scalarunit.ErrFamilyMismatch)
}

func TestConvertTo(t *testing.T) {
	t.Parallel()

	v, err := scalarunit.Parse("1 GB")
	require.NoError(t, err)

	mb, err := v.ConvertTo("MB")
	require.NoError(t, err)
	assert.InDelta(t, 1024, mb, 1e-9)

	_, err = v.ConvertTo("GHz")
	require.ErrorIs(t, err, scalarunit.ErrFamilyMismatch)
}
