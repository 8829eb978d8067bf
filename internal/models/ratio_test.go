package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST SUITE: RATIO SEMANTICS
// ============================================================================

func TestDivide_Defined(t *testing.T) {
	r := Divide(1000, 2000)

	require.True(t, r.Defined)
	assert.Equal(t, 0.5, r.Value)
}

func TestDivide_ZeroDenominator(t *testing.T) {
	r := Divide(1000, 0)

	assert.False(t, r.Defined, "division by zero is undefined, never infinity or NaN")
	assert.Equal(t, "N/A", r.String())
}

func TestDivide_ZeroNumeratorIsDefined(t *testing.T) {
	r := Divide(0, 500)

	require.True(t, r.Defined, "a true zero ratio is a real value, not a gap")
	assert.Equal(t, 0.0, r.Value)
}

func TestRatio_Ptr(t *testing.T) {
	assert.Nil(t, UndefinedRatio().Ptr())

	p := DefinedRatio(1.5).Ptr()
	require.NotNil(t, p)
	assert.Equal(t, 1.5, *p)
}

func TestRatio_JSONRoundTrip(t *testing.T) {
	payload, err := json.Marshal(DefinedRatio(0.75))
	require.NoError(t, err)
	assert.Equal(t, "0.75", string(payload))

	payload, err = json.Marshal(UndefinedRatio())
	require.NoError(t, err)
	assert.Equal(t, "null", string(payload), "undefined serializes as null so consumers cannot mistake it for zero")

	var r Ratio
	require.NoError(t, json.Unmarshal([]byte("null"), &r))
	assert.False(t, r.Defined)

	require.NoError(t, json.Unmarshal([]byte("2.5"), &r))
	require.True(t, r.Defined)
	assert.Equal(t, 2.5, r.Value)
}
