package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTargetPercent verifies the derived percent view against the initial
// pivot, including the undefined cases.
func TestTargetPercent(t *testing.T) {
	target := Target{Mode: TargetLinear, Value: fptr(5)}
	pct := target.Percent(fptr(10))
	require.NotNil(t, pct)
	assert.Equal(t, -50.0, *pct)

	// A negative pivot still reports direction relative to its magnitude.
	pct = Target{Value: fptr(-5)}.Percent(fptr(-10))
	require.NotNil(t, pct)
	assert.Equal(t, 50.0, *pct)

	assert.Nil(t, Target{}.Percent(fptr(10)))
	assert.Nil(t, Target{Value: fptr(5)}.Percent(nil))
	assert.Nil(t, Target{Value: fptr(5)}.Percent(fptr(0)))
}

// TestTargetFromPercent verifies the absolute value is resolved immediately,
// or the direction survives as a hint when the pivot is unknown.
func TestTargetFromPercent(t *testing.T) {
	target := TargetFromPercent(fptr(10), -50, TargetLinear)
	require.NotNil(t, target.Value)
	assert.Equal(t, 5.0, *target.Value)
	assert.Equal(t, TargetLinear, target.Mode)

	hinted := TargetFromPercent(nil, 20, TargetConstant)
	assert.Nil(t, hinted.Value)
	require.NotNil(t, hinted.Up)
	assert.True(t, *hinted.Up)
}

// TestHeaderIDParts verifies series and label extraction from the
// three-part document id.
func TestHeaderIDParts(t *testing.T) {
	h := Header{ID: "A3-012-AB"}
	assert.Equal(t, "012", h.Series())
	assert.Equal(t, "AB", h.VersionLabel())
	assert.Equal(t, "A3-012-AC", h.IDWithLabel("AC"))

	malformed := Header{ID: "bogus"}
	assert.Equal(t, "", malformed.Series())
	assert.Equal(t, "bogus", malformed.IDWithLabel("B"))
}
