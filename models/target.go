package models

import "math"

type TargetMode string

const (
	TargetConstant TargetMode = "constant"
	TargetLinear   TargetMode = "linear"
	TargetNone     TargetMode = "none"
)

// Target defines the success condition for a metric. The absolute end value
// is the single canonical representation; the percent-of-initial view is
// derived on demand rather than stored alongside it. Up is a direction hint
// used only before initial and value are both known.
type Target struct {
	Mode  TargetMode `json:"mode" bson:"mode"`
	Value *float64   `json:"value" bson:"value"`
	Up    *bool      `json:"up,omitempty" bson:"up,omitempty"`
}

// Percent derives the signed percentage change from initial implied by the
// target value, rounded to two decimals. Nil when either side is missing or
// initial is zero.
func (t Target) Percent(initial *float64) *float64 {
	if t.Value == nil || initial == nil || *initial == 0 {
		return nil
	}
	pct := (*t.Value - *initial) / math.Abs(*initial) * 100
	pct = math.Round(pct*100) / 100
	return &pct
}

// TargetFromPercent builds a target whose absolute value is resolved
// immediately from a signed percent against the initial pivot. When the
// pivot is unknown the direction survives as the Up hint and the value
// stays unset.
func TargetFromPercent(initial *float64, signedPercent float64, mode TargetMode) Target {
	up := signedPercent > 0
	if initial == nil {
		return Target{Mode: mode, Up: &up}
	}
	v := *initial * (1 + signedPercent/100)
	v = math.Round(v*100) / 100
	return Target{Mode: mode, Value: &v}
}
