// Package metrics evaluates recorded metric values against their targets and
// cross-correlates the lag metric with its supporting lead metrics.
package metrics

import (
	"sort"
	"time"

	"a3project/buckets"
	"a3project/models"
)

// TargetAt returns the expected value at ts. Constant targets always return
// the end value. Linear targets interpolate between initial (at seriesStart)
// and the end value (at seriesEnd), with the interpolation fraction clamped
// to [0,1] for timestamps outside the span. Falls back to the constant end
// value when interpolation inputs are incomplete.
func TargetAt(ts time.Time, initial *float64, target models.Target, seriesStart, seriesEnd time.Time) *float64 {
	if target.Mode == models.TargetLinear && initial != nil && target.Value != nil && seriesEnd.After(seriesStart) {
		f := float64(ts.Sub(seriesStart)) / float64(seriesEnd.Sub(seriesStart))
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		v := *initial + f*(*target.Value-*initial)
		return &v
	}
	return target.Value
}

// IntentUp infers whether increasing values represent improvement: compare
// initial to the target value when both are known, fall back to the sign of
// the target when only it is known, then to the explicit hint, then to true.
func IntentUp(initial, targetValue *float64, hint *bool) bool {
	if initial != nil && targetValue != nil {
		return *targetValue > *initial
	}
	if targetValue != nil {
		return *targetValue > 0
	}
	if hint != nil {
		return *hint
	}
	return true
}

// IsOnTrack compares a recorded value against its expected value. Nil when
// either side is unavailable.
func IsOnTrack(value, expected *float64, up bool) *bool {
	if value == nil || expected == nil {
		return nil
	}
	var ok bool
	if up {
		ok = *value >= *expected
	} else {
		ok = *value <= *expected
	}
	return &ok
}

type point struct {
	ts    time.Time
	value *float64
}

// EvaluateAgainstDates judges a metric at each query date. For each date the
// latest recorded sample at or before it is found by ordered search; when no
// such sample exists but the date precedes the earliest sample, initial
// stands in. The found value is evaluated against the expectation at the
// found sample's own position in the series, not the query timestamp, so
// sparse sampling is not penalized. Linear expectations advance per grid
// position, treating buckets as evenly spaced so calendar-length differences
// between periods do not skew the line. The result is aligned to
// queryDates; nil means indeterminate.
func EvaluateAgainstDates(samples []models.Sample, queryDates []string, target models.Target, initial *float64) []*bool {
	pts := make([]point, 0, len(samples))
	for _, s := range samples {
		ts, ok := buckets.ParseDate(s.Date)
		if !ok {
			continue
		}
		pts = append(pts, point{ts: ts, value: models.SanitizeNumber(s.Value)})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].ts.Before(pts[j].ts) })

	initialVal := models.SanitizeNumber(initial)
	if initialVal == nil && len(pts) > 0 {
		initialVal = pts[0].value
	}
	up := IntentUp(initialVal, target.Value, target.Up)

	expectedAt := func(gridIdx int) *float64 {
		if target.Mode == models.TargetLinear && initialVal != nil && target.Value != nil && len(pts) > 1 {
			f := float64(gridIdx) / float64(len(pts)-1)
			v := *initialVal + f*(*target.Value-*initialVal)
			return &v
		}
		return target.Value
	}

	results := make([]*bool, len(queryDates))
	for i, d := range queryDates {
		ts, ok := buckets.ParseDate(d)
		if !ok {
			continue
		}
		// latest index with pts[idx].ts <= ts
		idx := sort.Search(len(pts), func(j int) bool { return pts[j].ts.After(ts) }) - 1

		var value *float64
		if idx < 0 {
			if len(pts) == 0 || !ts.Before(pts[0].ts) || initialVal == nil {
				continue
			}
			value = initialVal
			idx = 0
		} else {
			value = pts[idx].value
			if value == nil {
				continue
			}
		}

		results[i] = IsOnTrack(value, expectedAt(idx), up)
	}
	return results
}

// EvaluateMetric evaluates a metric against an explicit date axis using its
// own target and initial value.
func EvaluateMetric(m models.Metric, dates []string) []*bool {
	return EvaluateAgainstDates(m.Samples, dates, m.Target, m.Initial)
}
