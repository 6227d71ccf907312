// Package buckets generates the time buckets (date-only strings) used for
// Check/Act data entry. Supported frequencies: daily, weekly, monthly.
// Weeks start on Monday. All dates are treated as date-only (YYYY-MM-DD).
package buckets

import (
	"regexp"
	"time"
)

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Granularity constrains how coarse a metric must be sampled. A metric with
// a "months" granularity disallows daily and weekly bucket frequencies.
type Granularity string

const (
	GranularityDays   Granularity = "days"
	GranularityWeeks  Granularity = "weeks"
	GranularityMonths Granularity = "months"
)

// DateLayout is the at-rest representation of every calendar date.
const DateLayout = "2006-01-02"

// DefaultMaxBuckets is the densest series the editor will offer.
const DefaultMaxBuckets = 100

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses a date-like string (YYYY-MM-DD, longer ISO strings are
// truncated) into a time.Time at UTC midnight. Returns false on anything
// unparsable.
func ParseDate(s string) (time.Time, bool) {
	if len(s) > 10 {
		s = s[:10]
	}
	if !datePattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func startOfWeekMonday(t time.Time) time.Time {
	day := int(t.Weekday()) // 0=Sunday, 1=Monday...
	diff := 1 - day
	if day == 0 {
		diff = -6
	}
	return t.AddDate(0, 0, diff)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Generate returns the ordered bucket dates between start and end inclusive
// at the given cadence. Daily emits every date; weekly emits Mondays;
// monthly emits first-of-month dates. Aligned dates that would fall before
// start are skipped, so the first bucket is always on or after start.
// Returns nil when the range is invalid or the frequency unknown.
func Generate(start, end string, freq Frequency) []string {
	s, okS := ParseDate(start)
	e, okE := ParseDate(end)
	if !okS || !okE || s.After(e) {
		return nil
	}

	var out []string
	switch freq {
	case Daily:
		for cursor := s; !cursor.After(e); cursor = cursor.AddDate(0, 0, 1) {
			out = append(out, FormatDate(cursor))
		}
	case Weekly:
		for cursor := startOfWeekMonday(s); !cursor.After(e); cursor = cursor.AddDate(0, 0, 7) {
			if cursor.Before(s) {
				continue
			}
			out = append(out, FormatDate(cursor))
		}
	case Monthly:
		for cursor := startOfMonth(s); !cursor.After(e); cursor = startOfMonth(cursor.AddDate(0, 1, 0)) {
			if cursor.Before(s) {
				continue
			}
			out = append(out, FormatDate(cursor))
		}
	default:
		return nil
	}
	return out
}

// Count returns the number of buckets Generate would produce.
func Count(start, end string, freq Frequency) int {
	return len(Generate(start, end, freq))
}

// ShouldDisableFrequency reports whether a frequency is not viable for the
// span: more buckets than maxBuckets (DefaultMaxBuckets when <= 0) or fewer
// than 2.
func ShouldDisableFrequency(start, end string, freq Frequency, maxBuckets int) bool {
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}
	n := Count(start, end, freq)
	return n > maxBuckets || n < 2
}

var freqOrder = map[Frequency]int{Daily: 0, Weekly: 1, Monthly: 2}
var granularityOrder = map[Granularity]int{GranularityDays: 0, GranularityWeeks: 1, GranularityMonths: 2}

// AllowedByGranularity reports whether a frequency is at least as coarse as
// the metric's configured granularity. An empty granularity means no
// restriction.
func AllowedByGranularity(freq Frequency, gran Granularity) bool {
	if gran == "" {
		return true
	}
	return freqOrder[freq] >= granularityOrder[gran]
}
