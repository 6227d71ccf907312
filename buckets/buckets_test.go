package buckets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateDailyInclusive verifies daily buckets cover every date from
// start through end.
func TestGenerateDailyInclusive(t *testing.T) {
	dates := Generate("2024-01-01", "2024-01-05", Daily)
	require.Len(t, dates, 5)
	assert.Equal(t, "2024-01-01", dates[0])
	assert.Equal(t, "2024-01-05", dates[4])
}

// TestGenerateWeeklyMondays verifies weekly buckets fall on Mondays and the
// first bucket is never before the project start.
func TestGenerateWeeklyMondays(t *testing.T) {
	// 2024-01-03 is a Wednesday; its week's Monday (Jan 1) precedes start.
	dates := Generate("2024-01-03", "2024-01-31", Weekly)
	assert.Equal(t, []string{"2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}, dates)
}

// TestGenerateMonthlyFirstOfMonth verifies monthly buckets fall on the first
// of each month and months already underway at start are skipped.
func TestGenerateMonthlyFirstOfMonth(t *testing.T) {
	dates := Generate("2024-01-15", "2024-04-10", Monthly)
	assert.Equal(t, []string{"2024-02-01", "2024-03-01", "2024-04-01"}, dates)
}

// TestGenerateMonotonic verifies bucket dates are strictly increasing.
func TestGenerateMonotonic(t *testing.T) {
	for _, freq := range []Frequency{Daily, Weekly, Monthly} {
		dates := Generate("2024-02-10", "2024-08-20", freq)
		require.NotEmpty(t, dates)
		for i := 1; i < len(dates); i++ {
			assert.Less(t, dates[i-1], dates[i])
		}
	}
}

// TestGenerateInvalidInput verifies inverted ranges, bad dates and unknown
// frequencies yield no buckets rather than an error.
func TestGenerateInvalidInput(t *testing.T) {
	assert.Nil(t, Generate("2024-02-01", "2024-01-01", Daily))
	assert.Nil(t, Generate("not-a-date", "2024-01-01", Daily))
	assert.Nil(t, Generate("2024-01-01", "2024-02-01", Frequency("hourly")))
}

// TestCountMatchesGenerate verifies the count shortcut agrees with the
// generated series length.
func TestCountMatchesGenerate(t *testing.T) {
	for _, freq := range []Frequency{Daily, Weekly, Monthly} {
		assert.Equal(t, len(Generate("2024-01-01", "2024-03-31", freq)), Count("2024-01-01", "2024-03-31", freq))
	}
	assert.Equal(t, 0, Count("bad", "2024-03-31", Daily))
}

// TestGenerateMonthlyAlignedStart verifies a span starting on a period
// boundary includes that boundary.
func TestGenerateMonthlyAlignedStart(t *testing.T) {
	dates := Generate("2024-01-01", "2024-03-31", Monthly)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, dates)
}

// TestParseDateTruncatesISO verifies longer ISO timestamps are accepted by
// truncation to their date part.
func TestParseDateTruncatesISO(t *testing.T) {
	ts, ok := ParseDate("2024-05-06T12:34:56Z")
	require.True(t, ok)
	assert.Equal(t, "2024-05-06", FormatDate(ts))
}

// TestShouldDisableFrequency verifies frequencies are disabled when they
// produce too many buckets or fewer than two.
func TestShouldDisableFrequency(t *testing.T) {
	// A full leap year at daily cadence exceeds the default cap.
	assert.True(t, ShouldDisableFrequency("2024-01-01", "2024-12-31", Daily, 0))
	assert.False(t, ShouldDisableFrequency("2024-01-01", "2024-12-31", Weekly, 0))
	// A single bucket is not a series; three is fine.
	assert.True(t, ShouldDisableFrequency("2024-01-01", "2024-01-01", Daily, 0))
	assert.False(t, ShouldDisableFrequency("2024-01-01", "2024-01-03", Daily, 0))
	// An explicit cap overrides the default.
	assert.True(t, ShouldDisableFrequency("2024-01-01", "2024-01-31", Daily, 10))
}

// TestAllowedByGranularity verifies a metric's granularity floor excludes
// finer sampling frequencies.
func TestAllowedByGranularity(t *testing.T) {
	assert.True(t, AllowedByGranularity(Monthly, GranularityMonths))
	assert.False(t, AllowedByGranularity(Daily, GranularityMonths))
	assert.False(t, AllowedByGranularity(Weekly, GranularityMonths))
	assert.True(t, AllowedByGranularity(Weekly, GranularityWeeks))
	assert.True(t, AllowedByGranularity(Daily, ""))
}
