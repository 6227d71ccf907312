package metrics

import (
	"github.com/montanaflynn/stats"

	"a3project/models"
)

// SampleSummary describes the recorded (non-nil) values of a sample series.
type SampleSummary struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	StdDev *float64 `json:"std_dev,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// SummarizeSamples computes descriptive statistics over the recorded values
// of a series. Unmeasured (nil) samples are skipped; an empty series yields
// a zero-count summary.
func SummarizeSamples(samples []models.Sample) SampleSummary {
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		if v := models.SanitizeNumber(s.Value); v != nil {
			values = append(values, *v)
		}
	}
	summary := SampleSummary{Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	data := stats.Float64Data(values)
	if v, err := data.Mean(); err == nil {
		summary.Mean = &v
	}
	if v, err := data.Median(); err == nil {
		summary.Median = &v
	}
	if v, err := data.StandardDeviation(); err == nil {
		summary.StdDev = &v
	}
	if v, err := data.Min(); err == nil {
		summary.Min = &v
	}
	if v, err := data.Max(); err == nil {
		summary.Max = &v
	}
	return summary
}
