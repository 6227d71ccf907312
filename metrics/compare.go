package metrics

import "a3project/models"

// CompareLagsLeads computes the per-date mismatch signal between the lag
// metric's on-track series and the lead metrics' series, all aligned to the
// same date axis. For each index the leads ratio is
// 2*satisfied/determinate - 1, mapped to [-1,1]. A signal is emitted only
// when the lag status and the ratio disagree in sign: positive means the lag
// is regressing while the leads progress, negative the reverse. Nil when the
// lag is indeterminate, no lead is determinate, or lag and leads agree.
func CompareLagsLeads(lag []*bool, leads [][]*bool) []*float64 {
	signals := make([]*float64, len(lag))
	for i, lagStatus := range lag {
		if lagStatus == nil {
			continue
		}
		satisfied := 0
		determinate := 0
		for _, lead := range leads {
			if i >= len(lead) || lead[i] == nil {
				continue
			}
			determinate++
			if *lead[i] {
				satisfied++
			}
		}
		if determinate == 0 {
			continue
		}
		ratio := 2*float64(satisfied)/float64(determinate) - 1
		if (*lagStatus && ratio < 0) || (!*lagStatus && ratio > 0) {
			r := ratio
			signals[i] = &r
		}
	}
	return signals
}

// Comparison is the lag/leads view for one document: every metric evaluated
// on the lag metric's date axis plus the mismatch signal row.
type Comparison struct {
	Dates   []string   `json:"dates"`
	Metrics []string   `json:"metrics"`
	Rows    [][]*bool  `json:"rows"`
	Signals []*float64 `json:"signals"`
}

// CompareDocument builds the full comparison matrix for a document's
// metrics. The date axis is the lag metric's sample dates.
func CompareDocument(ms models.Metrics) Comparison {
	dates := make([]string, 0, len(ms.Lag.Samples))
	for _, s := range ms.Lag.Samples {
		dates = append(dates, s.Date)
	}

	names := []string{ms.Lag.Name}
	rows := [][]*bool{EvaluateMetric(ms.Lag, dates)}
	leads := make([][]*bool, 0, len(ms.Leads))
	for _, lead := range ms.Leads {
		names = append(names, lead.Name)
		row := EvaluateMetric(lead, dates)
		rows = append(rows, row)
		leads = append(leads, row)
	}

	return Comparison{
		Dates:   dates,
		Metrics: names,
		Rows:    rows,
		Signals: CompareLagsLeads(rows[0], leads),
	}
}
