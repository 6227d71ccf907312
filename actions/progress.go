package actions

import (
	"math"
	"time"

	"a3project/buckets"
	"a3project/models"
)

// NormalizeProgress maps an action's progress onto a 0-100 scale. Values at
// or below 1 are treated as fractions; nil and non-finite input count as 0.
func NormalizeProgress(p *float64) float64 {
	v := models.SanitizeNumber(p)
	if v == nil {
		return 0
	}
	if *v <= 1 {
		return *v * 100
	}
	return *v
}

func progressFrac(p *float64) float64 {
	frac := NormalizeProgress(p) / 100
	return math.Max(0, math.Min(1, frac))
}

func weightOf(w models.Weight) float64 {
	switch w {
	case models.WeightHigh:
		return 3
	case models.WeightMedium:
		return 2
	case models.WeightLow:
		return 1
	default:
		return 1
	}
}

// AggregatePercent reduces the action list to a single completion
// percentage, rounded to the nearest integer. Weighted mode scales each
// action by its effort weight, falling back to the action count when the
// total weight is zero. Empty lists yield 0.
func AggregatePercent(list []models.Action, weighted bool) int {
	if len(list) == 0 {
		return 0
	}
	if !weighted {
		sum := 0.0
		for _, a := range list {
			sum += NormalizeProgress(a.Progress)
		}
		return int(math.Round(sum / float64(len(list))))
	}

	weightedSum := 0.0
	weightTotal := 0.0
	for _, a := range list {
		w := weightOf(a.Weight)
		weightedSum += NormalizeProgress(a.Progress) * w
		weightTotal += w
	}
	if weightTotal == 0 {
		weightTotal = float64(len(list))
	}
	return int(math.Round(weightedSum / weightTotal))
}

// Totals is the raw unit view of the action table: total units (action count
// or weight sum) and completed units (sum of weighted completion fractions).
// Absolute units keep historical ledger entries meaningful as the action set
// grows.
type Totals struct {
	Total     float64 `json:"total"`
	Completed float64 `json:"completed"`
}

// AggregateTotals computes the current Totals for the action list.
func AggregateTotals(list []models.Action, weighted bool) Totals {
	if len(list) == 0 {
		return Totals{}
	}
	if !weighted {
		completed := 0.0
		for _, a := range list {
			completed += progressFrac(a.Progress)
		}
		return Totals{Total: float64(len(list)), Completed: completed}
	}

	var t Totals
	for _, a := range list {
		w := weightOf(a.Weight)
		t.Total += w
		t.Completed += w * progressFrac(a.Progress)
	}
	return t
}

// Today formats a wall-clock instant as the ledger's calendar-day key.
func Today(now time.Time) string {
	return buckets.FormatDate(now)
}

// BuildProgressSeries materializes one ProgressPoint per calendar day in
// [start, end], preserving previously recorded pairs by date. The first day
// up to today with neither value set starts a forward-fill from the last
// known values (or from live totals when there is no history); today's point
// is always overwritten with live totals; days after today are left as
// persisted. Returns the existing series unchanged when the span is
// invalid.
func BuildProgressSeries(existing []models.ProgressPoint, start, end string, live Totals, today string) []models.ProgressPoint {
	days := dayRange(start, end)
	if len(days) == 0 {
		return existing
	}

	recorded := make(map[string]models.ProgressPoint, len(existing))
	for _, p := range existing {
		d, ok := buckets.ParseDate(p.Date)
		if !ok {
			continue
		}
		recorded[buckets.FormatDate(d)] = models.ProgressPoint{
			Total:     models.SanitizeNumber(p.Total),
			Completed: models.SanitizeNumber(p.Completed),
		}
	}

	entries := make([]models.ProgressPoint, len(days))
	todayIdx := -1
	for i, d := range days {
		entries[i] = models.ProgressPoint{Date: d}
		if prev, ok := recorded[d]; ok {
			entries[i].Total = prev.Total
			entries[i].Completed = prev.Completed
		}
		if d == today {
			todayIdx = i
		}
	}

	// With no completion history at all, show an explicit zero completion
	// rate up to today instead of empty cells.
	if todayIdx >= 0 && entries[0].Completed == nil {
		zero := 0.0
		for i := 0; i <= todayIdx; i++ {
			if entries[i].Completed == nil {
				z := zero
				entries[i].Completed = &z
			}
		}
	}

	firstUnfilled := -1
	for i := 0; i <= todayIdx; i++ {
		if entries[i].Total == nil && entries[i].Completed == nil {
			firstUnfilled = i
			break
		}
	}

	var lastTotal, lastCompleted *float64
	if firstUnfilled > 0 {
		for j := firstUnfilled - 1; j >= 0; j-- {
			if entries[j].Total != nil || entries[j].Completed != nil {
				lastTotal = entries[j].Total
				lastCompleted = entries[j].Completed
				break
			}
		}
	}
	if lastTotal == nil && lastCompleted == nil {
		lastTotal = nonZero(live.Total)
		lastCompleted = nonZero(live.Completed)
	}

	if firstUnfilled == -1 {
		if todayIdx >= 0 {
			entries[todayIdx].Total = ptr(live.Total)
			entries[todayIdx].Completed = ptr(live.Completed)
		}
	} else {
		for i := firstUnfilled; i <= todayIdx; i++ {
			if entries[i].Date == today {
				entries[i].Total = ptr(live.Total)
				entries[i].Completed = ptr(live.Completed)
				lastTotal = entries[i].Total
				lastCompleted = entries[i].Completed
				continue
			}
			if entries[i].Total == nil {
				entries[i].Total = lastTotal
			}
			if entries[i].Completed == nil {
				entries[i].Completed = lastCompleted
			}
			if entries[i].Total != nil {
				lastTotal = entries[i].Total
			}
			if entries[i].Completed != nil {
				lastCompleted = entries[i].Completed
			}
		}
	}
	return entries
}

func dayRange(start, end string) []string {
	s, okS := buckets.ParseDate(start)
	e, okE := buckets.ParseDate(end)
	if !okS || !okE || s.After(e) {
		return nil
	}
	var out []string
	for cursor := s; !cursor.After(e); cursor = cursor.AddDate(0, 0, 1) {
		out = append(out, buckets.FormatDate(cursor))
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
