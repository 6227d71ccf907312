// Package actions aggregates the action-tracking table: id assignment,
// progress aggregation, the daily progress ledger and late-flag detection.
package actions

import (
	"a3project/models"
)

// NextActionID returns max existing id + 1, never below 1.
func NextActionID(list []models.Action) int {
	max := 0
	for _, a := range list {
		if a.ID > max {
			max = a.ID
		}
	}
	return max + 1
}

var allowedProgress = []float64{0, 25, 50, 75, 100}

// ClampProgress snaps a progress value to the quarter steps the table
// offers; anything else resets to 0.
func ClampProgress(v float64) float64 {
	for _, p := range allowedProgress {
		if v == p {
			return v
		}
	}
	return 0
}
