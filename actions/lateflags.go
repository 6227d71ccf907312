package actions

import (
	"strings"
	"time"

	"a3project/buckets"
	"a3project/models"
)

// MaxLateFlags caps how many missed-deadline detections an action keeps.
const MaxLateFlags = 3

// EnsureLateFlags scans the action list against now and appends a late flag
// the first time an incomplete, owned action crosses its deadline. The flag
// is the deadline's own timestamp, so re-running detection for an unchanged
// deadline is a no-op; flags are never removed, and the history keeps only
// the MaxLateFlags most recent entries. Returns a new slice; the input is
// not mutated.
func EnsureLateFlags(list []models.Action, now time.Time) []models.Action {
	out := make([]models.Action, len(list))
	for i, a := range list {
		a.LateFlags = append([]string(nil), a.LateFlags...)

		hasOwner := strings.TrimSpace(a.Owner) != ""
		limit, hasLimit := buckets.ParseDate(a.Limit)
		incomplete := a.Progress == nil || NormalizeProgress(a.Progress) < 100

		if hasOwner && hasLimit && incomplete && now.After(limit) {
			flag := limit.UTC().Format(time.RFC3339)
			if !containsFlag(a.LateFlags, flag) {
				a.LateFlags = append(a.LateFlags, flag)
				if len(a.LateFlags) > MaxLateFlags {
					a.LateFlags = a.LateFlags[len(a.LateFlags)-MaxLateFlags:]
				}
			}
		}
		out[i] = a
	}
	return out
}

func containsFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
