// Package versioning computes version labels and structured changelogs for
// document snapshots.
package versioning

import (
	"sort"
	"strings"
)

// NextLabel increments a base-26 alphabetic version label: "A" -> "B",
// "Z" -> "AA", "AZ" -> "BA". The empty label yields "A".
func NextLabel(label string) string {
	if label == "" {
		return "A"
	}
	digits := []byte(strings.ToUpper(label))
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < 'Z' {
			digits[i]++
			return string(digits)
		}
		digits[i] = 'A'
	}
	return "A" + string(digits)
}

// LabelNumber decodes a label to its numeric value ("A"=1 ... "Z"=26,
// "AA"=27), so ordering is by age rather than lexicographic ("Z" < "AA").
func LabelNumber(label string) int {
	value := 0
	for _, ch := range strings.ToUpper(label) {
		value = value*26 + int(ch-'A'+1)
	}
	return value
}

// LatestLabel returns the most recent label by decoded value, or "" for an
// empty list.
func LatestLabel(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	sorted := append([]string(nil), labels...)
	sort.Slice(sorted, func(i, j int) bool { return LabelNumber(sorted[i]) < LabelNumber(sorted[j]) })
	return sorted[len(sorted)-1]
}
