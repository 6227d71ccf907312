package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Sample is one measurement point. A nil value means "not yet measured".
type Sample struct {
	Date  string   `json:"date" bson:"date"` // YYYY-MM-DD
	Value *float64 `json:"value" bson:"value"`
}

// UnmarshalJSON accepts the value as a JSON number, a numeric string
// (including comma-decimal locale input and empty strings) or null.
// Anything non-finite or unparsable becomes nil rather than an error, since
// sample entry runs inline in an interactive editing path.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  string          `json:"date"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Date = raw.Date
	s.Value = nil
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil
	}
	var num float64
	if err := json.Unmarshal(raw.Value, &num); err == nil {
		s.Value = SanitizeNumber(&num)
		return nil
	}
	var str string
	if err := json.Unmarshal(raw.Value, &str); err == nil {
		s.Value = ParseNumber(str)
	}
	return nil
}

// ParseNumber parses user-entered numeric text. Comma decimals are accepted;
// empty strings, non-numbers and non-finite values come back as nil.
func ParseNumber(raw string) *float64 {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return SanitizeNumber(&v)
}

// SanitizeNumber drops NaN and infinities so they are never persisted.
func SanitizeNumber(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	v := *p
	return &v
}
