package rules

import (
	"regexp"
	"strconv"
	"strings"
)

// Matches a decimal number followed by "км", e.g. "пробежал 5.5 км".
var distanceRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*км`)

// ParseDistanceKm extracts a kilometer distance from free text. Used as a
// fallback when the upstream parser defaulted a cardio entry's reps to 1.
func ParseDistanceKm(text string) (float64, bool) {
	m := distanceRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
