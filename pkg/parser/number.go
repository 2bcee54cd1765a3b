package parser

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber coerces a raw cell to a float. It returns nil for empty,
// unparseable and non-finite input. A single decimal comma is accepted
// ("12,5" is 12.5).
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// IsNumeric reports whether ParseNumber would return a value.
func IsNumeric(s string) bool {
	return ParseNumber(s) != nil
}
