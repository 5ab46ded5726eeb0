package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MakeKey normalizes an ingredient or recipe name into its registry key.
func MakeKey(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), ""))
}

func validateNonNegativeFloat(name string, value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("%s: %w", name, ErrNonNumericAmount)
	}
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseAmount parses a numeric spreadsheet or flag value. Blank input is 0.
// Both "." and "," are accepted as decimal separator.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", raw, ErrNonNumericAmount)
	}
	return v, nil
}
