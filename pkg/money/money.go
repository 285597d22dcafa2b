// Package money provides parsing and formatting helpers for Korean won amounts.
package money

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a comma-formatted amount string (as found in DART
// filings, e.g. "1,234,567" or "-45,000") to an int64.
// Returns false for empty strings, placeholder dashes and anything
// non-numeric.
func ParseAmount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, false
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatKRW formats a won amount into tiered human-readable units:
// 조 (1e12), 억 (1e8) and 만 (1e4), one decimal place each.
// Amounts below 10,000 won are rendered as plain integers.
// The sign always precedes the magnitude.
func FormatKRW(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	abs := math.Abs(v)

	switch {
	case abs >= 1e12:
		return sign + strconv.FormatFloat(abs/1e12, 'f', 1, 64) + "조"
	case abs >= 1e8:
		return sign + strconv.FormatFloat(abs/1e8, 'f', 1, 64) + "억"
	case abs >= 1e4:
		return sign + strconv.FormatFloat(abs/1e4, 'f', 1, 64) + "만"
	default:
		return sign + strconv.FormatInt(int64(abs), 10)
	}
}
