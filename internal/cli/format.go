// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatMoney formats an amount with a currency sign, thousands separators and two decimals.
// e.g., 1234.5 -> "$1,234.50", -50 -> "-$50.00"
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$-"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatCompactMoney drops the cents for large values.
// e.g., 1234.5 -> "$1,235", 12.5 -> "$12.50"
func FormatCompactMoney(v float64) string {
	if math.Abs(v) >= 1000 {
		sign := ""
		if v < 0 {
			sign = "-"
			v = -v
		}
		return sign + "$" + humanize.Comma(int64(math.Round(v)))
	}
	return FormatMoney(v)
}

// FormatPercent formats a 0-100 percentage with one decimal.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatShare formats a share of a whole with no decimals below 10%.
func FormatShare(pct float64) string {
	if pct > 0 && pct < 10 {
		return fmt.Sprintf("%.1f%%", pct)
	}
	return fmt.Sprintf("%.0f%%", pct)
}

// ClampPercent bounds a percentage to 0-100 for bar rendering.
func ClampPercent(pct float64) float64 {
	switch {
	case math.IsNaN(pct), pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// ErrBadAmount is returned by ParseAmount for unparseable input.
var ErrBadAmount = errors.New("not a number")

// ParseAmount accepts plain or formatted amounts: "1200", "1,200.50", "$80".
// Empty input parses as zero.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrBadAmount
	}
	return v, nil
}
