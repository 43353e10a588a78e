package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds a GBP amount to whole pence.
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundPercent rounds a percentage to one decimal place.
func RoundPercent(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// Format renders an amount as "£12,345.67".
func Format(v float64) string {
	return format(decimal.NewFromFloat(v).StringFixed(2))
}

// FormatWhole renders an amount rounded to whole pounds, e.g. "£12,346".
func FormatWhole(v float64) string {
	return format(decimal.NewFromFloat(v).StringFixed(0))
}

func format(fixed string) string {
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, hasFrac := strings.Cut(fixed, ".")

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	out := "£" + sb.String()
	if hasFrac {
		out += "." + frac
	}
	if neg && strings.Trim(fixed, "0.") != "" {
		out = "-" + out
	}
	return out
}
