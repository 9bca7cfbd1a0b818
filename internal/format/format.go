// Package format renders amounts and percentages the way the dashboard
// shows them: Turkish grouping, whole currency units, signed percents.
package format

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const currencySuffix = " ₺"

var printer = message.NewPrinter(language.Turkish)

// Currency formats v with grouping and no fractional digits.
func Currency(v float64) string {
	return Amount(v) + currencySuffix
}

// Amount is Currency without the symbol.
func Amount(v float64) string {
	v = math.Round(v)
	if v == 0 {
		v = 0 // drop negative zero
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// SignedCurrency prefixes positive amounts with "+".
func SignedCurrency(v float64) string {
	if math.Round(v) > 0 {
		return "+" + Currency(v)
	}
	return Currency(v)
}

// Percent formats v with one decimal and a sign.
func Percent(v float64) string {
	return percent(v, 1)
}

// PercentPrecise formats v with two decimals, as the chart tooltip does.
func PercentPrecise(v float64) string {
	return percent(v, 2)
}

// Share formats an unsigned portion such as a portfolio weight.
func Share(v float64) string {
	return strings.TrimPrefix(percent(v, 1), "+")
}

// Quantity formats a unit count with up to four decimals.
func Quantity(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(4)))
}

// UnitCurrency formats a per-unit price with two decimals.
func UnitCurrency(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2))) + currencySuffix
}

func percent(v float64, digits int) string {
	scale := math.Pow10(digits)
	v = math.Round(v*scale) / scale
	if v == 0 {
		v = 0
	}
	s := printer.Sprint(number.Decimal(v, number.MinFractionDigits(digits), number.MaxFractionDigits(digits)))
	if v > 0 {
		s = "+" + s
	}
	return s + "%"
}

// Days renders a holding duration; unknown durations are shown distinctly.
func Days(days int, known bool) string {
	if !known {
		return "bilinmiyor"
	}
	return printer.Sprintf("%d gün", days)
}

// Direction returns "up", "down" or "flat" for CSS classes and ticker arrows.
func Direction(v float64) string {
	switch {
	case v > 0:
		return "up"
	case v < 0:
		return "down"
	default:
		return "flat"
	}
}

// Arrow returns the ticker glyph for v.
func Arrow(v float64) string {
	switch Direction(v) {
	case "up":
		return "▲"
	case "down":
		return "▼"
	default:
		return "■"
	}
}

// Slug turns a category name into a stable CSS-friendly token.
func Slug(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}
