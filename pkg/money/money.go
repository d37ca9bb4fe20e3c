// Package money provides amount parsing for bank-statement text. Statement
// amounts arrive with currency symbols, Indian lakh-style grouping
// (1,00,000.00) or Western grouping (1,000,000.00), and sit next to reference
// numbers that look like amounts. Parsing is done through shopspring/decimal
// to keep the 0.01-tolerance balance arithmetic exact.
package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR is the currency every supported statement is denominated in.
const INR = "INR"

// Plausibility bounds for a single statement amount. Values outside this
// range are treated as non-amounts (account numbers, reference ids).
const (
	MinPlausibleAmount = 0.01
	MaxPlausibleAmount = 10_000_000.00
)

// Tolerance is the maximum difference at which two monetary values are
// considered equal when replaying balance arithmetic.
var Tolerance = decimal.NewFromFloat(0.01)

// decimalNumberRe matches a decimal-formatted number with optional grouping,
// covering both 1,00,000.00 and 1,000,000.00 styles as well as ungrouped
// amounts like 499.00 or 5000.00. Both alternatives are boundary-anchored so
// a grouped pattern cannot latch onto a suffix of a longer digit run.
var decimalNumberRe = regexp.MustCompile(`\b\d{1,3}(?:,\d{2,3})*\.\d{2}\b|\b\d+\.\d{2}\b`)

// currencyMarkers are stripped before numeric parsing.
var currencyMarkers = []string{"₹", "Rs.", "Rs", "INR", "$", "€", "£"}

// ParseAmount parses a single amount string. It strips currency markers,
// grouping commas, and a trailing Cr/Dr annotation, and honours both a
// leading minus and accounting-style parentheses for negatives.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	for _, marker := range currencyMarkers {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	upper := strings.ToUpper(cleaned)
	for _, suffix := range []string{" CR", " DR", "CR", "DR"} {
		if strings.HasSuffix(upper, suffix) {
			cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(suffix)])
			break
		}
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.Trim(cleaned, "()")
	}
	if strings.HasPrefix(cleaned, "-") {
		negative = true
		cleaned = strings.TrimPrefix(cleaned, "-")
	}

	// Grouping commas carry no information once the decimal point is fixed,
	// in either lakh or Western style.
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return f, nil
}

// ExtractAmount parses s and additionally enforces the plausibility bounds.
// The second return value is false when s is not a believable statement
// amount, which keeps 13-digit account numbers out of the amount column.
func ExtractAmount(s string) (float64, bool) {
	f, err := ParseAmount(s)
	if err != nil {
		return 0, false
	}
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs < MinPlausibleAmount || abs > MaxPlausibleAmount {
		return 0, false
	}
	return f, true
}

// FindAmounts scans a line of statement text for decimal-formatted numbers
// and returns the plausible ones in order of appearance.
func FindAmounts(line string) []float64 {
	matches := decimalNumberRe.FindAllString(line, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		if f, ok := ExtractAmount(m); ok {
			out = append(out, f)
		}
	}
	return out
}

// WithinTolerance reports whether a and b differ by at most 0.01.
func WithinTolerance(a, b float64) bool {
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThanOrEqual(Tolerance)
}

// FormatINR renders an amount for display, e.g. "₹1,299.00".
func FormatINR(amount float64) string {
	cents := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, INR).Display()
}
