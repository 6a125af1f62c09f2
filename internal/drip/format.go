package drip

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseBudget parses a budget as typed into a form field, e.g. "2061.25",
// "$2,000" or " 500 ". Empty and malformed input is rejected with an
// *InvalidInputError so callers can render a zeroed calculation.
func ParseBudget(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, &InvalidInputError{Field: "budget", Reason: "is required"}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &InvalidInputError{Field: "budget", Reason: "must be a decimal number"}
	}
	return d, nil
}

// FormatCurrency renders an amount with a dollar prefix, thousands separators
// and exactly two decimals, e.g. "$2,366.00". The amount is rendered from its
// decimal digits, so large values keep every cent.
func FormatCurrency(d decimal.Decimal) string {
	rounded := roundCurrency(d)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	_, cents, _ := strings.Cut(rounded.StringFixed(CurrencyPlaces), ".")
	return sign + "$" + humanize.BigComma(rounded.Truncate(0).BigInt()) + "." + cents
}
