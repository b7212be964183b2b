// Package pricing implements the quotation pricing core: line totals,
// markup derivation, per-currency aggregation with a single global
// discount, and cost/profit arithmetic. Everything here is pure
// computation over input values; currency conversion is never
// performed and amounts only meet within their own currency bucket.
package pricing

import "math"

// MarkupMode selects how a sell price is derived from a cost price.
type MarkupMode string

const (
	MarkupPercent MarkupMode = "percent"
	MarkupFixed   MarkupMode = "fixed"
)

// Round2 rounds to two decimal places. Applied at aggregation and
// presentation boundaries; intermediate values stay unrounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineTotal computes quantity times unit price for one line item.
func LineTotal(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// ApplyMarkup derives a sell price from a cost price. The derivation
// is opt-in: when costPrice or value is not positive the current unit
// price is returned unchanged, so a manually entered price is never
// silently recomputed.
func ApplyMarkup(currentUnitPrice, costPrice float64, mode MarkupMode, value float64) float64 {
	if costPrice <= 0 || value <= 0 {
		return currentUnitPrice
	}
	switch mode {
	case MarkupPercent:
		return Round2(costPrice * (1 + value/100))
	case MarkupFixed:
		return Round2(costPrice + value)
	}
	return currentUnitPrice
}
