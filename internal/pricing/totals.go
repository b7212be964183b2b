package pricing

import "fmt"

// DiscountType selects how the global quotation discount is computed.
type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// HighDiscountThreshold is the percentage above which a discount
// requires explicit confirmation before submission. It is a soft
// guard against fat-finger entry, not a hard limit.
const HighDiscountThreshold = 10.0

// Item is the slice of a line item the aggregator needs.
type Item struct {
	Quantity  float64
	UnitPrice float64
	Currency  string
	Optional  bool
}

// Discount is the single global discount applied after per-currency
// subtotals. It targets exactly one currency bucket.
type Discount struct {
	Type     DiscountType `json:"type"`
	Value    float64      `json:"value"`
	Currency string       `json:"currency"`
}

// CurrencyTotal holds the aggregated amounts for one currency.
type CurrencyTotal struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	GrandTotal     float64 `json:"grand_total"`
}

// Totals maps currency code to its aggregated amounts.
type Totals map[string]CurrencyTotal

// InvalidDiscountError signals that the discount exceeds the subtotal
// of its currency bucket. Totals are never clamped; the caller must
// surface the numbers and refuse the submission.
type InvalidDiscountError struct {
	Currency       string
	Subtotal       float64
	DiscountAmount float64
}

func (e *InvalidDiscountError) Error() string {
	return fmt.Sprintf("discount %.2f %s exceeds subtotal %.2f %s",
		e.DiscountAmount, e.Currency, e.Subtotal, e.Currency)
}

// ComputeTotals partitions items by currency, sums the non-optional
// line totals per bucket and applies the discount to the bucket whose
// currency matches. Optional items contribute nothing to any total.
// Amounts are rounded to two decimals at this boundary.
func ComputeTotals(items []Item, discount Discount) (Totals, error) {
	subtotals := make(map[string]float64)
	for _, it := range items {
		if it.Optional {
			continue
		}
		subtotals[it.Currency] += LineTotal(it.Quantity, it.UnitPrice)
	}

	totals := make(Totals, len(subtotals))
	for currency, subtotal := range subtotals {
		ct := CurrencyTotal{Subtotal: Round2(subtotal)}

		if discount.Type != DiscountNone && discount.Value > 0 && discount.Currency == currency {
			switch discount.Type {
			case DiscountPercent:
				ct.DiscountAmount = Round2(subtotal * discount.Value / 100)
			case DiscountFixed:
				ct.DiscountAmount = Round2(discount.Value)
			}
		}

		if ct.DiscountAmount > ct.Subtotal {
			return nil, &InvalidDiscountError{
				Currency:       currency,
				Subtotal:       ct.Subtotal,
				DiscountAmount: ct.DiscountAmount,
			}
		}

		ct.GrandTotal = Round2(ct.Subtotal - ct.DiscountAmount)
		totals[currency] = ct
	}

	return totals, nil
}

// DiscountVerdict is the outcome of validating a discount before
// submission.
type DiscountVerdict int

const (
	// DiscountOK means the discount may be applied as-is.
	DiscountOK DiscountVerdict = iota
	// DiscountNeedsConfirmation means the percentage exceeds the soft
	// threshold and the user must explicitly acknowledge it.
	DiscountNeedsConfirmation
	// DiscountRejected means the discount would drive a grand total
	// negative and must be corrected before retry.
	DiscountRejected
)

// DiscountCheck carries the verdict plus the numbers the UI shows in
// its confirmation or error dialog.
type DiscountCheck struct {
	Verdict        DiscountVerdict
	Currency       string
	Subtotal       float64
	DiscountAmount float64
	GrandTotal     float64
}

// ValidateDiscount evaluates the discount against the items without
// mutating anything. Confirmation is application logic here, not UI
// control flow: callers submit with an explicit confirmation flag
// after a DiscountNeedsConfirmation verdict.
func ValidateDiscount(items []Item, discount Discount) DiscountCheck {
	if discount.Type == DiscountNone || discount.Value <= 0 {
		return DiscountCheck{Verdict: DiscountOK}
	}

	var subtotal float64
	for _, it := range items {
		if it.Optional || it.Currency != discount.Currency {
			continue
		}
		subtotal += LineTotal(it.Quantity, it.UnitPrice)
	}
	subtotal = Round2(subtotal)

	var amount float64
	switch discount.Type {
	case DiscountPercent:
		amount = Round2(subtotal * discount.Value / 100)
	case DiscountFixed:
		amount = Round2(discount.Value)
	}

	check := DiscountCheck{
		Currency:       discount.Currency,
		Subtotal:       subtotal,
		DiscountAmount: amount,
		GrandTotal:     Round2(subtotal - amount),
	}

	switch {
	case amount > subtotal:
		check.Verdict = DiscountRejected
	case discount.Type == DiscountPercent && discount.Value > HighDiscountThreshold:
		check.Verdict = DiscountNeedsConfirmation
	default:
		check.Verdict = DiscountOK
	}
	return check
}
