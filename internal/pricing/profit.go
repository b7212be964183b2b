package pricing

// CostRecord is the slice of an internal cost entry the aggregator
// needs. Cost entries are backend-owned; this package only sums them.
type CostRecord struct {
	Amount   float64
	Currency string
}

// AggregateCosts sums cost records per currency.
func AggregateCosts(records []CostRecord) map[string]float64 {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.Currency] += r.Amount
	}
	for c, v := range totals {
		totals[c] = Round2(v)
	}
	return totals
}

// Profit computes revenue minus cost per currency. Every currency
// present on either side appears in the result; the missing side
// contributes zero.
func Profit(revenue, cost map[string]float64) map[string]float64 {
	profit := make(map[string]float64, len(revenue)+len(cost))
	for c, v := range revenue {
		profit[c] = v
	}
	for c, v := range cost {
		profit[c] -= v
	}
	for c, v := range profit {
		profit[c] = Round2(v)
	}
	return profit
}
