package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsExcludesOptionalItems(t *testing.T) {
	items := []Item{
		{Quantity: 2, UnitPrice: 100, Currency: "EUR"},
		{Quantity: 1, UnitPrice: 50, Currency: "EUR", Optional: true},
	}

	totals, err := ComputeTotals(items, Discount{Type: DiscountNone})
	require.NoError(t, err)
	require.Contains(t, totals, "EUR")
	assert.Equal(t, 200.0, totals["EUR"].Subtotal)
	assert.Equal(t, 0.0, totals["EUR"].DiscountAmount)
	assert.Equal(t, 200.0, totals["EUR"].GrandTotal)
}

func TestComputeTotalsPartitionsByCurrency(t *testing.T) {
	items := []Item{
		{Quantity: 1, UnitPrice: 100, Currency: "EUR"},
		{Quantity: 2, UnitPrice: 250, Currency: "USD"},
		{Quantity: 3, UnitPrice: 1000, Currency: "TRY"},
		{Quantity: 1, UnitPrice: 40, Currency: "EUR"},
	}

	totals, err := ComputeTotals(items, Discount{Type: DiscountNone})
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, 140.0, totals["EUR"].Subtotal)
	assert.Equal(t, 500.0, totals["USD"].Subtotal)
	assert.Equal(t, 3000.0, totals["TRY"].Subtotal)
}

func TestComputeTotalsPercentDiscount(t *testing.T) {
	items := []Item{{Quantity: 1, UnitPrice: 1000, Currency: "EUR"}}

	totals, err := ComputeTotals(items, Discount{Type: DiscountPercent, Value: 15, Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, totals["EUR"].Subtotal)
	assert.Equal(t, 150.0, totals["EUR"].DiscountAmount)
	assert.Equal(t, 850.0, totals["EUR"].GrandTotal)
}

func TestComputeTotalsFixedDiscountIgnoresSubtotalScale(t *testing.T) {
	items := []Item{{Quantity: 1, UnitPrice: 500, Currency: "USD"}}

	totals, err := ComputeTotals(items, Discount{Type: DiscountFixed, Value: 75, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, 75.0, totals["USD"].DiscountAmount)
	assert.Equal(t, 425.0, totals["USD"].GrandTotal)
}

func TestComputeTotalsDiscountOnlyHitsMatchingCurrency(t *testing.T) {
	items := []Item{
		{Quantity: 1, UnitPrice: 1000, Currency: "EUR"},
		{Quantity: 1, UnitPrice: 1000, Currency: "USD"},
	}

	totals, err := ComputeTotals(items, Discount{Type: DiscountPercent, Value: 10, Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, totals["EUR"].DiscountAmount)
	assert.Equal(t, 900.0, totals["EUR"].GrandTotal)
	assert.Equal(t, 0.0, totals["USD"].DiscountAmount)
	assert.Equal(t, 1000.0, totals["USD"].GrandTotal)
}

func TestComputeTotalsRejectsOverspend(t *testing.T) {
	items := []Item{{Quantity: 1, UnitPrice: 100, Currency: "EUR"}}

	totals, err := ComputeTotals(items, Discount{Type: DiscountFixed, Value: 150, Currency: "EUR"})
	require.Error(t, err)
	assert.Nil(t, totals)

	var invalid *InvalidDiscountError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "EUR", invalid.Currency)
	assert.Equal(t, 100.0, invalid.Subtotal)
	assert.Equal(t, 150.0, invalid.DiscountAmount)
}

func TestValidateDiscountOK(t *testing.T) {
	items := []Item{{Quantity: 1, UnitPrice: 1000, Currency: "EUR"}}

	check := ValidateDiscount(items, Discount{Type: DiscountPercent, Value: 5, Currency: "EUR"})
	assert.Equal(t, DiscountOK, check.Verdict)
	assert.Equal(t, 50.0, check.DiscountAmount)
}

func TestValidateDiscountNoneIsAlwaysOK(t *testing.T) {
	check := ValidateDiscount(nil, Discount{Type: DiscountNone})
	assert.Equal(t, DiscountOK, check.Verdict)

	check = ValidateDiscount(nil, Discount{Type: DiscountPercent, Value: 0, Currency: "EUR"})
	assert.Equal(t, DiscountOK, check.Verdict)
}

func TestValidateDiscountHighPercentNeedsConfirmation(t *testing.T) {
	items := []Item{{Quantity: 1, UnitPrice: 1000, Currency: "EUR"}}

	check := ValidateDiscount(items, Discount{Type: DiscountPercent, Value: 15, Currency: "EUR"})
	assert.Equal(t, DiscountNeedsConfirmation, check.Verdict)
	assert.Equal(t, 1000.0, check.Subtotal)
	assert.Equal(t, 150.0, check.DiscountAmount)
	assert.Equal(t, 850.0, check.GrandTotal)
}

func TestValidateDiscountExactlyTenPercentIsOK(t *testing.T) {
	items := []Item{{Quantity: 1, UnitPrice: 1000, Currency: "EUR"}}

	check := ValidateDiscount(items, Discount{Type: DiscountPercent, Value: 10, Currency: "EUR"})
	assert.Equal(t, DiscountOK, check.Verdict)
}

func TestValidateDiscountRejectedBeatsConfirmation(t *testing.T) {
	// 200% percent discount both exceeds the threshold and overspends;
	// rejection wins.
	items := []Item{{Quantity: 1, UnitPrice: 100, Currency: "EUR"}}

	check := ValidateDiscount(items, Discount{Type: DiscountPercent, Value: 200, Currency: "EUR"})
	assert.Equal(t, DiscountRejected, check.Verdict)
	assert.Equal(t, 200.0, check.DiscountAmount)
}

func TestValidateDiscountFixedOverspendRejected(t *testing.T) {
	items := []Item{{Quantity: 1, UnitPrice: 100, Currency: "EUR"}}

	check := ValidateDiscount(items, Discount{Type: DiscountFixed, Value: 150, Currency: "EUR"})
	assert.Equal(t, DiscountRejected, check.Verdict)
	assert.Equal(t, 100.0, check.Subtotal)
	assert.Equal(t, 150.0, check.DiscountAmount)
}
