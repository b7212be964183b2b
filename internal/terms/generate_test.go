package terms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentTextNetDays(t *testing.T) {
	sel := PaymentSelection{Mode: PaymentNetDays, Days: 45}
	assert.Equal(t, "Net 45 gün", PaymentText(sel, Turkish))
	assert.Equal(t, "Net 45 days", PaymentText(sel, English))
}

func TestPaymentTextNetDaysDefaultsTo30(t *testing.T) {
	sel := PaymentSelection{Mode: PaymentNetDays}
	assert.Equal(t, "Net 30 gün", PaymentText(sel, Turkish))
}

func TestPaymentTextInvoicePlusDays(t *testing.T) {
	tests := []struct {
		name   string
		sel    PaymentSelection
		lang   Language
		expect string
	}{
		{
			name:   "default anchor turkish",
			sel:    PaymentSelection{Mode: PaymentInvoicePlusDays, Days: 60},
			lang:   Turkish,
			expect: "Fatura tarihinden itibaren 60 gün",
		},
		{
			name:   "issue date anchor turkish",
			sel:    PaymentSelection{Mode: PaymentInvoicePlusDays, Days: 30, Anchor: AnchorInvoiceIssueDate},
			lang:   Turkish,
			expect: "Fatura kesim tarihinden itibaren 30 gün",
		},
		{
			name:   "english word order flips",
			sel:    PaymentSelection{Mode: PaymentInvoicePlusDays, Days: 60},
			lang:   English,
			expect: "60 days from invoice date",
		},
		{
			name:   "unknown anchor falls back to invoice date",
			sel:    PaymentSelection{Mode: PaymentInvoicePlusDays, Days: 15, Anchor: "wire_date"},
			lang:   English,
			expect: "15 days from invoice date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, PaymentText(tt.sel, tt.lang))
		})
	}
}

func TestPaymentTextExactDate(t *testing.T) {
	date := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	sel := PaymentSelection{Mode: PaymentExactDate, ExactDate: date}
	assert.Equal(t, "Ödeme tarihi: 07.03.2025", PaymentText(sel, Turkish))
	assert.Equal(t, "Payment date: 07.03.2025", PaymentText(sel, English))
}

func TestPaymentTextExactDateMissingYieldsPlaceholder(t *testing.T) {
	sel := PaymentSelection{Mode: PaymentExactDate}
	assert.Equal(t, "Ödeme tarihi: -", PaymentText(sel, Turkish))
	assert.Equal(t, "Payment date: -", PaymentText(sel, English))
}

func TestPaymentTextAdvanceSplit(t *testing.T) {
	sel := PaymentSelection{Mode: PaymentAdvanceSplit, AdvancePercent: 30}
	assert.Equal(t, "%30 Peşin, %70 Teslimatta", PaymentText(sel, Turkish))
	assert.Equal(t, "30% Advance, 70% on delivery", PaymentText(sel, English))

	// The split defaults to 50/50 when no advance is set.
	assert.Equal(t, "%50 Peşin, %50 Teslimatta", PaymentText(PaymentSelection{Mode: PaymentAdvanceSplit}, Turkish))
}

func TestPaymentTextUnknownModeIsEmpty(t *testing.T) {
	assert.Equal(t, "", PaymentText(PaymentSelection{}, Turkish))
	assert.Equal(t, "", PaymentText(PaymentSelection{Mode: "barter"}, English))
}

func TestPaymentTextIsDeterministic(t *testing.T) {
	sel := PaymentSelection{Mode: PaymentNetDays, Days: 45}
	first := PaymentText(sel, Turkish)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, PaymentText(sel, Turkish))
	}
}

func TestDeliveryTimeText(t *testing.T) {
	assert.Equal(t, "3 - 5 gün", DeliveryTimeText(DeliveryTimeSelection{Min: 3, Max: 5, Unit: UnitDay}, Turkish))
	assert.Equal(t, "3 to 5 days", DeliveryTimeText(DeliveryTimeSelection{Min: 3, Max: 5, Unit: UnitDay}, English))
	assert.Equal(t, "2 - 4 hafta", DeliveryTimeText(DeliveryTimeSelection{Min: 2, Max: 4, Unit: UnitWeek}, Turkish))
	assert.Equal(t, "2 to 4 week(s)", DeliveryTimeText(DeliveryTimeSelection{Min: 2, Max: 4, Unit: UnitWeek}, English))
}

func TestDeliveryTermsText(t *testing.T) {
	sel := DeliveryTermsSelection{
		Selected:   []string{DeliveryStandard, DeliveryCustom},
		CustomText: "Ship via air freight",
	}
	assert.Equal(t, "Standart teslim koşulları\nShip via air freight", DeliveryTermsText(sel, Turkish))
	assert.Equal(t, "Standard delivery terms\nShip via air freight", DeliveryTermsText(sel, English))
}

func TestDeliveryTermsTextSkipsEmptyCustomAndUnknown(t *testing.T) {
	sel := DeliveryTermsSelection{
		Selected: []string{DeliveryCustom, "made_up_option", DeliveryPartialAllowed},
	}
	assert.Equal(t, "Kısmi sevkiyata izin verilir", DeliveryTermsText(sel, Turkish))
}

func TestDeliveryTermsTextPreservesSelectionOrder(t *testing.T) {
	sel := DeliveryTermsSelection{Selected: []string{DeliveryStandardPacking, DeliveryStandard}}
	assert.Equal(t, "Standard export packing\nStandard delivery terms", DeliveryTermsText(sel, English))
}

func TestShippingTermDescription(t *testing.T) {
	assert.Equal(t,
		"Seller covers cost, insurance and freight. Transportation continues on behalf of the buyer after loading.",
		ShippingTermDescription("CIF", English))
	assert.Equal(t, "Nakliye ücreti alıcı tarafından ödenir.", ShippingTermDescription("AO", Turkish))

	// Absence of a shipping term is valid, so empty output is correct here.
	assert.Equal(t, "", ShippingTermDescription("", Turkish))
	assert.Equal(t, "", ShippingTermDescription("XYZ", English))
}

func TestShippingTermOption(t *testing.T) {
	assert.Equal(t, "CIF — Navlun ve Sigorta Dahil", ShippingTermOption("CIF", Turkish))
	assert.Equal(t, "G.O — Freight Prepaid (Seller Pays)", ShippingTermOption("GO", English))
	assert.Equal(t, "XYZ", ShippingTermOption("XYZ", English))
}
