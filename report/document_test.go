package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quotedesk/quotedesk/internal/pricing"
	"github.com/quotedesk/quotedesk/internal/sales/quotations"
	"github.com/quotedesk/quotedesk/internal/terms"
)

func sampleQuotation(lang terms.Language) *quotations.Quotation {
	return &quotations.Quotation{
		ID:           "q-1",
		QuoteNo:      "Q-240515-007",
		CustomerName: "Acme Makina",
		Subject:      "Press line spares",
		Language:     lang,
		QuoteDate:    time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		ValidityDays: 30,
		Items: []quotations.LineItem{
			{Description: "Seal kit", Quantity: 2, Unit: "pcs", Currency: "EUR", UnitPrice: 1234.5, LineTotal: 2469},
			{Description: "Optional spare", Quantity: 1, Unit: "pcs", Currency: "EUR", UnitPrice: 50, LineTotal: 50, Optional: true},
		},
		Totals: pricing.Totals{
			"EUR": {Subtotal: 2469, DiscountAmount: 100, GrandTotal: 2369},
		},
		Terms: quotations.TermsBlock{
			PaymentText:      "Net 45 days",
			DeliveryTimeText: "4 to 6 weeks",
		},
	}
}

func TestDocumentSkipsOptionalItems(t *testing.T) {
	html := BuildQuotationHTML(sampleQuotation(terms.English))
	assert.Contains(t, html, "Seal kit")
	assert.NotContains(t, html, "Optional spare")
}

func TestDocumentUsesPersistedTermsText(t *testing.T) {
	html := BuildQuotationHTML(sampleQuotation(terms.English))
	assert.Contains(t, html, "Net 45 days")
	assert.Contains(t, html, "4 to 6 weeks")
	assert.Contains(t, html, "QUOTATION")
	assert.Contains(t, html, "Q-240515-007")
}

func TestDocumentLocaleNumberFormatting(t *testing.T) {
	en := BuildQuotationHTML(sampleQuotation(terms.English))
	assert.Contains(t, en, "1,234.50", "English grouping uses comma thousands")
	assert.Contains(t, en, "2,369.00")

	tr := BuildQuotationHTML(sampleQuotation(terms.Turkish))
	assert.Contains(t, tr, "1.234,50", "Turkish grouping uses dot thousands")
	assert.Contains(t, tr, "TEKLİF")
}

func TestDocumentShowsDiscountRow(t *testing.T) {
	html := BuildQuotationHTML(sampleQuotation(terms.English))
	assert.Contains(t, html, "Discount")
	assert.Contains(t, html, "-100.00")

	q := sampleQuotation(terms.English)
	q.Totals = pricing.Totals{"EUR": {Subtotal: 2469, GrandTotal: 2469}}
	html = BuildQuotationHTML(q)
	assert.NotContains(t, html, "Discount", "no discount row when nothing is discounted")
}

func TestDocumentEscapesUserText(t *testing.T) {
	q := sampleQuotation(terms.English)
	q.Subject = `<script>alert("x")</script>`
	html := BuildQuotationHTML(q)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestDocumentTotalsOrderIsStable(t *testing.T) {
	q := sampleQuotation(terms.English)
	q.Totals = pricing.Totals{
		"USD": {Subtotal: 500, GrandTotal: 500},
		"EUR": {Subtotal: 2469, GrandTotal: 2469},
		"TRY": {Subtotal: 150, GrandTotal: 150},
	}

	html := BuildQuotationHTML(q)
	eur := strings.Index(html, "Subtotal (EUR)")
	try := strings.Index(html, "Subtotal (TRY)")
	usd := strings.Index(html, "Subtotal (USD)")
	assert.True(t, eur >= 0 && try >= 0 && usd >= 0)
	assert.Less(t, eur, try)
	assert.Less(t, try, usd)

	for i := 0; i < 5; i++ {
		assert.Equal(t, html, BuildQuotationHTML(q), "renders must be byte-identical")
	}
}
