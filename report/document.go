package report

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/quotedesk/quotedesk/internal/sales/quotations"
	"github.com/quotedesk/quotedesk/internal/terms"
)

// labels holds the static document strings in both languages.
var labels = map[terms.Language]map[string]string{
	terms.Turkish: {
		"title":        "TEKLİF",
		"date":         "Tarih",
		"validity":     "Geçerlilik",
		"days":         "gün",
		"customer":     "Müşteri",
		"subject":      "Konu",
		"description":  "Açıklama",
		"quantity":     "Miktar",
		"unit_price":   "Birim Fiyat",
		"line_total":   "Tutar",
		"subtotal":     "Ara Toplam",
		"discount":     "İskonto",
		"grand_total":  "Genel Toplam",
		"payment":      "Ödeme Koşulları",
		"delivery":     "Teslimat Koşulları",
		"delivery_time": "Teslim Süresi",
		"shipping":     "Sevkiyat",
		"notes":        "Notlar",
	},
	terms.English: {
		"title":        "QUOTATION",
		"date":         "Date",
		"validity":     "Validity",
		"days":         "days",
		"customer":     "Customer",
		"subject":      "Subject",
		"description":  "Description",
		"quantity":     "Qty",
		"unit_price":   "Unit Price",
		"line_total":   "Total",
		"subtotal":     "Subtotal",
		"discount":     "Discount",
		"grand_total":  "Grand Total",
		"payment":      "Payment Terms",
		"delivery":     "Delivery Terms",
		"delivery_time": "Delivery Time",
		"shipping":     "Shipping",
		"notes":        "Notes",
	},
}

func printerFor(lang terms.Language) *message.Printer {
	if lang == terms.English {
		return message.NewPrinter(language.AmericanEnglish)
	}
	return message.NewPrinter(language.Turkish)
}

// formatAmount renders a money value with the digit grouping of the
// document language: 1.234,56 in Turkish, 1,234.56 in English.
func formatAmount(p *message.Printer, v float64) string {
	return p.Sprint(number.Decimal(v, number.Scale(2)))
}

// BuildQuotationHTML assembles the print-ready document for a
// quotation in its own language. Optional items are left off the
// document entirely; the persisted terms text is used verbatim so the
// document matches what was saved.
func BuildQuotationHTML(q *quotations.Quotation) string {
	lang := q.Language
	l := labels[lang]
	if l == nil {
		l = labels[terms.Turkish]
	}
	p := printerFor(lang)

	var b strings.Builder
	b.WriteString(`<html><head><meta charset="utf-8"><style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 20px; letter-spacing: 2px; }
table.items { width: 100%; border-collapse: collapse; margin-top: 12px; }
table.items th, table.items td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
table.items th { background: #eee; }
td.num, th.num { text-align: right; }
.meta td { padding: 2px 8px 2px 0; }
.totals { margin-top: 10px; }
.totals td { padding: 2px 8px; }
.terms { margin-top: 16px; white-space: pre-line; }
</style></head><body>`)

	fmt.Fprintf(&b, "<h1>%s</h1>", l["title"])
	fmt.Fprintf(&b, `<table class="meta">`)
	fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>", l["title"], html.EscapeString(q.QuoteNo))
	fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>", l["date"], q.QuoteDate.Format("02.01.2006"))
	if q.ValidityDays > 0 {
		fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%d %s</td></tr>", l["validity"], q.ValidityDays, l["days"])
	}
	fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>", l["customer"], html.EscapeString(q.CustomerName))
	fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>", l["subject"], html.EscapeString(q.Subject))
	b.WriteString("</table>")

	b.WriteString(`<table class="items"><tr>`)
	fmt.Fprintf(&b, "<th>%s</th><th class=\"num\">%s</th><th class=\"num\">%s</th><th class=\"num\">%s</th>",
		l["description"], l["quantity"], l["unit_price"], l["line_total"])
	b.WriteString("</tr>")
	for _, item := range q.Items {
		if item.Optional {
			continue
		}
		desc := html.EscapeString(item.Description)
		if item.Note != "" {
			desc += "<br><small>" + html.EscapeString(item.Note) + "</small>"
		}
		fmt.Fprintf(&b,
			`<tr><td>%s</td><td class="num">%s %s</td><td class="num">%s %s</td><td class="num">%s %s</td></tr>`,
			desc,
			p.Sprint(number.Decimal(item.Quantity)), html.EscapeString(item.Unit),
			formatAmount(p, item.UnitPrice), item.Currency,
			formatAmount(p, item.LineTotal), item.Currency)
	}
	b.WriteString("</table>")

	b.WriteString(`<table class="totals">`)
	currencies := make([]string, 0, len(q.Totals))
	for currency := range q.Totals {
		currencies = append(currencies, currency)
	}
	// Stable currency order keeps preview and archived PDF identical.
	sort.Strings(currencies)
	for _, currency := range currencies {
		totals := q.Totals[currency]
		fmt.Fprintf(&b, `<tr><td><b>%s (%s)</b></td><td class="num">%s</td></tr>`,
			l["subtotal"], currency, formatAmount(p, totals.Subtotal))
		if totals.DiscountAmount > 0 {
			fmt.Fprintf(&b, `<tr><td>%s</td><td class="num">-%s</td></tr>`,
				l["discount"], formatAmount(p, totals.DiscountAmount))
		}
		fmt.Fprintf(&b, `<tr><td><b>%s (%s)</b></td><td class="num"><b>%s</b></td></tr>`,
			l["grand_total"], currency, formatAmount(p, totals.GrandTotal))
	}
	b.WriteString("</table>")

	writeTermsSection := func(title, text string) {
		if text == "" {
			return
		}
		fmt.Fprintf(&b, `<div class="terms"><b>%s</b><br>%s</div>`,
			title, html.EscapeString(text))
	}
	writeTermsSection(l["payment"], q.Terms.PaymentText)
	writeTermsSection(l["delivery_time"], q.Terms.DeliveryTimeText)
	writeTermsSection(l["delivery"], q.Terms.DeliveryText)
	writeTermsSection(l["shipping"], q.Terms.ShippingTermText)
	writeTermsSection(l["notes"], q.Note)

	b.WriteString("</body></html>")
	return b.String()
}
