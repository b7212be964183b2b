package terms

import (
	"fmt"
	"strings"
	"time"
)

// PaymentSelection is the structured form behind the payment-terms
// text. Exactly one mode is active; parameters of the other modes may
// still be populated and are simply ignored.
type PaymentSelection struct {
	Mode           PaymentMode   `json:"mode"`
	Days           int           `json:"days,omitempty"`
	Anchor         PaymentAnchor `json:"anchor,omitempty"`
	ExactDate      time.Time     `json:"exact_date,omitempty"`
	AdvancePercent int           `json:"advance_percent,omitempty"`
}

// DeliveryTimeUnit is the unit of a delivery-time range.
type DeliveryTimeUnit string

const (
	UnitDay  DeliveryTimeUnit = "day"
	UnitWeek DeliveryTimeUnit = "week"
)

// DeliveryTimeSelection is a bounded range over days or weeks. The
// input layer keeps max >= min; the generator does not re-validate.
type DeliveryTimeSelection struct {
	Min  int              `json:"min"`
	Max  int              `json:"max"`
	Unit DeliveryTimeUnit `json:"unit"`
}

// DeliveryTermsSelection is an ordered set of delivery-term option
// identifiers plus the free-text fragment used by the custom option.
type DeliveryTermsSelection struct {
	Selected   []string `json:"selected"`
	CustomText string   `json:"custom_text,omitempty"`
}

// PaymentText renders the payment-terms sentence for the selection.
// Unknown or empty modes yield an empty string; a missing exact date
// yields an explicit placeholder so the document never shows a blank
// terms line.
func PaymentText(sel PaymentSelection, lang Language) string {
	tr := lang != English

	switch sel.Mode {
	case PaymentInvoicePlusDays:
		days := sel.Days
		if days == 0 {
			days = 30
		}
		anchor := sel.Anchor
		if anchor == "" {
			anchor = AnchorInvoiceDate
		}
		label, ok := paymentAnchorLabels[anchor]
		if !ok {
			label = paymentAnchorLabels[AnchorInvoiceDate]
		}
		if tr {
			return fmt.Sprintf("%s %d gün", label.TR, days)
		}
		return fmt.Sprintf("%d days %s", days, label.EN)

	case PaymentNetDays:
		days := sel.Days
		if days == 0 {
			days = 30
		}
		if tr {
			return fmt.Sprintf("Net %d gün", days)
		}
		return fmt.Sprintf("Net %d days", days)

	case PaymentExactDate:
		if sel.ExactDate.IsZero() {
			if tr {
				return "Ödeme tarihi: -"
			}
			return "Payment date: -"
		}
		formatted := sel.ExactDate.Format("02.01.2006")
		if tr {
			return "Ödeme tarihi: " + formatted
		}
		return "Payment date: " + formatted

	case PaymentAdvanceSplit:
		advance := sel.AdvancePercent
		if advance == 0 {
			advance = 50
		}
		delivery := 100 - advance
		if tr {
			return fmt.Sprintf("%%%d Peşin, %%%d Teslimatta", advance, delivery)
		}
		return fmt.Sprintf("%d%% Advance, %d%% on delivery", advance, delivery)
	}

	return ""
}

// DeliveryTimeText renders the delivery-time range, e.g. "2 - 4 hafta"
// or "2 to 4 week(s)".
func DeliveryTimeText(sel DeliveryTimeSelection, lang Language) string {
	tr := lang != English
	if sel.Unit == UnitDay {
		if tr {
			return fmt.Sprintf("%d - %d gün", sel.Min, sel.Max)
		}
		return fmt.Sprintf("%d to %d days", sel.Min, sel.Max)
	}
	if tr {
		return fmt.Sprintf("%d - %d hafta", sel.Min, sel.Max)
	}
	return fmt.Sprintf("%d to %d week(s)", sel.Min, sel.Max)
}

// DeliveryTermsText joins the display text of each selected option in
// selection order. The custom option contributes the free-text
// fragment verbatim and is skipped when the fragment is empty.
// Unknown identifiers are skipped.
func DeliveryTermsText(sel DeliveryTermsSelection, lang Language) string {
	texts := make([]string, 0, len(sel.Selected))
	for _, id := range sel.Selected {
		if id == DeliveryCustom {
			if sel.CustomText != "" {
				texts = append(texts, sel.CustomText)
			}
			continue
		}
		if label, ok := deliveryTermLabels[id]; ok {
			texts = append(texts, label.in(lang))
		}
	}
	return strings.Join(texts, "\n")
}

// ShippingTermDescription returns the description for an Incoterm or
// freight-payment code. An empty result is valid: it means no shipping
// term applies or the code is unknown.
func ShippingTermDescription(code string, lang Language) string {
	if code == "" {
		return ""
	}
	if d, ok := incotermDescriptions[code]; ok {
		return d.in(lang)
	}
	if d, ok := freightDescriptions[code]; ok {
		return d.in(lang)
	}
	return ""
}

// ShippingTermOption builds the dropdown text for a shipping-term
// code ("CIF — Navlun ve Sigorta Dahil"). Unmapped codes fall back to
// the raw code.
func ShippingTermOption(code string, lang Language) string {
	if l, ok := incotermLabels[code]; ok {
		return code + " — " + l.in(lang)
	}
	if l, ok := freightLabels[code]; ok {
		return l.in(lang)
	}
	return code
}
