// Package quotations implements quotation documents: numbered,
// revisable offers with priced line items, per-currency totals,
// generated terms text and a simple status lifecycle.
package quotations

import (
	"time"

	"github.com/quotedesk/quotedesk/internal/pricing"
	"github.com/quotedesk/quotedesk/internal/terms"
)

// QuotationType distinguishes sales offers from service offers; cost
// reports filter on it.
type QuotationType string

const (
	TypeSales   QuotationType = "sales"
	TypeService QuotationType = "service"
)

// Offer status values. Transitions are user-triggered and
// unconditional between any two states, except rejected requires a
// reason and accepted may carry an invoice number.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// ItemSource tags where a line item's identity comes from.
type ItemSource string

const (
	SourceManual  ItemSource = "manual"
	SourceProduct ItemSource = "product"
	SourceVariant ItemSource = "variant"
)

// LineItem is one priced row of a quotation. ProductID and VariantID
// are provenance only; description, price and currency are snapshotted
// on the item so the document survives catalog edits.
type LineItem struct {
	Source      ItemSource         `json:"source"`
	ProductID   string             `json:"product_id,omitempty"`
	VariantID   string             `json:"variant_id,omitempty"`
	Description string             `json:"description"`
	Note        string             `json:"note,omitempty"`
	Quantity    float64            `json:"quantity"`
	Unit        string             `json:"unit"`
	Currency    string             `json:"currency"`
	UnitPrice   float64            `json:"unit_price"`
	CostPrice   float64            `json:"cost_price,omitempty"`
	MarkupMode  pricing.MarkupMode `json:"markup_mode,omitempty"`
	MarkupValue float64            `json:"markup_value,omitempty"`
	Optional    bool               `json:"is_optional"`
	LineTotal   float64            `json:"line_total"`
}

// TermsBlock holds both the structured selections and the display
// text generated from them at save time. The text is persisted so a
// historical quotation keeps its wording even if catalog labels
// change later.
type TermsBlock struct {
	Payment          terms.PaymentSelection       `json:"payment"`
	PaymentText      string                       `json:"payment_text"`
	DeliveryTime     terms.DeliveryTimeSelection  `json:"delivery_time"`
	DeliveryTimeText string                       `json:"delivery_time_text"`
	Delivery         terms.DeliveryTermsSelection `json:"delivery"`
	DeliveryText     string                       `json:"delivery_text"`
	ShippingTerm     string                       `json:"shipping_term,omitempty"`
	ShippingTermText string                       `json:"shipping_term_text,omitempty"`
}

type Quotation struct {
	ID               string          `json:"id"`
	QuoteNo          string          `json:"quote_no"`
	BaseQuoteNo      string          `json:"base_quote_no"`
	RevisionNo       int             `json:"revision_no"`
	RevisionGroupID  string          `json:"revision_group_id"`
	Type             QuotationType   `json:"type"`
	CustomerID       string          `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	RepresentativeID string          `json:"representative_id,omitempty"`
	Subject          string          `json:"subject"`
	Language         terms.Language  `json:"language"`
	QuoteDate        time.Time       `json:"quote_date"`
	ValidityDays     int             `json:"validity_days"`
	Items            []LineItem      `json:"items"`
	DiscountType     string          `json:"discount_type"`
	DiscountValue    float64         `json:"discount_value"`
	DiscountCurrency string          `json:"discount_currency,omitempty"`
	Totals           pricing.Totals  `json:"totals_by_currency"`
	Terms            TermsBlock      `json:"terms"`
	IsInternational  bool            `json:"is_international"`
	ImportCostAmount float64         `json:"import_cost_amount,omitempty"`
	ImportCostCurr   string          `json:"import_cost_currency,omitempty"`
	Status           string          `json:"status"`
	RejectReason     string          `json:"reject_reason,omitempty"`
	InvoiceNo        string          `json:"invoice_no,omitempty"`
	Delivered        bool            `json:"delivered"`
	DeliveredAt      *time.Time      `json:"delivered_at,omitempty"`
	Note             string          `json:"note,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Discount converts the persisted discount fields into the pricing
// package's value type.
func (q *Quotation) Discount() pricing.Discount {
	return pricing.Discount{
		Type:     pricing.DiscountType(q.DiscountType),
		Value:    q.DiscountValue,
		Currency: q.DiscountCurrency,
	}
}

// PricingItems projects the line items into the aggregator's input.
func PricingItems(items []LineItem) []pricing.Item {
	out := make([]pricing.Item, len(items))
	for i, it := range items {
		out[i] = pricing.Item{
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Currency:  it.Currency,
			Optional:  it.Optional,
		}
	}
	return out
}
