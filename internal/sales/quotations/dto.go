package quotations

import (
	"time"

	"github.com/quotedesk/quotedesk/internal/terms"
)

// LineItemInput is the writable shape of a line item. Line totals are
// never accepted from the client; they are recomputed server-side.
type LineItemInput struct {
	Source      string  `json:"source" validate:"required,oneof=manual product variant"`
	ProductID   string  `json:"product_id,omitempty" validate:"omitempty,uuid4"`
	VariantID   string  `json:"variant_id,omitempty" validate:"omitempty,uuid4"`
	Description string  `json:"description" validate:"required,max=500"`
	Note        string  `json:"note,omitempty" validate:"max=500"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"required,max=20"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	CostPrice   float64 `json:"cost_price,omitempty" validate:"gte=0"`
	MarkupMode  string  `json:"markup_mode,omitempty" validate:"omitempty,oneof=percent fixed"`
	MarkupValue float64 `json:"markup_value,omitempty" validate:"gte=0"`
	Optional    bool    `json:"is_optional"`
}

// TermsInput carries the structured term selections; display text is
// generated server-side at save time.
type TermsInput struct {
	Payment      terms.PaymentSelection       `json:"payment"`
	DeliveryTime terms.DeliveryTimeSelection  `json:"delivery_time"`
	Delivery     terms.DeliveryTermsSelection `json:"delivery"`
	ShippingTerm string                       `json:"shipping_term,omitempty"`
}

type CreateQuotationRequest struct {
	Type             string          `json:"type" validate:"required,oneof=sales service"`
	CustomerID       string          `json:"customer_id" validate:"required,uuid4"`
	RepresentativeID string          `json:"representative_id,omitempty" validate:"omitempty,uuid4"`
	Subject          string          `json:"subject" validate:"required,max=300"`
	Language         string          `json:"language" validate:"omitempty,oneof=turkish english"`
	QuoteDate        time.Time       `json:"quote_date,omitempty"`
	ValidityDays     int             `json:"validity_days,omitempty" validate:"gte=0"`
	Items            []LineItemInput `json:"items" validate:"required,min=1,dive"`
	DiscountType     string          `json:"discount_type,omitempty" validate:"omitempty,oneof=none percent fixed"`
	DiscountValue    float64         `json:"discount_value,omitempty" validate:"gte=0"`
	DiscountCurrency string          `json:"discount_currency,omitempty" validate:"omitempty,len=3"`
	Terms            TermsInput      `json:"terms"`
	IsInternational  bool            `json:"is_international"`
	ImportCostAmount float64         `json:"import_cost_amount,omitempty" validate:"gte=0"`
	ImportCostCurr   string          `json:"import_cost_currency,omitempty" validate:"omitempty,len=3"`
	Note             string          `json:"note,omitempty" validate:"max=2000"`

	// ConfirmDiscount acknowledges a percentage discount above the
	// soft threshold. Without it such a submission is refused with a
	// needs-confirmation response.
	ConfirmDiscount bool `json:"confirm_discount"`
}

// UpdateQuotationRequest replaces the editable document in full;
// concurrent edits are last-full-write-wins.
type UpdateQuotationRequest = CreateQuotationRequest

type SetStatusRequest struct {
	Status       string `json:"status" validate:"required,oneof=pending accepted rejected"`
	RejectReason string `json:"reject_reason,omitempty" validate:"max=500"`
	InvoiceNo    string `json:"invoice_no,omitempty" validate:"max=100"`
}

// ListFilter narrows the quotation list.
type ListFilter struct {
	Status     string
	Type       string
	CustomerID string
	From       *time.Time
	To         *time.Time
}
