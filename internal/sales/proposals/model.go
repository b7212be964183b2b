// Package proposals implements the lightweight authoring entity that
// precedes a quotation: it shares the quotation's line-item pricing
// but adds a draft predecessor status and can be converted into a
// numbered quotation.
package proposals

import (
	"time"

	"github.com/quotedesk/quotedesk/internal/pricing"
	"github.com/quotedesk/quotedesk/internal/sales/quotations"
	"github.com/quotedesk/quotedesk/internal/terms"
)

const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type Proposal struct {
	ID               string                   `json:"id"`
	Type             quotations.QuotationType `json:"type"`
	CustomerID       string                   `json:"customer_id"`
	CustomerName     string                   `json:"customer_name"`
	Subject          string                   `json:"subject"`
	Language         terms.Language           `json:"language"`
	Items            []quotations.LineItem    `json:"items"`
	DiscountType     string                   `json:"discount_type"`
	DiscountValue    float64                  `json:"discount_value"`
	DiscountCurrency string                   `json:"discount_currency,omitempty"`
	Totals           pricing.Totals           `json:"totals_by_currency"`
	Status           string                   `json:"status"`
	RejectReason     string                   `json:"reject_reason,omitempty"`
	Note             string                   `json:"note,omitempty"`
	QuotationID      string                   `json:"quotation_id,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

type CreateProposalRequest struct {
	Type             string                     `json:"type" validate:"required,oneof=sales service"`
	CustomerID       string                     `json:"customer_id" validate:"required,uuid4"`
	Subject          string                     `json:"subject" validate:"required,max=300"`
	Language         string                     `json:"language" validate:"omitempty,oneof=turkish english"`
	Items            []quotations.LineItemInput `json:"items" validate:"dive"`
	DiscountType     string                     `json:"discount_type,omitempty" validate:"omitempty,oneof=none percent fixed"`
	DiscountValue    float64                    `json:"discount_value,omitempty" validate:"gte=0"`
	DiscountCurrency string                     `json:"discount_currency,omitempty" validate:"omitempty,len=3"`
	Note             string                     `json:"note,omitempty" validate:"max=2000"`
}

// UpdateProposalRequest replaces the editable body in full, like a
// quotation edit.
type UpdateProposalRequest = CreateProposalRequest

// SubmitProposalRequest moves a draft to pending. The confirmation
// flag acknowledges a percentage discount over the soft threshold.
type SubmitProposalRequest struct {
	ConfirmDiscount bool `json:"confirm_discount"`
}

type SetProposalStatusRequest struct {
	Status       string `json:"status" validate:"required,oneof=draft pending accepted rejected"`
	RejectReason string `json:"reject_reason,omitempty" validate:"max=500"`
}
