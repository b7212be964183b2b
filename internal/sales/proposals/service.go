package proposals

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quotedesk/quotedesk/internal/platform/httpx"
	"github.com/quotedesk/quotedesk/internal/pricing"
	"github.com/quotedesk/quotedesk/internal/sales/quotations"
	"github.com/quotedesk/quotedesk/internal/terms"
)

// QuotationCreator turns an accepted proposal into a numbered
// quotation document.
type QuotationCreator interface {
	Create(ctx context.Context, req quotations.CreateQuotationRequest) (*quotations.Quotation, error)
}

type Service struct {
	repo       Repository
	customers  quotations.CustomerDirectory
	quotations QuotationCreator
}

func NewService(repo Repository, customers quotations.CustomerDirectory, qc QuotationCreator) *Service {
	return &Service{repo: repo, customers: customers, quotations: qc}
}

func (s *Service) Get(ctx context.Context, id string) (*Proposal, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status string) ([]Proposal, error) {
	return s.repo.List(ctx, status)
}

func (s *Service) Create(ctx context.Context, req CreateProposalRequest) (*Proposal, error) {
	p, err := s.buildBody(ctx, req)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.Status = StatusDraft

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}
	return s.repo.Get(ctx, p.ID)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateProposalRequest) (*Proposal, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusDraft && existing.Status != StatusPending {
		return nil, fmt.Errorf("%w: only draft or pending proposals can be edited", httpx.ErrConflict)
	}

	p, err := s.buildBody(ctx, req)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.Status = existing.Status

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update proposal: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// buildBody recomputes totals from the submitted items. A draft may
// carry an overspending discount while being authored; totals for the
// offending currency are simply absent until it is corrected, and
// submission is where the hard rejection happens.
func (s *Service) buildBody(ctx context.Context, req CreateProposalRequest) (*Proposal, error) {
	lang := terms.Language(req.Language)
	if lang == "" {
		lang = terms.Turkish
	}

	items := make([]quotations.LineItem, len(req.Items))
	for i, in := range req.Items {
		item := quotations.LineItem{
			Source:      quotations.ItemSource(in.Source),
			ProductID:   in.ProductID,
			VariantID:   in.VariantID,
			Description: in.Description,
			Note:        in.Note,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			Currency:    in.Currency,
			UnitPrice:   in.UnitPrice,
			CostPrice:   in.CostPrice,
			MarkupMode:  pricing.MarkupMode(in.MarkupMode),
			MarkupValue: in.MarkupValue,
			Optional:    in.Optional,
		}
		item.UnitPrice = pricing.ApplyMarkup(item.UnitPrice, item.CostPrice, item.MarkupMode, item.MarkupValue)
		item.LineTotal = pricing.Round2(pricing.LineTotal(item.Quantity, item.UnitPrice))
		items[i] = item
	}

	discount := s.discountOf(req)
	totals, err := pricing.ComputeTotals(quotations.PricingItems(items), discount)
	if err != nil {
		totals = pricing.Totals{}
	}

	customerName, err := s.customers.CustomerName(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	return &Proposal{
		Type:             quotations.QuotationType(req.Type),
		CustomerID:       req.CustomerID,
		CustomerName:     customerName,
		Subject:          req.Subject,
		Language:         lang,
		Items:            items,
		DiscountType:     string(discount.Type),
		DiscountValue:    discount.Value,
		DiscountCurrency: discount.Currency,
		Totals:           totals,
		Note:             req.Note,
	}, nil
}

func (s *Service) discountOf(req CreateProposalRequest) pricing.Discount {
	d := pricing.Discount{
		Type:     pricing.DiscountType(req.DiscountType),
		Value:    req.DiscountValue,
		Currency: req.DiscountCurrency,
	}
	if d.Type == "" {
		d.Type = pricing.DiscountNone
	}
	return d
}

// Submit moves a draft to pending. This is the point where the full
// submission validation runs: required fields, discount overspend
// rejection and the high-percentage confirmation gate.
func (s *Service) Submit(ctx context.Context, id string, req SubmitProposalRequest) (*Proposal, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be submitted", httpx.ErrConflict)
	}
	if len(p.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", httpx.ErrValidation)
	}

	discount := pricing.Discount{
		Type:     pricing.DiscountType(p.DiscountType),
		Value:    p.DiscountValue,
		Currency: p.DiscountCurrency,
	}
	check := pricing.ValidateDiscount(quotations.PricingItems(p.Items), discount)
	switch check.Verdict {
	case pricing.DiscountRejected:
		return nil, &pricing.InvalidDiscountError{
			Currency:       check.Currency,
			Subtotal:       check.Subtotal,
			DiscountAmount: check.DiscountAmount,
		}
	case pricing.DiscountNeedsConfirmation:
		if !req.ConfirmDiscount {
			return nil, &quotations.ConfirmationRequiredError{Check: check}
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, map[string]interface{}{"status": StatusPending}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id string, req SetProposalStatusRequest) (*Proposal, error) {
	if req.Status == StatusRejected && req.RejectReason == "" {
		return nil, fmt.Errorf("%w: rejection requires a reason", httpx.ErrValidation)
	}

	updates := map[string]interface{}{
		"status":        req.Status,
		"reject_reason": "",
	}
	if req.Status == StatusRejected {
		updates["reject_reason"] = req.RejectReason
	}
	if err := s.repo.UpdateStatus(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Convert creates a quotation from a non-draft proposal and links the
// two. The discount was already confirmed at submission, so the
// quotation create carries the confirmation flag.
func (s *Service) Convert(ctx context.Context, id string) (*quotations.Quotation, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == StatusDraft {
		return nil, fmt.Errorf("%w: submit the proposal before converting it", httpx.ErrConflict)
	}
	if p.QuotationID != "" {
		return nil, fmt.Errorf("%w: proposal already converted", httpx.ErrConflict)
	}

	req := quotations.CreateQuotationRequest{
		Type:             string(p.Type),
		CustomerID:       p.CustomerID,
		Subject:          p.Subject,
		Language:         string(p.Language),
		Items:            make([]quotations.LineItemInput, len(p.Items)),
		DiscountType:     p.DiscountType,
		DiscountValue:    p.DiscountValue,
		DiscountCurrency: p.DiscountCurrency,
		Note:             p.Note,
		ConfirmDiscount:  true,
	}
	for i, it := range p.Items {
		req.Items[i] = quotations.LineItemInput{
			Source:      string(it.Source),
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Description: it.Description,
			Note:        it.Note,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Currency:    it.Currency,
			UnitPrice:   it.UnitPrice,
			CostPrice:   it.CostPrice,
			MarkupMode:  string(it.MarkupMode),
			MarkupValue: it.MarkupValue,
			Optional:    it.Optional,
		}
	}

	q, err := s.quotations.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("convert proposal: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, id, map[string]interface{}{"quotation_id": q.ID}); err != nil {
		return nil, err
	}
	return q, nil
}
