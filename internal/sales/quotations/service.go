package quotations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quotedesk/quotedesk/internal/platform/httpx"
	"github.com/quotedesk/quotedesk/internal/pricing"
	"github.com/quotedesk/quotedesk/internal/terms"
)

// CustomerDirectory resolves the customer snapshot fields stamped onto
// a quotation at save time.
type CustomerDirectory interface {
	CustomerName(ctx context.Context, id string) (string, error)
}

// StockChange identifies a catalog line and the quantity it moves.
type StockChange struct {
	ProductID string
	VariantID string
	Quantity  float64
}

// StockKeeper is the inventory collaborator. Accepting a quotation
// reserves stock, leaving accepted releases it; delivery consumes the
// reservation and reverting a delivery puts it back.
type StockKeeper interface {
	Reserve(ctx context.Context, changes []StockChange) error
	Release(ctx context.Context, changes []StockChange) error
	Commit(ctx context.Context, changes []StockChange) error
	Restore(ctx context.Context, changes []StockChange) error
}

// ConfirmationRequiredError signals a percentage discount above the
// soft threshold submitted without the explicit confirmation flag.
// It is a gate, not a hard failure: resubmitting with the flag set
// succeeds unchanged.
type ConfirmationRequiredError struct {
	Check pricing.DiscountCheck
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("discount of %.2f %s on subtotal %.2f requires confirmation",
		e.Check.DiscountAmount, e.Check.Currency, e.Check.Subtotal)
}

type Service struct {
	repo      Repository
	customers CustomerDirectory
	stock     StockKeeper
}

func NewService(repo Repository, customers CustomerDirectory, stock StockKeeper) *Service {
	return &Service{repo: repo, customers: customers, stock: stock}
}

func (s *Service) Get(ctx context.Context, id string) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Quotation, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) ListRevisions(ctx context.Context, groupID string) ([]Quotation, error) {
	return s.repo.ListRevisions(ctx, groupID)
}

func (s *Service) Create(ctx context.Context, req CreateQuotationRequest) (*Quotation, error) {
	q, err := s.buildDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	q.ID = uuid.NewString()
	q.RevisionGroupID = uuid.NewString()
	q.Status = StatusPending
	if q.QuoteDate.IsZero() {
		q.QuoteDate = time.Now()
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	return s.repo.Get(ctx, q.ID)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateQuotationRequest) (*Quotation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	q, err := s.buildDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	// Identity, numbering and lifecycle fields are never rewritten by
	// an edit; the request replaces the document body only.
	q.ID = existing.ID
	q.QuoteNo = existing.QuoteNo
	q.BaseQuoteNo = existing.BaseQuoteNo
	q.RevisionNo = existing.RevisionNo
	q.RevisionGroupID = existing.RevisionGroupID
	q.Status = existing.Status
	if q.QuoteDate.IsZero() {
		q.QuoteDate = existing.QuoteDate
	}

	if err := s.repo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if q.Status == StatusAccepted {
		if err := s.stock.Release(ctx, stockChanges(q.Items)); err != nil {
			return fmt.Errorf("release stock: %w", err)
		}
	}
	return s.repo.Delete(ctx, id)
}

// buildDocument validates the submission and derives everything the
// client is not trusted to send: markup-derived prices, line totals,
// per-currency totals and generated terms text. All validation runs
// before any write.
func (s *Service) buildDocument(ctx context.Context, req CreateQuotationRequest) (*Quotation, error) {
	lang := terms.Language(req.Language)
	if lang == "" {
		lang = terms.Turkish
	}

	items := make([]LineItem, len(req.Items))
	for i, in := range req.Items {
		item := LineItem{
			Source:      ItemSource(in.Source),
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

	discount := pricing.Discount{
		Type:     pricing.DiscountType(req.DiscountType),
		Value:    req.DiscountValue,
		Currency: req.DiscountCurrency,
	}
	if discount.Type == "" {
		discount.Type = pricing.DiscountNone
	}

	check := pricing.ValidateDiscount(PricingItems(items), discount)
	switch check.Verdict {
	case pricing.DiscountRejected:
		return nil, &pricing.InvalidDiscountError{
			Currency:       check.Currency,
			Subtotal:       check.Subtotal,
			DiscountAmount: check.DiscountAmount,
		}
	case pricing.DiscountNeedsConfirmation:
		if !req.ConfirmDiscount {
			return nil, &ConfirmationRequiredError{Check: check}
		}
	}

	totals, err := pricing.ComputeTotals(PricingItems(items), discount)
	if err != nil {
		return nil, err
	}

	customerName, err := s.customers.CustomerName(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	q := &Quotation{
		Type:             QuotationType(req.Type),
		CustomerID:       req.CustomerID,
		CustomerName:     customerName,
		RepresentativeID: req.RepresentativeID,
		Subject:          req.Subject,
		Language:         lang,
		QuoteDate:        req.QuoteDate,
		ValidityDays:     req.ValidityDays,
		Items:            items,
		DiscountType:     string(discount.Type),
		DiscountValue:    discount.Value,
		DiscountCurrency: discount.Currency,
		Totals:           totals,
		IsInternational:  req.IsInternational,
		ImportCostAmount: req.ImportCostAmount,
		ImportCostCurr:   req.ImportCostCurr,
		Note:             req.Note,
		Terms: TermsBlock{
			Payment:          req.Terms.Payment,
			PaymentText:      terms.PaymentText(req.Terms.Payment, lang),
			DeliveryTime:     req.Terms.DeliveryTime,
			DeliveryTimeText: terms.DeliveryTimeText(req.Terms.DeliveryTime, lang),
			Delivery:         req.Terms.Delivery,
			DeliveryText:     terms.DeliveryTermsText(req.Terms.Delivery, lang),
			ShippingTerm:     req.Terms.ShippingTerm,
			ShippingTermText: terms.ShippingTermDescription(req.Terms.ShippingTerm, lang),
		},
	}
	return q, nil
}

// SetStatus moves the quotation between pending, accepted and
// rejected. Entering rejected requires a reason; entering accepted
// reserves stock and leaving it releases the reservation.
func (s *Service) SetStatus(ctx context.Context, id string, req SetStatusRequest) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == StatusRejected && req.RejectReason == "" {
		return nil, fmt.Errorf("%w: rejection requires a reason", httpx.ErrValidation)
	}
	if q.Delivered && req.Status != StatusAccepted {
		return nil, fmt.Errorf("%w: revert the delivery before leaving accepted", httpx.ErrConflict)
	}

	changes := stockChanges(q.Items)
	if req.Status == StatusAccepted && q.Status != StatusAccepted {
		if err := s.stock.Reserve(ctx, changes); err != nil {
			return nil, fmt.Errorf("reserve stock: %w", err)
		}
	}
	if req.Status != StatusAccepted && q.Status == StatusAccepted {
		if err := s.stock.Release(ctx, changes); err != nil {
			return nil, fmt.Errorf("release stock: %w", err)
		}
	}

	updates := map[string]interface{}{
		"status":        req.Status,
		"reject_reason": "",
		"invoice_no":    "",
	}
	if req.Status == StatusRejected {
		updates["reject_reason"] = req.RejectReason
	}
	if req.Status == StatusAccepted {
		updates["invoice_no"] = req.InvoiceNo
	}
	if err := s.repo.UpdateStatus(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Deliver marks an accepted quotation as delivered, consuming the
// stock reservation.
func (s *Service) Deliver(ctx context.Context, id string) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusAccepted {
		return nil, fmt.Errorf("%w: only accepted quotations can be delivered", httpx.ErrConflict)
	}
	if q.Delivered {
		return nil, fmt.Errorf("%w: quotation already delivered", httpx.ErrConflict)
	}

	if err := s.stock.Commit(ctx, stockChanges(q.Items)); err != nil {
		return nil, fmt.Errorf("commit stock: %w", err)
	}

	now := time.Now()
	err = s.repo.UpdateStatus(ctx, id, map[string]interface{}{
		"delivered":    true,
		"delivered_at": now,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// RevertDelivery undoes a delivery, returning the stock to its
// reserved state.
func (s *Service) RevertDelivery(ctx context.Context, id string) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Delivered {
		return nil, fmt.Errorf("%w: quotation is not delivered", httpx.ErrConflict)
	}

	if err := s.stock.Restore(ctx, stockChanges(q.Items)); err != nil {
		return nil, fmt.Errorf("restore stock: %w", err)
	}

	err = s.repo.UpdateStatus(ctx, id, map[string]interface{}{
		"delivered":    false,
		"delivered_at": nil,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Revise duplicates the quotation as the next revision in its group,
// back in pending status with lifecycle fields cleared.
func (s *Service) Revise(ctx context.Context, id string) (*Quotation, error) {
	orig, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	siblings, err := s.repo.ListRevisions(ctx, orig.RevisionGroupID)
	if err != nil {
		return nil, err
	}
	next := 0
	for _, sib := range siblings {
		if sib.RevisionNo > next {
			next = sib.RevisionNo
		}
	}
	next++

	rev := *orig
	rev.ID = uuid.NewString()
	rev.RevisionNo = next
	rev.QuoteNo = RevisionQuoteNo(orig.BaseQuoteNo, next)
	rev.Status = StatusPending
	rev.RejectReason = ""
	rev.InvoiceNo = ""
	rev.Delivered = false
	rev.DeliveredAt = nil
	rev.QuoteDate = time.Now()

	if err := s.repo.Create(ctx, &rev); err != nil {
		return nil, fmt.Errorf("create revision: %w", err)
	}
	return s.repo.Get(ctx, rev.ID)
}

// stockChanges collects the catalog-backed, non-optional lines that
// move inventory.
func stockChanges(items []LineItem) []StockChange {
	var out []StockChange
	for _, it := range items {
		if it.Optional || it.ProductID == "" {
			continue
		}
		out = append(out, StockChange{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}
	return out
}
