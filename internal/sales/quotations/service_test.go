package quotations

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotedesk/internal/pricing"
)

type fakeRepo struct {
	byID map[string]*Quotation
	seq  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*Quotation{}}
}

func (f *fakeRepo) Get(_ context.Context, id string) (*Quotation, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]Quotation, error) {
	var out []Quotation
	for _, q := range f.byID {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && q.CustomerID != filter.CustomerID {
			continue
		}
		out = append(out, *q)
	}
	return out, nil
}

func (f *fakeRepo) ListRevisions(_ context.Context, groupID string) ([]Quotation, error) {
	var out []Quotation
	for _, q := range f.byID {
		if q.RevisionGroupID == groupID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, q *Quotation) error {
	if q.QuoteNo == "" {
		f.seq++
		q.QuoteNo = fmt.Sprintf("Q-%s-%03d", q.QuoteDate.Format("060102"), f.seq)
		q.BaseQuoteNo = q.QuoteNo
	}
	cp := *q
	f.byID[q.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, q *Quotation) error {
	if _, ok := f.byID[q.ID]; !ok {
		return ErrNotFound
	}
	cp := *q
	f.byID[q.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, updates map[string]interface{}) error {
	q, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["status"]; ok {
		q.Status = v.(string)
	}
	if v, ok := updates["reject_reason"]; ok {
		q.RejectReason = v.(string)
	}
	if v, ok := updates["invoice_no"]; ok {
		q.InvoiceNo = v.(string)
	}
	if v, ok := updates["delivered"]; ok {
		q.Delivered = v.(bool)
	}
	if v, ok := updates["delivered_at"]; ok {
		if v == nil {
			q.DeliveredAt = nil
		} else {
			t := v.(time.Time)
			q.DeliveredAt = &t
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeDirectory struct{}

func (fakeDirectory) CustomerName(_ context.Context, id string) (string, error) {
	if id == "missing" {
		return "", errors.New("customer not found")
	}
	return "Acme Makina", nil
}

type fakeStock struct {
	reserved []StockChange
	released []StockChange
	committed []StockChange
	restored []StockChange
}

func (f *fakeStock) Reserve(_ context.Context, c []StockChange) error {
	f.reserved = append(f.reserved, c...)
	return nil
}
func (f *fakeStock) Release(_ context.Context, c []StockChange) error {
	f.released = append(f.released, c...)
	return nil
}
func (f *fakeStock) Commit(_ context.Context, c []StockChange) error {
	f.committed = append(f.committed, c...)
	return nil
}
func (f *fakeStock) Restore(_ context.Context, c []StockChange) error {
	f.restored = append(f.restored, c...)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakeStock) {
	repo := newFakeRepo()
	stock := &fakeStock{}
	return NewService(repo, fakeDirectory{}, stock), repo, stock
}

func baseRequest() CreateQuotationRequest {
	return CreateQuotationRequest{
		Type:       "sales",
		CustomerID: "7f5ad90e-5f15-4c84-96dd-0ba4ae7a1f10",
		Subject:    "Hydraulic press spares",
		Language:   "english",
		Items: []LineItemInput{
			{Source: "manual", Description: "Seal kit", Quantity: 2, Unit: "pcs", Currency: "EUR", UnitPrice: 100},
			{Source: "manual", Description: "Spare valve", Quantity: 1, Unit: "pcs", Currency: "EUR", UnitPrice: 50, Optional: true},
		},
	}
}

func TestCreateComputesTotalsAndSnapshots(t *testing.T) {
	svc, _, _ := newTestService()

	q, err := svc.Create(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, q.Status)
	assert.Equal(t, "Acme Makina", q.CustomerName)
	assert.NotEmpty(t, q.QuoteNo)
	assert.Equal(t, q.QuoteNo, q.BaseQuoteNo)
	assert.Zero(t, q.RevisionNo)

	require.Contains(t, q.Totals, "EUR")
	assert.Equal(t, 200.0, q.Totals["EUR"].Subtotal)
	assert.Equal(t, 200.0, q.Totals["EUR"].GrandTotal)
	assert.Equal(t, 200.0, q.Items[0].LineTotal)
}

func TestCreateDerivesMarkupPrice(t *testing.T) {
	svc, _, _ := newTestService()

	req := baseRequest()
	req.Items = []LineItemInput{{
		Source: "manual", Description: "Machined shaft", Quantity: 1, Unit: "pcs",
		Currency: "USD", CostPrice: 400, MarkupMode: "percent", MarkupValue: 25,
	}}

	q, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 500.0, q.Items[0].UnitPrice)
	assert.Equal(t, 500.0, q.Totals["USD"].GrandTotal)
}

func TestCreateGeneratesTermsText(t *testing.T) {
	svc, _, _ := newTestService()

	req := baseRequest()
	req.Terms.Payment.Mode = "net_days"
	req.Terms.Payment.Days = 45

	q, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Net 45 days", q.Terms.PaymentText)
}

func TestCreateRejectsOverspendDiscount(t *testing.T) {
	svc, _, _ := newTestService()

	req := baseRequest()
	req.DiscountType = "fixed"
	req.DiscountValue = 500
	req.DiscountCurrency = "EUR"

	_, err := svc.Create(context.Background(), req)
	var invalid *pricing.InvalidDiscountError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "EUR", invalid.Currency)
	assert.Equal(t, 200.0, invalid.Subtotal)
	assert.Equal(t, 500.0, invalid.DiscountAmount)
}

func TestCreateHighDiscountNeedsConfirmation(t *testing.T) {
	svc, _, _ := newTestService()

	req := baseRequest()
	req.DiscountType = "percent"
	req.DiscountValue = 15
	req.DiscountCurrency = "EUR"

	_, err := svc.Create(context.Background(), req)
	var confirm *ConfirmationRequiredError
	require.ErrorAs(t, err, &confirm)
	assert.Equal(t, 30.0, confirm.Check.DiscountAmount)

	req.ConfirmDiscount = true
	q, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 30.0, q.Totals["EUR"].DiscountAmount)
	assert.Equal(t, 170.0, q.Totals["EUR"].GrandTotal)
}

func TestSetStatusRejectedRequiresReason(t *testing.T) {
	svc, _, _ := newTestService()
	q, err := svc.Create(context.Background(), baseRequest())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), q.ID, SetStatusRequest{Status: StatusRejected})
	require.Error(t, err)

	rejected, err := svc.SetStatus(context.Background(), q.ID, SetStatusRequest{
		Status: StatusRejected, RejectReason: "price too high",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, "price too high", rejected.RejectReason)
}

func TestAcceptReservesAndLeavingReleasesStock(t *testing.T) {
	svc, _, stock := newTestService()

	req := baseRequest()
	req.Items = append(req.Items, LineItemInput{
		Source: "product", ProductID: "9d40a3fb-9e0e-4bfa-9c30-09f5c27e7c27",
		Description: "Gear pump", Quantity: 3, Unit: "pcs", Currency: "EUR", UnitPrice: 250,
	})
	q, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	accepted, err := svc.SetStatus(context.Background(), q.ID, SetStatusRequest{
		Status: StatusAccepted, InvoiceNo: "INV-2024-017",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-017", accepted.InvoiceNo)
	require.Len(t, stock.reserved, 1)
	assert.Equal(t, 3.0, stock.reserved[0].Quantity)

	_, err = svc.SetStatus(context.Background(), q.ID, SetStatusRequest{Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, stock.released, 1)
}

func TestDeliverLifecycle(t *testing.T) {
	svc, _, stock := newTestService()

	req := baseRequest()
	req.Items[0].Source = "product"
	req.Items[0].ProductID = "2b6ff2a8-25b3-47de-9f3c-576a9c9a9f55"
	q, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Deliver(context.Background(), q.ID)
	require.Error(t, err, "pending quotations cannot be delivered")

	_, err = svc.SetStatus(context.Background(), q.ID, SetStatusRequest{Status: StatusAccepted})
	require.NoError(t, err)

	delivered, err := svc.Deliver(context.Background(), q.ID)
	require.NoError(t, err)
	assert.True(t, delivered.Delivered)
	require.NotNil(t, delivered.DeliveredAt)
	require.Len(t, stock.committed, 1)

	_, err = svc.SetStatus(context.Background(), q.ID, SetStatusRequest{Status: StatusPending})
	require.Error(t, err, "delivered quotations must be reverted first")

	reverted, err := svc.RevertDelivery(context.Background(), q.ID)
	require.NoError(t, err)
	assert.False(t, reverted.Delivered)
	assert.Nil(t, reverted.DeliveredAt)
	require.Len(t, stock.restored, 1)
}

func TestReviseCreatesNextRevision(t *testing.T) {
	svc, _, _ := newTestService()
	q, err := svc.Create(context.Background(), baseRequest())
	require.NoError(t, err)

	r1, err := svc.Revise(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, r1.RevisionNo)
	assert.Equal(t, q.BaseQuoteNo+"-R1", r1.QuoteNo)
	assert.Equal(t, q.RevisionGroupID, r1.RevisionGroupID)
	assert.Equal(t, StatusPending, r1.Status)

	r2, err := svc.Revise(context.Background(), r1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, r2.RevisionNo)
	assert.Equal(t, q.BaseQuoteNo+"-R2", r2.QuoteNo)

	revisions, err := svc.ListRevisions(context.Background(), q.RevisionGroupID)
	require.NoError(t, err)
	assert.Len(t, revisions, 3)
}

func TestOptionalItemsDoNotMoveStock(t *testing.T) {
	svc, _, stock := newTestService()

	req := baseRequest()
	req.Items[1].Source = "product"
	req.Items[1].ProductID = "de3cf2a9-8a56-4f2b-a0cc-3c1f6f2ce111"

	q, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), q.ID, SetStatusRequest{Status: StatusAccepted})
	require.NoError(t, err)
	assert.Empty(t, stock.reserved, "optional lines never reserve stock")
}
