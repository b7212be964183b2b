package proposals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotedesk/internal/pricing"
	"github.com/quotedesk/quotedesk/internal/sales/quotations"
)

type fakeRepo struct {
	byID map[string]*Proposal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*Proposal{}}
}

func (f *fakeRepo) Get(_ context.Context, id string) (*Proposal, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, status string) ([]Proposal, error) {
	var out []Proposal
	for _, p := range f.byID {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, p *Proposal) error {
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, p *Proposal) error {
	if _, ok := f.byID[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, updates map[string]interface{}) error {
	p, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["status"]; ok {
		p.Status = v.(string)
	}
	if v, ok := updates["reject_reason"]; ok {
		p.RejectReason = v.(string)
	}
	if v, ok := updates["quotation_id"]; ok {
		p.QuotationID = v.(string)
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

func (fakeDirectory) CustomerName(_ context.Context, _ string) (string, error) {
	return "Beta Endüstri", nil
}

type fakeQuotations struct {
	created []quotations.CreateQuotationRequest
}

func (f *fakeQuotations) Create(_ context.Context, req quotations.CreateQuotationRequest) (*quotations.Quotation, error) {
	f.created = append(f.created, req)
	return &quotations.Quotation{ID: "q-1", QuoteNo: "Q-240515-001", Subject: req.Subject}, nil
}

func newTestService() (*Service, *fakeQuotations) {
	qc := &fakeQuotations{}
	return NewService(newFakeRepo(), fakeDirectory{}, qc), qc
}

func draftRequest() CreateProposalRequest {
	return CreateProposalRequest{
		Type:       "sales",
		CustomerID: "4dfd7f06-42cb-4cf4-b6a1-6f2c0f9d5a11",
		Subject:    "Conveyor retrofit",
		Items: []quotations.LineItemInput{
			{Source: "manual", Description: "Drive roller", Quantity: 4, Unit: "pcs", Currency: "EUR", UnitPrice: 75},
		},
	}
}

func TestCreateStartsAsDraft(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), draftRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, p.Status)
	assert.Equal(t, "Beta Endüstri", p.CustomerName)
	assert.Equal(t, 300.0, p.Totals["EUR"].GrandTotal)
}

func TestDraftToleratesOverspendUntilSubmit(t *testing.T) {
	svc, _ := newTestService()

	req := draftRequest()
	req.DiscountType = "fixed"
	req.DiscountValue = 1000
	req.DiscountCurrency = "EUR"

	p, err := svc.Create(context.Background(), req)
	require.NoError(t, err, "drafts may be saved while the discount is still wrong")
	assert.Empty(t, p.Totals)

	_, err = svc.Submit(context.Background(), p.ID, SubmitProposalRequest{})
	var invalid *pricing.InvalidDiscountError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "EUR", invalid.Currency)
}

func TestSubmitRequiresLineItems(t *testing.T) {
	svc, _ := newTestService()

	req := draftRequest()
	req.Items = nil
	p, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), p.ID, SubmitProposalRequest{})
	require.Error(t, err)
}

func TestSubmitGatesHighDiscount(t *testing.T) {
	svc, _ := newTestService()

	req := draftRequest()
	req.DiscountType = "percent"
	req.DiscountValue = 20
	req.DiscountCurrency = "EUR"
	p, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), p.ID, SubmitProposalRequest{})
	var confirm *quotations.ConfirmationRequiredError
	require.ErrorAs(t, err, &confirm)

	submitted, err := svc.Submit(context.Background(), p.ID, SubmitProposalRequest{ConfirmDiscount: true})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, submitted.Status)
}

func TestConvertRequiresSubmission(t *testing.T) {
	svc, qc := newTestService()

	p, err := svc.Create(context.Background(), draftRequest())
	require.NoError(t, err)

	_, err = svc.Convert(context.Background(), p.ID)
	require.Error(t, err, "drafts cannot be converted")

	_, err = svc.Submit(context.Background(), p.ID, SubmitProposalRequest{})
	require.NoError(t, err)

	q, err := svc.Convert(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q-240515-001", q.QuoteNo)
	require.Len(t, qc.created, 1)
	assert.True(t, qc.created[0].ConfirmDiscount)

	_, err = svc.Convert(context.Background(), p.ID)
	require.Error(t, err, "a proposal converts once")
}
