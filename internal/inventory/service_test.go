package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotedesk/internal/sales/quotations"
)

type fakeRepo struct {
	items map[[2]string]*StockItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[[2]string]*StockItem{}}
}

func (f *fakeRepo) Get(_ context.Context, productID, variantID string) (*StockItem, error) {
	item, ok := f.items[[2]string{productID, variantID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context) ([]StockItem, error) {
	var out []StockItem
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeRepo) Apply(_ context.Context, productID, variantID string, onHandDelta, reservedDelta float64) error {
	key := [2]string{productID, variantID}
	item, ok := f.items[key]
	if !ok {
		item = &StockItem{ProductID: productID, VariantID: variantID}
		f.items[key] = item
	}
	item.OnHand += onHandDelta
	item.Reserved += reservedDelta
	item.UpdatedAt = time.Now()
	return nil
}

func TestReserveCommitLifecycle(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Adjust(ctx, AdjustStockRequest{ProductID: "p1", Delta: 10})
	require.NoError(t, err)

	changes := []quotations.StockChange{{ProductID: "p1", Quantity: 4}}
	require.NoError(t, svc.Reserve(ctx, changes))

	item, err := svc.Get(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.OnHand)
	assert.Equal(t, 4.0, item.Reserved)
	assert.Equal(t, 6.0, item.Available())

	require.NoError(t, svc.Commit(ctx, changes))
	item, err = svc.Get(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 6.0, item.OnHand)
	assert.Zero(t, item.Reserved)

	require.NoError(t, svc.Restore(ctx, changes))
	item, err = svc.Get(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.OnHand)
	assert.Equal(t, 4.0, item.Reserved)

	require.NoError(t, svc.Release(ctx, changes))
	item, err = svc.Get(ctx, "p1", "")
	require.NoError(t, err)
	assert.Zero(t, item.Reserved)
}

func TestReservationMayExceedStock(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, []quotations.StockChange{
		{ProductID: "p2", VariantID: "v1", Quantity: 3},
	}))

	item, err := svc.Get(ctx, "p2", "v1")
	require.NoError(t, err)
	assert.Equal(t, -3.0, item.Available(), "goods can be promised before they are bought")
}

func TestVariantsTrackSeparately(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Adjust(ctx, AdjustStockRequest{ProductID: "p1", VariantID: "v1", Delta: 5})
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, AdjustStockRequest{ProductID: "p1", VariantID: "v2", Delta: 8})
	require.NoError(t, err)

	v1, err := svc.Get(ctx, "p1", "v1")
	require.NoError(t, err)
	v2, err := svc.Get(ctx, "p1", "v2")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v1.OnHand)
	assert.Equal(t, 8.0, v2.OnHand)
}
