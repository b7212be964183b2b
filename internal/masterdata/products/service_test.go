package products

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	products map[string]*Product
	groups   map[string]*Group
	history  map[string][]PriceEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[string]*Product{},
		groups:   map[string]*Group{},
		history:  map[string][]PriceEntry{},
	}
}

func (f *fakeRepo) Get(_ context.Context, id string) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, req ListProductsRequest) ([]Product, error) {
	var out []Product
	for _, p := range f.products {
		if req.Type != "" && string(p.Type) != req.Type {
			continue
		}
		if req.GroupID != "" && p.GroupID != req.GroupID {
			continue
		}
		if req.IsActive != nil && p.IsActive != *req.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, p Product) error {
	f.products[p.ID] = &p
	return nil
}

func (f *fakeRepo) Update(_ context.Context, id string, updates map[string]interface{}) error {
	p, ok := f.products[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := updates["unit_price"]; ok {
		p.UnitPrice = v.(float64)
	}
	if v, ok := updates["group_id"]; ok {
		if v == nil {
			p.GroupID = ""
		} else {
			p.GroupID = v.(string)
		}
	}
	if v, ok := updates["variants"]; ok {
		var variants []Variant
		if err := json.Unmarshal(v.([]byte), &variants); err != nil {
			return err
		}
		p.Variants = variants
	}
	if v, ok := updates["is_active"]; ok {
		p.IsActive = v.(bool)
	}
	return nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id string) error {
	p, ok := f.products[id]
	if !ok {
		return ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (f *fakeRepo) GetGroup(_ context.Context, id string) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeRepo) ListGroups(_ context.Context) ([]Group, error) {
	var out []Group
	for _, g := range f.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeRepo) CreateGroup(_ context.Context, g Group) error {
	f.groups[g.ID] = &g
	return nil
}

func (f *fakeRepo) UpdateGroup(_ context.Context, id string, updates map[string]interface{}) error {
	g, ok := f.groups[id]
	if !ok {
		return ErrGroupNotFound
	}
	if v, ok := updates["name"]; ok {
		g.Name = v.(string)
	}
	if v, ok := updates["sort_order"]; ok {
		g.SortOrder = v.(int)
	}
	return nil
}

func (f *fakeRepo) DeleteGroup(_ context.Context, id string) error {
	if _, ok := f.groups[id]; !ok {
		return ErrGroupNotFound
	}
	delete(f.groups, id)
	for _, p := range f.products {
		if p.GroupID == id {
			p.GroupID = ""
		}
	}
	return nil
}

func (f *fakeRepo) AssignGroup(_ context.Context, groupID string, productIDs []string) error {
	for _, id := range productIDs {
		if p, ok := f.products[id]; ok {
			p.GroupID = groupID
		}
	}
	return nil
}

func (f *fakeRepo) PriceHistory(_ context.Context, productID string, limit int) ([]PriceEntry, error) {
	entries := f.history[productID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func TestCreateAssignsVariantIDs(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name: "Gear pump", Type: "sales", Unit: "pcs", Currency: "EUR", UnitPrice: 250,
		Variants: []VariantInput{
			{Name: "GP-10", UnitPrice: 250},
			{Name: "GP-20", UnitPrice: 310},
		},
	})
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)
	assert.NotEmpty(t, p.Variants[0].ID)
	assert.NotEmpty(t, p.Variants[1].ID)
	assert.NotEqual(t, p.Variants[0].ID, p.Variants[1].ID)
	assert.True(t, p.IsActive)
}

func TestUpdateKeepsExistingVariantIDs(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name: "Gear pump", Type: "sales", Unit: "pcs", Currency: "EUR", UnitPrice: 250,
		Variants: []VariantInput{{Name: "GP-10", UnitPrice: 250}},
	})
	require.NoError(t, err)
	keep := p.Variants[0].ID

	updated, err := svc.Update(context.Background(), p.ID, UpdateProductRequest{
		Variants: &[]VariantInput{
			{ID: keep, Name: "GP-10", UnitPrice: 275},
			{Name: "GP-30", UnitPrice: 400},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Variants, 2)
	assert.Equal(t, keep, updated.Variants[0].ID)
	assert.Equal(t, 275.0, updated.Variants[0].UnitPrice)
	assert.NotEmpty(t, updated.Variants[1].ID)
}

func TestAssignGroupVerifiesGroupExists(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name: "Bearing", Type: "sales", Unit: "pcs", Currency: "TRY", UnitPrice: 90,
	})
	require.NoError(t, err)

	err = svc.AssignGroup(context.Background(), AssignGroupRequest{
		GroupID: "019c2cf4-2f43-4bc1-a2cc-57b6cf0a2b10", ProductIDs: []string{p.ID},
	})
	require.ErrorIs(t, err, ErrGroupNotFound)

	g, err := svc.CreateGroup(context.Background(), CreateGroupRequest{Name: "Hydraulics", SortOrder: 1})
	require.NoError(t, err)

	err = svc.AssignGroup(context.Background(), AssignGroupRequest{
		GroupID: g.ID, ProductIDs: []string{p.ID},
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.GroupID)
}

func TestPriceHistoryDefaultsLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name: "Coupling", Type: "sales", Unit: "pcs", Currency: "EUR", UnitPrice: 40,
	})
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		repo.history[p.ID] = append(repo.history[p.ID], PriceEntry{
			QuotationID: "q", UnitPrice: float64(40 + i), Currency: "EUR",
		})
	}

	entries, err := svc.PriceHistory(context.Background(), p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, defaultPriceHistoryLimit)
}
