package customers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	customers map[string]*Customer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: make(map[string]*Customer)}
}

func (f *fakeRepo) Get(ctx context.Context, id string) (*Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var out []Customer
	for _, c := range f.customers {
		if req.IsActive != nil && c.IsActive != *req.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Create(ctx context.Context, c Customer) error {
	cp := c
	f.customers[c.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	c, ok := f.customers[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["contacts"]; ok {
		_ = json.Unmarshal(v.([]byte), &c.Contacts)
	}
	if v, ok := updates["is_active"]; ok {
		c.IsActive = v.(bool)
	}
	return nil
}

func (f *fakeRepo) Deactivate(ctx context.Context, id string) error {
	c, ok := f.customers[id]
	if !ok {
		return ErrNotFound
	}
	c.IsActive = false
	return nil
}

func TestCreateCustomerDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Aksa Makina"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Türkiye", c.Country)
	assert.True(t, c.IsActive)
	assert.NotNil(t, c.Contacts)
}

func TestUpdateCustomerPartial(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Old Name"})
	require.NoError(t, err)

	newName := "New Name"
	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, created.Country, updated.Country)
}

func TestDeactivateMissingCustomer(t *testing.T) {
	svc := NewService(newFakeRepo())
	err := svc.Deactivate(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrimaryContact(t *testing.T) {
	c := Customer{Contacts: []ContactPerson{
		{Name: "Ali"},
		{Name: "Ayşe", IsPrimary: true},
	}}
	require.NotNil(t, c.PrimaryContact())
	assert.Equal(t, "Ayşe", c.PrimaryContact().Name)

	c.Contacts[1].IsPrimary = false
	assert.Equal(t, "Ali", c.PrimaryContact().Name)

	empty := Customer{}
	assert.Nil(t, empty.PrimaryContact())
}
