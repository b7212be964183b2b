package products

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const defaultPriceHistoryLimit = 20

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	p := Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		ShortName:   req.ShortName,
		Type:        ProductType(req.Type),
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		Unit:        req.Unit,
		Currency:    req.Currency,
		UnitPrice:   req.UnitPrice,
		CostPrice:   req.CostPrice,
		GroupID:     req.GroupID,
		Variants:    buildVariants(req.Variants),
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.repo.Get(ctx, p.ID)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ShortName != nil {
		updates["short_name"] = *req.ShortName
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.GroupID != nil {
		if *req.GroupID == "" {
			updates["group_id"] = nil
		} else {
			updates["group_id"] = *req.GroupID
		}
	}
	if req.Variants != nil {
		variants, err := json.Marshal(buildVariants(*req.Variants))
		if err != nil {
			return nil, fmt.Errorf("marshal variants: %w", err)
		}
		updates["variants"] = variants
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) PriceHistory(ctx context.Context, productID string, limit int) ([]PriceEntry, error) {
	if limit <= 0 {
		limit = defaultPriceHistoryLimit
	}
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.PriceHistory(ctx, productID, limit)
}

func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	g := Group{ID: uuid.NewString(), Name: req.Name, SortOrder: req.SortOrder}
	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("create product group: %w", err)
	}
	return s.repo.GetGroup(ctx, g.ID)
}

func (s *Service) UpdateGroup(ctx context.Context, id string, req UpdateGroupRequest) (*Group, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateGroup(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	return s.repo.DeleteGroup(ctx, id)
}

func (s *Service) AssignGroup(ctx context.Context, req AssignGroupRequest) error {
	if req.GroupID != "" {
		if _, err := s.repo.GetGroup(ctx, req.GroupID); err != nil {
			return err
		}
	}
	return s.repo.AssignGroup(ctx, req.GroupID, req.ProductIDs)
}

// buildVariants assigns ids to new variants while keeping the ids of
// existing ones, so quotation provenance references stay valid across
// product edits.
func buildVariants(inputs []VariantInput) []Variant {
	out := make([]Variant, len(inputs))
	for i, in := range inputs {
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		out[i] = Variant{
			ID:        id,
			Name:      in.Name,
			SKU:       in.SKU,
			UnitPrice: in.UnitPrice,
			CostPrice: in.CostPrice,
		}
	}
	return out
}
