// Package products holds the sellable catalog: products with their
// model variants, product groups for ordering the catalog UI, and the
// price history a product accumulated across quotations.
package products

import "time"

type ProductType string

const (
	TypeSales   ProductType = "sales"
	TypeService ProductType = "service"
)

// Variant is a concrete model of a product with its own pricing.
type Variant struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	CostPrice float64 `json:"cost_price,omitempty"`
}

type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ShortName   string      `json:"short_name,omitempty"`
	Type        ProductType `json:"type"`
	Brand       string      `json:"brand,omitempty"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	Unit        string      `json:"unit"`
	Currency    string      `json:"currency"`
	UnitPrice   float64     `json:"unit_price"`
	CostPrice   float64     `json:"cost_price,omitempty"`
	GroupID     string      `json:"group_id,omitempty"`
	Variants    []Variant   `json:"variants"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Group orders the catalog; products reference at most one group.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceEntry is one historical appearance of a product on a quotation.
type PriceEntry struct {
	QuotationID  string    `json:"quotation_id"`
	QuoteNo      string    `json:"quote_no"`
	CustomerName string    `json:"customer_name"`
	VariantID    string    `json:"variant_id,omitempty"`
	UnitPrice    float64   `json:"unit_price"`
	Currency     string    `json:"currency"`
	QuoteDate    time.Time `json:"quote_date"`
}

type VariantInput struct {
	ID        string  `json:"id,omitempty" validate:"omitempty,uuid4"`
	Name      string  `json:"name" validate:"required,max=200"`
	SKU       string  `json:"sku,omitempty" validate:"max=100"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	CostPrice float64 `json:"cost_price,omitempty" validate:"gte=0"`
}

type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required,max=300"`
	ShortName   string         `json:"short_name,omitempty" validate:"max=100"`
	Type        string         `json:"type" validate:"required,oneof=sales service"`
	Brand       string         `json:"brand,omitempty" validate:"max=100"`
	Category    string         `json:"category,omitempty" validate:"max=100"`
	Description string         `json:"description,omitempty" validate:"max=2000"`
	Unit        string         `json:"unit" validate:"required,max=20"`
	Currency    string         `json:"currency" validate:"required,len=3"`
	UnitPrice   float64        `json:"unit_price" validate:"gte=0"`
	CostPrice   float64        `json:"cost_price,omitempty" validate:"gte=0"`
	GroupID     string         `json:"group_id,omitempty" validate:"omitempty,uuid4"`
	Variants    []VariantInput `json:"variants,omitempty" validate:"dive"`
}

type UpdateProductRequest struct {
	Name        *string         `json:"name,omitempty" validate:"omitempty,min=1,max=300"`
	ShortName   *string         `json:"short_name,omitempty" validate:"omitempty,max=100"`
	Brand       *string         `json:"brand,omitempty" validate:"omitempty,max=100"`
	Category    *string         `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Unit        *string         `json:"unit,omitempty" validate:"omitempty,max=20"`
	Currency    *string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	UnitPrice   *float64        `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	CostPrice   *float64        `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	GroupID     *string         `json:"group_id,omitempty"`
	Variants    *[]VariantInput `json:"variants,omitempty" validate:"omitempty,dive"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

type ListProductsRequest struct {
	Type     string
	GroupID  string
	IsActive *bool
	Search   string
}

type CreateGroupRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

type UpdateGroupRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	SortOrder *int    `json:"sort_order,omitempty" validate:"omitempty,gte=0"`
}

// AssignGroupRequest moves a batch of products into a group (or out of
// any group when GroupID is empty).
type AssignGroupRequest struct {
	GroupID    string   `json:"group_id" validate:"omitempty,uuid4"`
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,uuid4"`
}
