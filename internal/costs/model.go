// Package costs tracks internal cost entries attached to quotations,
// their categories, per-quotation profit and the cross-quotation cost
// report.
package costs

import "time"

// CategoryScope limits which quotation type a category applies to.
type CategoryScope string

const (
	ScopeSales   CategoryScope = "sales"
	ScopeService CategoryScope = "service"
	ScopeBoth    CategoryScope = "both"
)

type Category struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Scope     CategoryScope `json:"scope"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Entry is one internal cost booked against a quotation. It is never
// shown to the customer.
type Entry struct {
	ID           string    `json:"id"`
	QuotationID  string    `json:"quotation_id"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	EntryDate    time.Time `json:"entry_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QuotationProfit is the per-quotation view: customer totals against
// internal costs, per currency.
type QuotationProfit struct {
	QuotationID string             `json:"quotation_id"`
	Revenue     map[string]float64 `json:"revenue"`
	Costs       map[string]float64 `json:"costs"`
	Profit      map[string]float64 `json:"profit"`
}

// Report groups cost totals as category name → currency → total.
type Report map[string]map[string]float64

// ReportFilter narrows the cost report.
type ReportFilter struct {
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Type       string     `json:"type,omitempty"`
	CategoryID string     `json:"category_id,omitempty"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Scope string `json:"scope" validate:"required,oneof=sales service both"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Scope *string `json:"scope,omitempty" validate:"omitempty,oneof=sales service both"`
}

type CreateEntryRequest struct {
	CategoryID  string    `json:"category_id" validate:"required,uuid4"`
	Description string    `json:"description,omitempty" validate:"max=500"`
	Amount      float64   `json:"amount" validate:"gt=0"`
	Currency    string    `json:"currency" validate:"required,len=3"`
	EntryDate   time.Time `json:"entry_date,omitempty"`
}

type UpdateEntryRequest struct {
	CategoryID  *string    `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Amount      *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Currency    *string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	EntryDate   *time.Time `json:"entry_date,omitempty"`
}
