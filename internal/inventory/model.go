// Package inventory keeps a per-product stock ledger. Accepted
// quotations hold reservations against it; deliveries consume them.
package inventory

import "time"

// StockItem is the ledger row for a product or one of its variants.
// Available stock is OnHand minus Reserved.
type StockItem struct {
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	OnHand    float64   `json:"on_hand"`
	Reserved  float64   `json:"reserved"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available is the quantity not yet promised to a customer.
func (s StockItem) Available() float64 {
	return s.OnHand - s.Reserved
}

type AdjustStockRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid4"`
	VariantID string  `json:"variant_id,omitempty" validate:"omitempty,uuid4"`
	Delta     float64 `json:"delta" validate:"required"`
}
