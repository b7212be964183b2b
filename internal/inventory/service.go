package inventory

import (
	"context"
	"fmt"

	"github.com/quotedesk/quotedesk/internal/sales/quotations"
)

// Service implements the quotation lifecycle's stock movements.
// Negative availability is tolerated: the company quotes goods it has
// not purchased yet, so a reservation may temporarily exceed stock.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, productID, variantID string) (*StockItem, error) {
	return s.repo.Get(ctx, productID, variantID)
}

func (s *Service) List(ctx context.Context) ([]StockItem, error) {
	return s.repo.List(ctx)
}

// Adjust moves on-hand stock by a delta, for purchases and manual
// corrections.
func (s *Service) Adjust(ctx context.Context, req AdjustStockRequest) (*StockItem, error) {
	if err := s.repo.Apply(ctx, req.ProductID, req.VariantID, req.Delta, 0); err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	return s.repo.Get(ctx, req.ProductID, req.VariantID)
}

// Reserve holds stock for an accepted quotation.
func (s *Service) Reserve(ctx context.Context, changes []quotations.StockChange) error {
	return s.apply(ctx, changes, 0, 1)
}

// Release frees a reservation when a quotation leaves accepted.
func (s *Service) Release(ctx context.Context, changes []quotations.StockChange) error {
	return s.apply(ctx, changes, 0, -1)
}

// Commit consumes a reservation on delivery: the goods leave both the
// reservation and the shelf.
func (s *Service) Commit(ctx context.Context, changes []quotations.StockChange) error {
	return s.apply(ctx, changes, -1, -1)
}

// Restore undoes a delivery, putting the goods back on hand and back
// under reservation.
func (s *Service) Restore(ctx context.Context, changes []quotations.StockChange) error {
	return s.apply(ctx, changes, 1, 1)
}

func (s *Service) apply(ctx context.Context, changes []quotations.StockChange, onHandSign, reservedSign float64) error {
	for _, c := range changes {
		err := s.repo.Apply(ctx, c.ProductID, c.VariantID,
			onHandSign*c.Quantity, reservedSign*c.Quantity)
		if err != nil {
			return fmt.Errorf("apply stock change for product %s: %w", c.ProductID, err)
		}
	}
	return nil
}
