package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("stock item not found")

type Repository interface {
	Get(ctx context.Context, productID, variantID string) (*StockItem, error)
	List(ctx context.Context) ([]StockItem, error)
	// Apply upserts the row and moves OnHand and Reserved by the given
	// deltas atomically.
	Apply(ctx context.Context, productID, variantID string, onHandDelta, reservedDelta float64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, productID, variantID string) (*StockItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT product_id, variant_id, on_hand, reserved, updated_at
		FROM stock_items WHERE product_id = $1 AND variant_id = $2`,
		productID, variantID)
	item, err := scanStockItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *repository) List(ctx context.Context) ([]StockItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, variant_id, on_hand, reserved, updated_at
		FROM stock_items ORDER BY product_id, variant_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func (r *repository) Apply(ctx context.Context, productID, variantID string, onHandDelta, reservedDelta float64) error {
	// variant_id is stored as '' for product-level stock so the
	// primary key stays two non-null columns.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stock_items (product_id, variant_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, variant_id) DO UPDATE SET
			on_hand = stock_items.on_hand + EXCLUDED.on_hand,
			reserved = stock_items.reserved + EXCLUDED.reserved,
			updated_at = NOW()`,
		productID, variantID, onHandDelta, reservedDelta)
	return err
}

func scanStockItem(row pgx.Row) (*StockItem, error) {
	var item StockItem
	var updatedAt pgtype.Timestamptz
	if err := row.Scan(&item.ProductID, &item.VariantID, &item.OnHand,
		&item.Reserved, &updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		item.UpdatedAt = updatedAt.Time
	}
	return &item, nil
}
