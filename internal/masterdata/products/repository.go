package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrGroupNotFound = errors.New("product group not found")
)

type Repository interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Deactivate(ctx context.Context, id string) error

	GetGroup(ctx context.Context, id string) (*Group, error)
	ListGroups(ctx context.Context) ([]Group, error)
	CreateGroup(ctx context.Context, g Group) error
	UpdateGroup(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteGroup(ctx context.Context, id string) error
	AssignGroup(ctx context.Context, groupID string, productIDs []string) error

	// PriceHistory walks quotation line items referencing the product,
	// newest first.
	PriceHistory(ctx context.Context, productID string, limit int) ([]PriceEntry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, name, short_name, type, brand, category, description,
	unit, currency, unit_price, cost_price, group_id, variants, is_active,
	created_at, updated_at`

func (r *repository) Get(ctx context.Context, id string) (*Product, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns), id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, req ListProductsRequest) ([]Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products`, productColumns)
	var where []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if req.Type != "" {
		add("type = $%d", req.Type)
	}
	if req.GroupID != "" {
		add("group_id = $%d", req.GroupID)
	}
	if req.IsActive != nil {
		add("is_active = $%d", *req.IsActive)
	}
	if req.Search != "" {
		add("(name ILIKE $%d OR brand ILIKE $%[1]d)", "%"+req.Search+"%")
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Product) error {
	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO products (id, name, short_name, type, brand, category,
			description, unit, currency, unit_price, cost_price, group_id,
			variants, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			NOW(), NOW())`,
		p.ID, p.Name, p.ShortName, p.Type, p.Brand, p.Category, p.Description,
		p.Unit, p.Currency, p.UnitPrice, p.CostPrice, textOrNil(p.GroupID),
		variants, p.IsActive)
	return err
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	query := "UPDATE products SET updated_at = NOW()"
	var args []interface{}
	cols := []string{"name", "short_name", "brand", "category", "description",
		"unit", "currency", "unit_price", "cost_price", "group_id", "variants",
		"is_active"}
	for _, col := range cols {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GetGroup(ctx context.Context, id string) (*Group, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, sort_order, created_at, updated_at FROM product_groups WHERE id = $1`, id)
	g, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *repository) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, sort_order, created_at, updated_at FROM product_groups ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *repository) CreateGroup(ctx context.Context, g Group) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO product_groups (id, name, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())`, g.ID, g.Name, g.SortOrder)
	return err
}

func (r *repository) UpdateGroup(ctx context.Context, id string, updates map[string]interface{}) error {
	query := "UPDATE product_groups SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{"name", "sort_order"} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *repository) DeleteGroup(ctx context.Context, id string) error {
	// Products in the group are detached, not deleted.
	if _, err := r.pool.Exec(ctx,
		`UPDATE products SET group_id = NULL, updated_at = NOW() WHERE group_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *repository) AssignGroup(ctx context.Context, groupID string, productIDs []string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products SET group_id = $1, updated_at = NOW() WHERE id = ANY($2)`,
		textOrNil(groupID), productIDs)
	return err
}

func (r *repository) PriceHistory(ctx context.Context, productID string, limit int) ([]PriceEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.quote_no, q.customer_name, q.quote_date,
			item->>'variant_id', (item->>'unit_price')::float8, item->>'currency'
		FROM quotations q, jsonb_array_elements(q.items) item
		WHERE item->>'product_id' = $1
		ORDER BY q.quote_date DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriceEntry
	for rows.Next() {
		var e PriceEntry
		var variantID pgtype.Text
		if err := rows.Scan(&e.QuotationID, &e.QuoteNo, &e.CustomerName,
			&e.QuoteDate, &variantID, &e.UnitPrice, &e.Currency); err != nil {
			return nil, err
		}
		e.VariantID = variantID.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func textOrNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var shortName, brand, category, description, groupID pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	var variants []byte

	err := row.Scan(&p.ID, &p.Name, &shortName, &p.Type, &brand, &category,
		&description, &p.Unit, &p.Currency, &p.UnitPrice, &p.CostPrice,
		&groupID, &variants, &p.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return nil, fmt.Errorf("unmarshal variants: %w", err)
		}
	}
	if p.Variants == nil {
		p.Variants = []Variant{}
	}

	p.ShortName = shortName.String
	p.Brand = brand.String
	p.Category = category.String
	p.Description = description.String
	p.GroupID = groupID.String
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}

func scanGroup(row pgx.Row) (*Group, error) {
	var g Group
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&g.ID, &g.Name, &g.SortOrder, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		g.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		g.UpdatedAt = updatedAt.Time
	}
	return &g, nil
}
