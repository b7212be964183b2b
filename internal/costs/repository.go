package costs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCategoryNotFound = errors.New("cost category not found")
	ErrEntryNotFound    = errors.New("cost entry not found")
	ErrCategoryInUse    = errors.New("cost category has entries")
)

// ReportRow is one aggregated cell of the cost report.
type ReportRow struct {
	CategoryName string
	Currency     string
	Total        float64
}

type Repository interface {
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context, scope string) ([]Category, error)
	CreateCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteCategory(ctx context.Context, id string) error

	GetEntry(ctx context.Context, id string) (*Entry, error)
	ListEntries(ctx context.Context, quotationID string) ([]Entry, error)
	CreateEntry(ctx context.Context, e Entry) error
	UpdateEntry(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteEntry(ctx context.Context, id string) error

	ReportRows(ctx context.Context, filter ReportFilter) ([]ReportRow, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetCategory(ctx context.Context, id string) (*Category, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, scope, created_at, updated_at FROM cost_categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) ListCategories(ctx context.Context, scope string) ([]Category, error) {
	query := `SELECT id, name, scope, created_at, updated_at FROM cost_categories`
	var args []interface{}
	if scope != "" {
		// A scoped listing also includes categories valid for both types.
		query += ` WHERE scope = $1 OR scope = 'both'`
		args = append(args, scope)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repository) CreateCategory(ctx context.Context, c Category) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cost_categories (id, name, scope, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())`, c.ID, c.Name, c.Scope)
	return err
}

func (r *repository) UpdateCategory(ctx context.Context, id string, updates map[string]interface{}) error {
	query := "UPDATE cost_categories SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{"name", "scope"} {
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
		return ErrCategoryNotFound
	}
	return nil
}

func (r *repository) DeleteCategory(ctx context.Context, id string) error {
	var inUse bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cost_entries WHERE category_id = $1)`, id).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM cost_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

const entryColumns = `e.id, e.quotation_id, e.category_id, c.name, e.description,
	e.amount, e.currency, e.entry_date, e.created_at, e.updated_at`

func (r *repository) GetEntry(ctx context.Context, id string) (*Entry, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM cost_entries e
		JOIN cost_categories c ON c.id = e.category_id
		WHERE e.id = $1`, entryColumns), id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *repository) ListEntries(ctx context.Context, quotationID string) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM cost_entries e
		JOIN cost_categories c ON c.id = e.category_id
		WHERE e.quotation_id = $1
		ORDER BY e.entry_date, e.created_at`, entryColumns), quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *repository) CreateEntry(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cost_entries (id, quotation_id, category_id, description,
			amount, currency, entry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		e.ID, e.QuotationID, e.CategoryID, e.Description, e.Amount, e.Currency,
		e.EntryDate)
	return err
}

func (r *repository) UpdateEntry(ctx context.Context, id string, updates map[string]interface{}) error {
	query := "UPDATE cost_entries SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{"category_id", "description", "amount", "currency", "entry_date"} {
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
		return ErrEntryNotFound
	}
	return nil
}

func (r *repository) DeleteEntry(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cost_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *repository) ReportRows(ctx context.Context, filter ReportFilter) ([]ReportRow, error) {
	query := `
		SELECT c.name, e.currency, SUM(e.amount)
		FROM cost_entries e
		JOIN cost_categories c ON c.id = e.category_id
		JOIN quotations q ON q.id = e.quotation_id`
	var where []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.From != nil {
		add("e.entry_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("e.entry_date <= $%d", *filter.To)
	}
	if filter.Type != "" {
		add("q.type = $%d", filter.Type)
	}
	if filter.CategoryID != "" {
		add("e.category_id = $%d", filter.CategoryID)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " GROUP BY c.name, e.currency ORDER BY c.name, e.currency"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.CategoryName, &row.Currency, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&c.ID, &c.Name, &c.Scope, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	var description pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&e.ID, &e.QuotationID, &e.CategoryID, &e.CategoryName,
		&description, &e.Amount, &e.Currency, &e.EntryDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.Description = description.String
	if createdAt.Valid {
		e.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		e.UpdatedAt = updatedAt.Time
	}
	return &e, nil
}
