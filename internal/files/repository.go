package files

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("file not found")

type Repository interface {
	Get(ctx context.Context, id string) (*File, error)
	List(ctx context.Context, quotationID, category string) ([]File, error)
	// FindByCategory returns the single file in a category, used for
	// the replace-on-upload behavior of the edited PDF.
	FindByCategory(ctx context.Context, quotationID, category string) (*File, error)
	Create(ctx context.Context, f File) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const fileColumns = `id, quotation_id, category, name, stored_name, content_type, size, created_at`

func (r *repository) Get(ctx context.Context, id string) (*File, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`, id)
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *repository) List(ctx context.Context, quotationID, category string) ([]File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE quotation_id = $1`
	args := []interface{}{quotationID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *repository) FindByCategory(ctx context.Context, quotationID, category string) (*File, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files WHERE quotation_id = $1 AND category = $2 LIMIT 1`,
		quotationID, category)
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *repository) Create(ctx context.Context, f File) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO files (id, quotation_id, category, name, stored_name,
			content_type, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		f.ID, f.QuotationID, f.Category, f.Name, f.StoredName, f.ContentType, f.Size)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFile(row pgx.Row) (*File, error) {
	var f File
	var createdAt pgtype.Timestamptz
	err := row.Scan(&f.ID, &f.QuotationID, &f.Category, &f.Name, &f.StoredName,
		&f.ContentType, &f.Size, &createdAt)
	if err != nil {
		return nil, err
	}
	if createdAt.Valid {
		f.CreatedAt = createdAt.Time
	}
	return &f, nil
}
