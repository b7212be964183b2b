package reps

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("representative not found")

type Repository interface {
	Get(ctx context.Context, id string) (*Representative, error)
	List(ctx context.Context, isActive *bool) ([]Representative, error)
	Create(ctx context.Context, rep Representative) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id string) (*Representative, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, is_active, created_at, updated_at
		FROM representatives WHERE id = $1`, id)
	rep, err := scanRep(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rep, nil
}

func (r *repository) List(ctx context.Context, isActive *bool) ([]Representative, error) {
	query := `SELECT id, name, phone, email, is_active, created_at, updated_at FROM representatives`
	var args []interface{}
	if isActive != nil {
		query += " WHERE is_active = $1"
		args = append(args, *isActive)
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Representative
	for rows.Next() {
		rep, err := scanRep(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, rep Representative) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO representatives (id, name, phone, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		rep.ID, rep.Name, rep.Phone, rep.Email, rep.IsActive)
	return err
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	query := "UPDATE representatives SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, col := range []string{"name", "phone", "email", "is_active"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRep(row pgx.Row) (*Representative, error) {
	var rep Representative
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&rep.ID, &rep.Name, &rep.Phone, &rep.Email, &rep.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		rep.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		rep.UpdatedAt = updatedAt.Time
	}
	return &rep, nil
}
