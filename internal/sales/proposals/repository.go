package proposals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("proposal not found")

type Repository interface {
	Get(ctx context.Context, id string) (*Proposal, error)
	List(ctx context.Context, status string) ([]Proposal, error)
	Create(ctx context.Context, p *Proposal) error
	Update(ctx context.Context, p *Proposal) error
	UpdateStatus(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const proposalColumns = `id, type, customer_id, customer_name, subject, language,
	items, discount_type, discount_value, discount_currency, totals, status,
	reject_reason, note, quotation_id, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id string) (*Proposal, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM proposals WHERE id = $1`, proposalColumns), id)
	p, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, status string) ([]Proposal, error) {
	query := fmt.Sprintf(`SELECT %s FROM proposals`, proposalColumns)
	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, p *Proposal) error {
	items, totals, err := marshalBody(p)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO proposals (id, type, customer_id, customer_name, subject,
			language, items, discount_type, discount_value, discount_currency,
			totals, status, reject_reason, note, quotation_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, NOW(), NOW())`,
		p.ID, p.Type, p.CustomerID, p.CustomerName, p.Subject, p.Language,
		items, p.DiscountType, p.DiscountValue, p.DiscountCurrency, totals,
		p.Status, p.RejectReason, p.Note, textOrNil(p.QuotationID))
	return err
}

func (r *repository) Update(ctx context.Context, p *Proposal) error {
	items, totals, err := marshalBody(p)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE proposals SET
			type = $2, customer_id = $3, customer_name = $4, subject = $5,
			language = $6, items = $7, discount_type = $8, discount_value = $9,
			discount_currency = $10, totals = $11, note = $12,
			updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Type, p.CustomerID, p.CustomerName, p.Subject, p.Language,
		items, p.DiscountType, p.DiscountValue, p.DiscountCurrency, totals,
		p.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, updates map[string]interface{}) error {
	query := "UPDATE proposals SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{"status", "reject_reason", "quotation_id"} {
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

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalBody(p *Proposal) (items, totals []byte, err error) {
	if items, err = json.Marshal(p.Items); err != nil {
		return nil, nil, fmt.Errorf("marshal items: %w", err)
	}
	if totals, err = json.Marshal(p.Totals); err != nil {
		return nil, nil, fmt.Errorf("marshal totals: %w", err)
	}
	return items, totals, nil
}

func textOrNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func scanProposal(row pgx.Row) (*Proposal, error) {
	var p Proposal
	var discountCurr, rejectReason, note, quotationID pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	var items, totals []byte

	err := row.Scan(&p.ID, &p.Type, &p.CustomerID, &p.CustomerName, &p.Subject,
		&p.Language, &items, &p.DiscountType, &p.DiscountValue, &discountCurr,
		&totals, &p.Status, &rejectReason, &note, &quotationID,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &p.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if len(totals) > 0 {
		if err := json.Unmarshal(totals, &p.Totals); err != nil {
			return nil, fmt.Errorf("unmarshal totals: %w", err)
		}
	}

	p.DiscountCurrency = discountCurr.String
	p.RejectReason = rejectReason.String
	p.Note = note.String
	p.QuotationID = quotationID.String
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}
