package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quotedesk/quotedesk/internal/platform/db"
)

var ErrNotFound = errors.New("quotation not found")

type Repository interface {
	Get(ctx context.Context, id string) (*Quotation, error)
	List(ctx context.Context, filter ListFilter) ([]Quotation, error)
	ListRevisions(ctx context.Context, groupID string) ([]Quotation, error)
	// Create inserts the quotation, allocating its quote number from
	// the daily sequence when QuoteNo is empty. Number allocation and
	// insert share one transaction.
	Create(ctx context.Context, q *Quotation) error
	// Update rewrites the editable document in full.
	Update(ctx context.Context, q *Quotation) error
	UpdateStatus(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const quotationColumns = `id, quote_no, base_quote_no, revision_no, revision_group_id,
	type, customer_id, customer_name, representative_id, subject, language,
	quote_date, validity_days, items, discount_type, discount_value,
	discount_currency, totals, terms, is_international, import_cost_amount,
	import_cost_currency, status, reject_reason, invoice_no, delivered,
	delivered_at, note, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id string) (*Quotation, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM quotations WHERE id = $1`, quotationColumns), id)
	q, err := scanQuotation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Quotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM quotations`, quotationColumns)
	var where []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.CustomerID != "" {
		add("customer_id = $%d", filter.CustomerID)
	}
	if filter.From != nil {
		add("quote_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("quote_date <= $%d", *filter.To)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY quote_date DESC, quote_no DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuotations(rows)
}

func (r *repository) ListRevisions(ctx context.Context, groupID string) ([]Quotation, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM quotations WHERE revision_group_id = $1 ORDER BY revision_no`,
		quotationColumns), groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuotations(rows)
}

func (r *repository) Create(ctx context.Context, q *Quotation) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if q.QuoteNo == "" {
			no, err := NextQuoteNumber(ctx, tx, q.QuoteDate)
			if err != nil {
				return err
			}
			q.QuoteNo = no
			q.BaseQuoteNo = no
		}

		items, totals, termsJSON, err := marshalDocument(q)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO quotations (id, quote_no, base_quote_no, revision_no,
				revision_group_id, type, customer_id, customer_name,
				representative_id, subject, language, quote_date, validity_days,
				items, discount_type, discount_value, discount_currency, totals,
				terms, is_international, import_cost_amount, import_cost_currency,
				status, reject_reason, invoice_no, delivered, note,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
				NOW(), NOW())`,
			q.ID, q.QuoteNo, q.BaseQuoteNo, q.RevisionNo, q.RevisionGroupID,
			q.Type, q.CustomerID, q.CustomerName, textOrNil(q.RepresentativeID),
			q.Subject, q.Language, q.QuoteDate, q.ValidityDays, items,
			q.DiscountType, q.DiscountValue, q.DiscountCurrency, totals,
			termsJSON, q.IsInternational, q.ImportCostAmount, q.ImportCostCurr,
			q.Status, q.RejectReason, q.InvoiceNo, q.Delivered, q.Note)
		return err
	})
}

func (r *repository) Update(ctx context.Context, q *Quotation) error {
	items, totals, termsJSON, err := marshalDocument(q)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE quotations SET
			type = $2, customer_id = $3, customer_name = $4,
			representative_id = $5, subject = $6, language = $7,
			quote_date = $8, validity_days = $9, items = $10,
			discount_type = $11, discount_value = $12, discount_currency = $13,
			totals = $14, terms = $15, is_international = $16,
			import_cost_amount = $17, import_cost_currency = $18, note = $19,
			updated_at = NOW()
		WHERE id = $1`,
		q.ID, q.Type, q.CustomerID, q.CustomerName,
		textOrNil(q.RepresentativeID), q.Subject, q.Language, q.QuoteDate,
		q.ValidityDays, items, q.DiscountType, q.DiscountValue,
		q.DiscountCurrency, totals, termsJSON, q.IsInternational,
		q.ImportCostAmount, q.ImportCostCurr, q.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, updates map[string]interface{}) error {
	query := "UPDATE quotations SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{"status", "reject_reason", "invoice_no", "delivered", "delivered_at"} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalDocument(q *Quotation) (items, totals, termsJSON []byte, err error) {
	if items, err = json.Marshal(q.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal items: %w", err)
	}
	if totals, err = json.Marshal(q.Totals); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal totals: %w", err)
	}
	if termsJSON, err = json.Marshal(q.Terms); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal terms: %w", err)
	}
	return items, totals, termsJSON, nil
}

func textOrNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func collectQuotations(rows pgx.Rows) ([]Quotation, error) {
	var out []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	var repID, rejectReason, invoiceNo, importCurr, discountCurr, note pgtype.Text
	var deliveredAt, createdAt, updatedAt pgtype.Timestamptz
	var items, totals, termsJSON []byte

	err := row.Scan(&q.ID, &q.QuoteNo, &q.BaseQuoteNo, &q.RevisionNo,
		&q.RevisionGroupID, &q.Type, &q.CustomerID, &q.CustomerName, &repID,
		&q.Subject, &q.Language, &q.QuoteDate, &q.ValidityDays, &items,
		&q.DiscountType, &q.DiscountValue, &discountCurr, &totals, &termsJSON,
		&q.IsInternational, &q.ImportCostAmount, &importCurr, &q.Status,
		&rejectReason, &invoiceNo, &q.Delivered, &deliveredAt, &note,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &q.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if len(totals) > 0 {
		if err := json.Unmarshal(totals, &q.Totals); err != nil {
			return nil, fmt.Errorf("unmarshal totals: %w", err)
		}
	}
	if len(termsJSON) > 0 {
		if err := json.Unmarshal(termsJSON, &q.Terms); err != nil {
			return nil, fmt.Errorf("unmarshal terms: %w", err)
		}
	}

	q.RepresentativeID = repID.String
	q.RejectReason = rejectReason.String
	q.InvoiceNo = invoiceNo.String
	q.ImportCostCurr = importCurr.String
	q.DiscountCurrency = discountCurr.String
	q.Note = note.String
	if deliveredAt.Valid {
		t := deliveredAt.Time
		q.DeliveredAt = &t
	}
	if createdAt.Valid {
		q.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		q.UpdatedAt = updatedAt.Time
	}
	return &q, nil
}
