package quotations

import (
	"context"
	"fmt"
	"time"
)

// NextQuoteNumber allocates the next Q-YYMMDD-NNN number for the
// given date from the document_sequences table. It must run inside
// the same transaction as the insert so a failed create does not burn
// a number gap visible to users.
func NextQuoteNumber(ctx context.Context, tx dbtx, date time.Time) (string, error) {
	key := "quotation-" + date.Format("060102")

	var seq int
	err := tx.QueryRow(ctx, `
		INSERT INTO document_sequences (key, last_value)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`, key).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("allocate quote number: %w", err)
	}

	return fmt.Sprintf("Q-%s-%03d", date.Format("060102"), seq), nil
}

// RevisionQuoteNo renders the display number of a revision: the base
// number for the original, base-R<n> from the first revision on.
func RevisionQuoteNo(baseNo string, revision int) string {
	if revision <= 0 {
		return baseNo
	}
	return fmt.Sprintf("%s-R%d", baseNo, revision)
}
