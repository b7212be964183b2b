// Package files stores quotation attachments: metadata in Postgres,
// bytes on local disk under a configured root.
package files

import "time"

// Attachment categories. EditedPDF is special: at most one per
// quotation, and it replaces the generated document in previews.
const (
	CategoryIncomingCosts  = "incoming_costs"
	CategoryOutgoingCosts  = "outgoing_costs"
	CategoryImages         = "images"
	CategoryReceivedQuotes = "received_quotes"
	CategoryEditedPDF      = "edited_pdf"
)

// Categories lists the valid attachment categories in display order.
var Categories = []string{
	CategoryIncomingCosts,
	CategoryOutgoingCosts,
	CategoryImages,
	CategoryReceivedQuotes,
	CategoryEditedPDF,
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type File struct {
	ID          string    `json:"id"`
	QuotationID string    `json:"quotation_id"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	StoredName  string    `json:"-"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
