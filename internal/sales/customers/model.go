package customers

import "time"

// ContactPerson is one named contact at a customer. A customer may
// carry several; at most one is flagged primary.
type ContactPerson struct {
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

type Customer struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Contacts  []ContactPerson `json:"contacts"`
	Email     *string         `json:"email,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Address   *string         `json:"address,omitempty"`
	City      *string         `json:"city,omitempty"`
	Country   string          `json:"country"`
	TaxOffice *string         `json:"tax_office,omitempty"`
	TaxNumber *string         `json:"tax_number,omitempty"`
	Note      *string         `json:"note,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PrimaryContact returns the contact flagged primary, or the first
// contact when none is flagged.
func (c *Customer) PrimaryContact() *ContactPerson {
	for i := range c.Contacts {
		if c.Contacts[i].IsPrimary {
			return &c.Contacts[i]
		}
	}
	if len(c.Contacts) > 0 {
		return &c.Contacts[0]
	}
	return nil
}
