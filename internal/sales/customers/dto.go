package customers

type CreateCustomerRequest struct {
	Name      string          `json:"name" validate:"required,max=200"`
	Contacts  []ContactPerson `json:"contacts" validate:"omitempty,dive"`
	Email     *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string         `json:"phone,omitempty"`
	Address   *string         `json:"address,omitempty"`
	City      *string         `json:"city,omitempty"`
	Country   string          `json:"country,omitempty"`
	TaxOffice *string         `json:"tax_office,omitempty"`
	TaxNumber *string         `json:"tax_number,omitempty"`
	Note      *string         `json:"note,omitempty"`
}

type UpdateCustomerRequest struct {
	Name      *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Contacts  *[]ContactPerson `json:"contacts,omitempty" validate:"omitempty,dive"`
	Email     *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string          `json:"phone,omitempty"`
	Address   *string          `json:"address,omitempty"`
	City      *string          `json:"city,omitempty"`
	Country   *string          `json:"country,omitempty"`
	TaxOffice *string          `json:"tax_office,omitempty"`
	TaxNumber *string          `json:"tax_number,omitempty"`
	Note      *string          `json:"note,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

type ListCustomersRequest struct {
	IsActive *bool
	Limit    int
	Offset   int
}
