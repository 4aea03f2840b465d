// Package customer provides the Customer catalog.
// Customers are the receiving side of quotes and invoices; the document
// core references them by identity and never mutates them.
package customer

import (
	"context"
	"regexp"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
)

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	vatRE   = regexp.MustCompile(`^[A-Z]{2}[A-Za-z0-9]{2,13}$`)
)

// CustomerKind distinguishes private and business customers.
type CustomerKind string

const (
	KindIndividual CustomerKind = "individual"
	KindBusiness   CustomerKind = "business"
	KindGovernment CustomerKind = "government"
)

// Customer represents a billing recipient.
type Customer struct {
	entity.Catalog

	// Kind defines the customer's legal nature
	Kind CustomerKind `db:"kind" json:"kind"`

	// LegalName is the official registered name (business customers)
	LegalName *string `db:"legal_name" json:"legalName,omitempty"`

	// VATNumber is the EU VAT identifier (business customers)
	VATNumber *string `db:"vat_number" json:"vatNumber,omitempty"`

	// TaxCode is the national tax code
	TaxCode *string `db:"tax_code" json:"taxCode,omitempty"`

	BillingAddress *string `db:"billing_address" json:"billingAddress,omitempty"`
	City           *string `db:"city" json:"city,omitempty"`
	ZipCode        *string `db:"zip_code" json:"zipCode,omitempty"`
	Country        *string `db:"country" json:"country,omitempty"`

	Email *string `db:"email" json:"email,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name string, kind CustomerKind) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(code, name),
		Kind:    kind,
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidKind(c.Kind) {
		return apperror.NewFieldValidation("kind", "invalid customer kind").
			WithDetail("value", string(c.Kind))
	}

	if c.VATNumber != nil && *c.VATNumber != "" && !vatRE.MatchString(*c.VATNumber) {
		return apperror.NewFieldValidation("vatNumber", "invalid VAT number format")
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewFieldValidation("email", "invalid email format")
	}

	return nil
}

// IsBusiness returns true for customers that require a VAT number on
// printed invoices.
func (c *Customer) IsBusiness() bool {
	return c.Kind == KindBusiness || c.Kind == KindGovernment
}

func isValidKind(k CustomerKind) bool {
	switch k {
	case KindIndividual, KindBusiness, KindGovernment:
		return true
	}
	return false
}
