// Package company provides the Company catalog.
// Companies are the issuing side of quotes and invoices; every document
// number scope is keyed by the issuing company.
package company

import (
	"context"
	"regexp"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
)

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	vatRE   = regexp.MustCompile(`^[A-Z]{2}[A-Za-z0-9]{2,13}$`)
)

// Company represents an issuing legal entity.
type Company struct {
	entity.Catalog

	// LegalName is the official registered name
	LegalName *string `db:"legal_name" json:"legalName,omitempty"`

	// VATNumber is the EU VAT identifier (e.g., "IT01234567890")
	VATNumber *string `db:"vat_number" json:"vatNumber,omitempty"`

	// TaxCode is the national tax code, where distinct from the VAT number
	TaxCode *string `db:"tax_code" json:"taxCode,omitempty"`

	Address *string `db:"address" json:"address,omitempty"`
	City    *string `db:"city" json:"city,omitempty"`
	ZipCode *string `db:"zip_code" json:"zipCode,omitempty"`
	Country *string `db:"country" json:"country,omitempty"`

	Email *string `db:"email" json:"email,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`

	// BaseCurrencyID is the default currency for new documents
	BaseCurrencyID id.ID `db:"base_currency_id" json:"baseCurrencyId,omitempty"`

	// IsDefault marks the company preselected for new documents
	IsDefault bool `db:"is_default" json:"isDefault"`
}

// NewCompany creates a new Company with required fields.
func NewCompany(code, name string) *Company {
	return &Company{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Company) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.VATNumber != nil && *c.VATNumber != "" && !vatRE.MatchString(*c.VATNumber) {
		return apperror.NewFieldValidation("vatNumber", "invalid VAT number format")
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewFieldValidation("email", "invalid email format")
	}

	return nil
}
