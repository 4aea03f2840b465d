// Package currency provides the Currency catalog.
// Documents carry a plain ISO code; this catalog adds display metadata.
package currency

import (
	"context"
	"regexp"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/types"
)

var isoCodeRE = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency represents a monetary unit.
type Currency struct {
	entity.Catalog

	// ISOCode is the ISO 4217 alphabetic code (e.g., "USD", "EUR")
	ISOCode *string `db:"iso_code" json:"isoCode"`

	// ISONumericCode is the ISO 4217 numeric code (e.g., "840", "978")
	ISONumericCode *string `db:"iso_numeric_code" json:"isoNumericCode,omitempty"`

	// Symbol is the currency symbol (e.g., "$", "€")
	Symbol *string `db:"symbol" json:"symbol"`

	// DecimalPlaces is the number of decimal places for display
	DecimalPlaces int `db:"decimal_places" json:"decimalPlaces"`

	// IsBase indicates the accounting base currency
	IsBase bool `db:"is_base" json:"isBase"`
}

// NewCurrency creates a new Currency. The ISO code doubles as the
// catalog code when no code is supplied.
func NewCurrency(isoCode, name string, symbol *string) *Currency {
	iso := isoCode
	return &Currency{
		Catalog:       entity.NewCatalog(isoCode, name),
		ISOCode:       &iso,
		Symbol:        symbol,
		DecimalPlaces: 2,
	}
}

// Validate implements entity.Validatable interface.
func (c *Currency) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.ISOCode == nil || !isoCodeRE.MatchString(*c.ISOCode) {
		return apperror.NewFieldValidation("isoCode", "ISO code must be 3 uppercase letters")
	}

	if c.Symbol == nil || *c.Symbol == "" {
		return apperror.NewFieldValidation("symbol", "symbol is required")
	}

	if c.DecimalPlaces < 0 || c.DecimalPlaces > 8 {
		return apperror.NewFieldValidation("decimalPlaces", "decimal places must be between 0 and 8")
	}

	return nil
}

// Format renders an amount with the currency's decimal places and symbol.
func (c *Currency) Format(amount types.Money) string {
	return amount.StringFixed(int32(c.DecimalPlaces)) + " " + *c.Symbol
}
