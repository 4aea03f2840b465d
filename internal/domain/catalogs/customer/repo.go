package customer

import (
	"context"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByVATNumber retrieves a customer by VAT number (unique).
	FindByVATNumber(ctx context.Context, vat string) (*Customer, error)

	// GetForUpdate retrieves a customer with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Customer, error)
}
