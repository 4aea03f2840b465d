package company

import (
	"context"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
)

// Repository defines the interface for Company persistence.
type Repository interface {
	domain.CatalogRepository[*Company]

	// FindByVATNumber retrieves a company by VAT number (unique).
	FindByVATNumber(ctx context.Context, vat string) (*Company, error)

	// GetDefault retrieves the company marked as default.
	GetDefault(ctx context.Context) (*Company, error)

	// GetForUpdate retrieves a company with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Company, error)
}
