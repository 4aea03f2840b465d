package invoice

import (
	"context"
	"time"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/documents/line"
)

// Repository defines storage operations for invoices.
type Repository interface {
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, companyID id.ID, year, number int) (*Invoice, error)
	GetBySourceQuote(ctx context.Context, quoteID id.ID) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]line.Item, error)
	SaveLines(ctx context.Context, docID id.ID, lines []line.Item) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	// GetForUpdate locks the invoice row for the current transaction.
	// Lifecycle transitions go through this to serialize against
	// concurrent transitions on the same document.
	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)

	// ListOverdueIDs returns issued invoices whose due date passed before asOf.
	ListOverdueIDs(ctx context.Context, asOf time.Time) ([]id.ID, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	CompanyID  *id.ID
	CustomerID *id.ID
	Status     *Status
	Year       *int
	IssuedFrom *time.Time
	IssuedTo   *time.Time
}
