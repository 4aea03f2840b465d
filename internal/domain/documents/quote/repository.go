package quote

import (
	"context"
	"time"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/documents/line"
)

// Repository defines storage operations for quotes.
type Repository interface {
	Create(ctx context.Context, doc *Quote) error
	GetByID(ctx context.Context, docID id.ID) (*Quote, error)
	GetByNumber(ctx context.Context, companyID id.ID, year, number int) (*Quote, error)
	Update(ctx context.Context, doc *Quote) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]line.Item, error)
	SaveLines(ctx context.Context, docID id.ID, lines []line.Item) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quote], error)

	// GetForUpdate locks the quote row for the current transaction.
	GetForUpdate(ctx context.Context, docID id.ID) (*Quote, error)

	// ListExpiredIDs returns sent quotes whose validity ended before asOf.
	ListExpiredIDs(ctx context.Context, asOf time.Time) ([]id.ID, error)
}

// ListFilter for filtering quotes.
type ListFilter struct {
	domain.ListFilter

	CompanyID  *id.ID
	CustomerID *id.ID
	Status     *Status
	Year       *int
	SentFrom   *time.Time
	SentTo     *time.Time
}
