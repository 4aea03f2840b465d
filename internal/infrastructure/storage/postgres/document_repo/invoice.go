package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/documents/invoice"
	"fakturo/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable     = "doc_invoices"
	invoiceLinesTable = "doc_invoice_lines"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			invoicesTable,
			invoiceLinesTable,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

// GetBySourceQuote retrieves the invoice produced from a quote conversion.
func (r *InvoiceRepo) GetBySourceQuote(ctx context.Context, quoteID id.ID) (*invoice.Invoice, error) {
	doc := &invoice.Invoice{}
	q := r.baseSelect().
		Where(squirrel.Eq{"source_quote_id": quoteID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(invoicesTable, quoteID.String())
		}
		return nil, fmt.Errorf("get by source quote: %w", err)
	}

	return doc, nil
}

// List retrieves invoices with filtering.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.CompanyID != nil {
		q = q.Where(squirrel.Eq{"company_id": *filter.CompanyID})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Year != nil {
		q = q.Where(squirrel.Eq{"doc_year": *filter.Year})
	}
	if filter.IssuedFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issue_date": *filter.IssuedFrom})
	}
	if filter.IssuedTo != nil {
		q = q.Where(squirrel.LtOrEq{"issue_date": *filter.IssuedTo})
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": searchPattern},
			squirrel.ILike{"notes": searchPattern},
			squirrel.Expr("doc_number::text ILIKE ?", searchPattern),
		})
	}

	return r.selectList(ctx, q, filter.ListFilter, "issue_date DESC NULLS LAST, created_at DESC")
}

// ListOverdueIDs returns issued invoices whose due date passed before asOf.
func (r *InvoiceRepo) ListOverdueIDs(ctx context.Context, asOf time.Time) ([]id.ID, error) {
	q := r.Builder().
		Select("id").
		From(invoicesTable).
		Where(squirrel.Eq{"status": invoice.StatusIssued, "deletion_mark": false}).
		Where(squirrel.Lt{"due_date": asOf}).
		OrderBy("due_date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []id.ID
	if err := pgxscan.Select(ctx, r.querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list overdue: %w", err)
	}

	return ids, nil
}
