package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/documents/quote"
	"fakturo/internal/infrastructure/storage/postgres"
)

const (
	quotesTable     = "doc_quotes"
	quoteLinesTable = "doc_quote_lines"
)

// QuoteRepo implements quote.Repository.
type QuoteRepo struct {
	*BaseDocumentRepo[*quote.Quote]
}

// NewQuoteRepo creates a new quote repository.
func NewQuoteRepo(txManager *postgres.TxManager) *QuoteRepo {
	return &QuoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			quotesTable,
			quoteLinesTable,
			postgres.ExtractDBColumns[quote.Quote](),
			func() *quote.Quote { return &quote.Quote{} },
		),
	}
}

// List retrieves quotes with filtering.
func (r *QuoteRepo) List(ctx context.Context, filter quote.ListFilter) (domain.ListResult[*quote.Quote], error) {
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
	if filter.SentFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issue_date": *filter.SentFrom})
	}
	if filter.SentTo != nil {
		q = q.Where(squirrel.LtOrEq{"issue_date": *filter.SentTo})
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

// ListExpiredIDs returns sent quotes whose validity end passed before asOf.
func (r *QuoteRepo) ListExpiredIDs(ctx context.Context, asOf time.Time) ([]id.ID, error) {
	q := r.Builder().
		Select("id").
		From(quotesTable).
		Where(squirrel.Eq{"status": quote.StatusSent, "deletion_mark": false}).
		Where(squirrel.Lt{"due_date": asOf}).
		OrderBy("due_date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []id.ID
	if err := pgxscan.Select(ctx, r.querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list expired: %w", err)
	}

	return ids, nil
}
