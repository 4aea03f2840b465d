// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/types"
	"fakturo/internal/domain/documents/invoice"
	"fakturo/internal/domain/reports"
	"fakturo/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetDashboard returns per-status document aggregates for one company.
func (r *ReportRepo) GetDashboard(ctx context.Context, filter reports.DashboardFilter) (*reports.Dashboard, error) {
	dashboard := &reports.Dashboard{
		CompanyID: filter.CompanyID,
		Year:      filter.Year,
	}

	invoiceSummaries, err := r.statusSummaries(ctx, "doc_invoices", filter)
	if err != nil {
		return nil, fmt.Errorf("invoice summaries: %w", err)
	}
	dashboard.Invoices = invoiceSummaries

	quoteSummaries, err := r.statusSummaries(ctx, "doc_quotes", filter)
	if err != nil {
		return nil, fmt.Errorf("quote summaries: %w", err)
	}
	dashboard.Quotes = quoteSummaries

	dashboard.OpenAmount = types.Zero()
	dashboard.OverdueCount = 0
	for _, s := range invoiceSummaries {
		switch s.Status {
		case string(invoice.StatusIssued):
			dashboard.OpenAmount = dashboard.OpenAmount.Add(s.TotalAmount)
		case string(invoice.StatusOverdue):
			dashboard.OpenAmount = dashboard.OpenAmount.Add(s.TotalAmount)
			dashboard.OverdueCount = s.Count
		}
	}

	return dashboard, nil
}

func (r *ReportRepo) statusSummaries(ctx context.Context, table string, filter reports.DashboardFilter) ([]reports.StatusSummary, error) {
	q := r.builder.
		Select("status", "COUNT(*) AS count", "COALESCE(SUM(total_amount), 0) AS total_amount").
		From(table).
		Where(squirrel.Eq{"company_id": filter.CompanyID, "deletion_mark": false}).
		GroupBy("status").
		OrderBy("status")

	if filter.Year != 0 {
		q = q.Where(squirrel.Eq{"doc_year": filter.Year})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var summaries []reports.StatusSummary
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &summaries, sql, args...); err != nil {
		return nil, fmt.Errorf("select summaries: %w", err)
	}

	return summaries, nil
}

// journalColumns is the shared projection for the invoice/quote union.
const journalColumns = `
	d.id, d.status, d.doc_year AS year, d.doc_number AS number,
	d.issue_date, d.due_date, d.customer_id,
	COALESCE(c.name, '') AS customer_name,
	d.currency, d.total_amount, d.title, d.deletion_mark,
	d.created_at, d.updated_at`

// GetJournal retrieves the cross-type document journal.
func (r *ReportRepo) GetJournal(ctx context.Context, filter reports.JournalFilter) (*reports.Journal, error) {
	docTypes := filter.DocumentTypes
	if len(docTypes) == 0 {
		docTypes = []string{"invoice", "quote"}
	}

	var unions []string
	var args []any
	argIndex := 1

	appendFilters := func(q string) string {
		q += fmt.Sprintf(" AND d.company_id = $%d", argIndex)
		args = append(args, filter.CompanyID)
		argIndex++

		if filter.FromDate != nil {
			q += fmt.Sprintf(" AND d.issue_date >= $%d", argIndex)
			args = append(args, *filter.FromDate)
			argIndex++
		}
		if filter.ToDate != nil {
			q += fmt.Sprintf(" AND d.issue_date < $%d", argIndex)
			args = append(args, *filter.ToDate)
			argIndex++
		}
		if len(filter.Statuses) > 0 {
			placeholders := make([]string, len(filter.Statuses))
			for i, st := range filter.Statuses {
				placeholders[i] = fmt.Sprintf("$%d", argIndex)
				args = append(args, st)
				argIndex++
			}
			q += fmt.Sprintf(" AND d.status IN (%s)", strings.Join(placeholders, ","))
		}
		if len(filter.CustomerIDs) > 0 {
			placeholders := make([]string, len(filter.CustomerIDs))
			for i, cid := range filter.CustomerIDs {
				placeholders[i] = fmt.Sprintf("$%d", argIndex)
				args = append(args, cid)
				argIndex++
			}
			q += fmt.Sprintf(" AND d.customer_id IN (%s)", strings.Join(placeholders, ","))
		}
		return q
	}

	for _, docType := range docTypes {
		switch docType {
		case "invoice":
			q := `SELECT 'invoice' AS document_type,` + journalColumns + `
				FROM doc_invoices d
				LEFT JOIN cat_customers c ON d.customer_id = c.id
				WHERE d.deletion_mark = false`
			unions = append(unions, appendFilters(q))

		case "quote":
			q := `SELECT 'quote' AS document_type,` + journalColumns + `
				FROM doc_quotes d
				LEFT JOIN cat_customers c ON d.customer_id = c.id
				WHERE d.deletion_mark = false`
			unions = append(unions, appendFilters(q))
		}
	}

	if len(unions) == 0 {
		return &reports.Journal{
			Items:  []reports.JournalItem{},
			Limit:  filter.Limit,
			Offset: filter.Offset,
		}, nil
	}

	unionSQL := strings.Join(unions, " UNION ALL ")

	var total int
	countSQL := "SELECT COUNT(*) FROM (" + unionSQL + ") j"
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count journal: %w", err)
	}

	query := unionSQL + " ORDER BY " + journalOrder(filter.SortBy, filter.SortOrder)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var items []reports.JournalItem
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("document journal: %w", err)
	}

	return &reports.Journal{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// journalOrder maps the filter sort fields onto union output columns.
// Values outside the known set fall back to date ordering.
func journalOrder(sortBy, sortOrder string) string {
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}

	switch sortBy {
	case "number":
		return "year " + dir + " NULLS LAST, number " + dir + " NULLS LAST"
	case "amount":
		return "total_amount " + dir
	default:
		return "issue_date " + dir + " NULLS LAST, created_at " + dir
	}
}

// Ensure interface compliance
var _ reports.Repository = (*ReportRepo)(nil)
