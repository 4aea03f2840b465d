package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain/catalogs/company"
	"fakturo/internal/infrastructure/storage/postgres"
)

const companyTable = "cat_companies"

// CompanyRepo implements company.Repository.
type CompanyRepo struct {
	*BaseCatalogRepo[*company.Company]
}

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(txManager *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			companyTable,
			postgres.ExtractDBColumns[company.Company](),
			func() *company.Company { return &company.Company{} },
		),
	}
}

// FindByVATNumber retrieves a company by VAT number.
func (r *CompanyRepo) FindByVATNumber(ctx context.Context, vat string) (*company.Company, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"vat_number": vat}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c company.Company
	if err := pgxscan.Get(ctx, r.querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("company", vat)
		}
		return nil, fmt.Errorf("find by vat number: %w", err)
	}

	return &c, nil
}

// GetDefault retrieves the company marked as default.
func (r *CompanyRepo) GetDefault(ctx context.Context) (*company.Company, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"is_default": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c company.Company
	if err := pgxscan.Get(ctx, r.querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("company", "default")
		}
		return nil, fmt.Errorf("get default company: %w", err)
	}

	return &c, nil
}

// ListActiveIDs returns the ids of all companies not marked for
// deletion, ordered by name. Used by the backup scheduler.
func (r *CompanyRepo) ListActiveIDs(ctx context.Context) ([]id.ID, error) {
	q := r.Builder().
		Select("id").
		From(companyTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []id.ID
	if err := pgxscan.Select(ctx, r.querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list active company ids: %w", err)
	}

	return ids, nil
}
