package company

import (
	"context"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/tx"
	"fakturo/internal/domain"
)

// Service provides business logic for the Company catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Company]
	repo Repository
}

// NewService creates a new Company service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Company]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "company",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkUnique)
	base.Hooks().On(domain.BeforeUpdate, svc.checkUnique)

	return svc
}

// checkUnique enforces code and VAT number uniqueness.
func (s *Service) checkUnique(ctx context.Context, c *Company) error {
	if c.Code == "" {
		return apperror.NewFieldValidation("code", "code is required")
	}

	if existing, err := s.repo.GetByCode(ctx, c.Code); err == nil && existing.ID != c.ID {
		return apperror.NewDuplicate("company", "code", c.Code)
	} else if err != nil && !apperror.IsNotFound(err) {
		return err
	}

	if c.VATNumber != nil && *c.VATNumber != "" {
		existing, err := s.repo.FindByVATNumber(ctx, *c.VATNumber)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil
			}
			return err
		}
		if existing.ID != c.ID {
			return apperror.NewDuplicate("company", "vatNumber", *c.VATNumber)
		}
	}

	return nil
}

// FindByVATNumber retrieves a company by VAT number.
func (s *Service) FindByVATNumber(ctx context.Context, vat string) (*Company, error) {
	return s.repo.FindByVATNumber(ctx, vat)
}

// GetDefault retrieves the default company for new documents.
func (s *Service) GetDefault(ctx context.Context) (*Company, error) {
	return s.repo.GetDefault(ctx)
}

// GetForUpdate retrieves a company with row lock.
func (s *Service) GetForUpdate(ctx context.Context, companyID id.ID) (*Company, error) {
	return s.repo.GetForUpdate(ctx, companyID)
}
