package currency

import (
	"context"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/tx"
	"fakturo/internal/domain"
)

// Service provides business logic for the Currency catalog.
type Service struct {
	*domain.CatalogService[*Currency]
	repo Repository
}

// NewService creates a new Currency service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Currency]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "currency",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForSave)
	base.Hooks().On(domain.BeforeUpdate, svc.prepareForSave)
	base.Hooks().On(domain.BeforeDelete, svc.validateBeforeDelete)

	return svc
}

// prepareForSave defaults the code from the ISO code, enforces ISO code
// uniqueness and keeps at most one base currency.
func (s *Service) prepareForSave(ctx context.Context, curr *Currency) error {
	if curr.Code == "" && curr.ISOCode != nil {
		curr.Code = *curr.ISOCode
	}

	exists, err := s.checkISOCodeExists(ctx, curr.ISOCode, curr.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("currency", "isoCode", *curr.ISOCode)
	}

	if curr.IsBase {
		if err := s.repo.ClearBase(ctx); err != nil {
			return err
		}
	}

	return nil
}

// validateBeforeDelete prevents deletion of the base currency.
func (s *Service) validateBeforeDelete(_ context.Context, curr *Currency) error {
	if curr.IsBase {
		return apperror.NewValidation("cannot delete base currency")
	}
	return nil
}

// FindByISOCode retrieves currency by ISO code.
func (s *Service) FindByISOCode(ctx context.Context, isoCode string) (*Currency, error) {
	return s.repo.FindByISOCode(ctx, isoCode)
}

func (s *Service) checkISOCodeExists(ctx context.Context, isoCode *string, excludeID id.ID) (bool, error) {
	if isoCode == nil || *isoCode == "" {
		return false, nil
	}
	existing, err := s.repo.FindByISOCode(ctx, *isoCode)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}
