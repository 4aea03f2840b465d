package customer

import (
	"context"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/tx"
	"fakturo/internal/domain"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkVATUnique)
	base.Hooks().On(domain.BeforeUpdate, svc.checkVATUnique)

	return svc
}

// checkVATUnique enforces VAT number uniqueness across customers.
func (s *Service) checkVATUnique(ctx context.Context, c *Customer) error {
	if c.VATNumber == nil || *c.VATNumber == "" {
		return nil
	}

	existing, err := s.repo.FindByVATNumber(ctx, *c.VATNumber)
	if err != nil {
		// Not found is OK; other errors must be propagated.
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewDuplicate("customer", "vatNumber", *c.VATNumber)
	}
	return nil
}

// FindByVATNumber retrieves a customer by VAT number.
func (s *Service) FindByVATNumber(ctx context.Context, vat string) (*Customer, error) {
	return s.repo.FindByVATNumber(ctx, vat)
}

// GetForUpdate retrieves a customer with row lock.
func (s *Service) GetForUpdate(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetForUpdate(ctx, customerID)
}
