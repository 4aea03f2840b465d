package reports

import (
	"context"
	"fmt"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetDashboard returns per-status document aggregates for one company.
func (s *Service) GetDashboard(ctx context.Context, filter DashboardFilter) (*Dashboard, error) {
	if id.IsNil(filter.CompanyID) {
		return nil, apperror.NewFieldValidation("companyId", "company is required")
	}

	dashboard, err := s.repo.GetDashboard(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return dashboard, nil
}

// GetJournal returns the cross-type document journal.
func (s *Service) GetJournal(ctx context.Context, filter JournalFilter) (*Journal, error) {
	if id.IsNil(filter.CompanyID) {
		return nil, apperror.NewFieldValidation("companyId", "company is required")
	}

	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.SortBy == "" {
		filter.SortBy = "date"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}

	journal, err := s.repo.GetJournal(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}
	return journal, nil
}
