package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	GetDashboard(ctx context.Context, filter DashboardFilter) (*Dashboard, error)
	GetJournal(ctx context.Context, filter JournalFilter) (*Journal, error)
}
