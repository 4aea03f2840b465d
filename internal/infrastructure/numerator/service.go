// Package numerator implements gapless document numbering on PostgreSQL.
package numerator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/numerator"
	"fakturo/internal/infrastructure/storage/postgres"
	"fakturo/pkg/logger"
)

const (
	// defaultLockTimeout bounds the wait on a contended sequence row.
	defaultLockTimeout = 3 * time.Second
)

// PostgreSQL error codes that signal a transient allocation failure.
const (
	pgLockNotAvailable   = "55P03"
	pgQueryCanceled      = "57014"
	pgSerializationError = "40001"
	pgDeadlockDetected   = "40P01"
)

// Service allocates sequential numbers from the doc_sequences table.
//
// The counter row is updated with a single atomic UPSERT; the row lock it
// takes is held until the surrounding transaction commits, which both
// serializes concurrent allocations within a scope and ties the allocated
// number to the fate of the document write. Allocation outside a
// transaction is rejected: a number handed out without the document commit
// would be a permanent gap.
type Service struct {
	txManager   *postgres.TxManager
	lockTimeout time.Duration
}

// NewService creates a PostgreSQL-backed allocator.
func NewService(txManager *postgres.TxManager) *Service {
	return &Service{
		txManager:   txManager,
		lockTimeout: defaultLockTimeout,
	}
}

// Next returns the next number for the scope.
func (s *Service) Next(ctx context.Context, scope numerator.Scope) (int, error) {
	if err := scope.Validate(); err != nil {
		return 0, apperror.NewValidation(err.Error())
	}
	if s.txManager.GetTx(ctx) == nil {
		return 0, apperror.NewInternal(
			fmt.Errorf("numerator: allocation for %s outside a transaction", scope))
	}

	q := s.txManager.GetQuerier(ctx)

	// SET LOCAL scopes the timeout to the current transaction.
	timeoutMs := s.lockTimeout.Milliseconds()
	if _, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeoutMs)); err != nil {
		return 0, fmt.Errorf("numerator: set lock timeout: %w", err)
	}

	const query = `
		INSERT INTO doc_sequences (company_id, doc_type, year, current_val)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, doc_type, year)
		DO UPDATE SET current_val = doc_sequences.current_val + 1
		RETURNING current_val`

	var number int
	err := q.QueryRow(ctx, query, scope.CompanyID, scope.DocType, scope.Year).Scan(&number)
	if err != nil {
		if isContention(err) {
			logger.Warn(ctx, "numerator contention", "scope", scope.String(), "error", err)
			return 0, apperror.NewRetryable("number allocation timed out, retry the operation").
				WithDetail("scope", scope.String())
		}
		return 0, fmt.Errorf("numerator: allocate %s: %w", scope, err)
	}

	logger.Debug(ctx, "number allocated", "scope", scope.String(), "number", number)
	return number, nil
}

// SetNext sets the next number the scope will return (migration support).
func (s *Service) SetNext(ctx context.Context, scope numerator.Scope, value int) error {
	if err := scope.Validate(); err != nil {
		return apperror.NewValidation(err.Error())
	}
	if value < 1 {
		return apperror.NewFieldValidation("value", "next number must be at least 1")
	}

	q := s.txManager.GetQuerier(ctx)

	// Stored value is the last issued number, so next = value means value-1.
	const query = `
		INSERT INTO doc_sequences (company_id, doc_type, year, current_val)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, doc_type, year)
		DO UPDATE SET current_val = EXCLUDED.current_val`

	if _, err := q.Exec(ctx, query, scope.CompanyID, scope.DocType, scope.Year, value-1); err != nil {
		return fmt.Errorf("numerator: set next for %s: %w", scope, err)
	}

	logger.Info(ctx, "sequence repositioned", "scope", scope.String(), "next", value)
	return nil
}

// isContention reports whether the error is a transient lock or cancel
// condition worth retrying.
func isContention(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errors.Is(err, context.DeadlineExceeded)
	}
	switch pgErr.Code {
	case pgLockNotAvailable, pgQueryCanceled, pgSerializationError, pgDeadlockDetected:
		return true
	}
	return false
}
