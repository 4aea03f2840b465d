package numerator

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/numerator"
	"fakturo/internal/infrastructure/storage/postgres"
)

func TestNext_RejectsInvalidScope(t *testing.T) {
	svc := NewService(&postgres.TxManager{})

	_, err := svc.Next(t.Context(), numerator.Scope{})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestNext_RejectsAllocationOutsideTransaction(t *testing.T) {
	svc := NewService(&postgres.TxManager{})
	scope := numerator.Scope{CompanyID: id.New(), DocType: numerator.DocTypeInvoice, Year: 2026}

	_, err := svc.Next(t.Context(), scope)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside a transaction")
}

func TestSetNext_RejectsValueBelowOne(t *testing.T) {
	svc := NewService(&postgres.TxManager{})
	scope := numerator.Scope{CompanyID: id.New(), DocType: numerator.DocTypeQuote, Year: 2026}

	err := svc.SetNext(t.Context(), scope, 0)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "value", appErr.Details["field"])
}

func TestIsContention(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"statement canceled", &pgconn.PgError{Code: "57014"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isContention(tt.err))
		})
	}
}
