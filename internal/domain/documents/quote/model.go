// Package quote provides the Quote document and its lifecycle,
// including conversion into a draft invoice.
package quote

import (
	"context"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
	"fakturo/internal/domain/documents/line"
)

// Quote represents a price quote document. The DueDate of the embedded
// Document is the quote's valid-until date.
type Quote struct {
	entity.Document

	// Status drives the lifecycle state machine (see status.go)
	Status Status `db:"status" json:"status"`

	// Table part: line items, ordered by position
	Lines []line.Item `db:"-" json:"lines"`
}

// New creates a draft quote.
func New(companyID, customerID id.ID) *Quote {
	return &Quote{
		Document: entity.NewDocument(companyID, customerID),
		Status:   StatusDraft,
		Lines:    make([]line.Item, 0),
	}
}

// RecalculateTotals recomputes every line and refreshes the cached
// document aggregates.
func (q *Quote) RecalculateTotals() error {
	totals, err := line.AggregateItems(q.Lines)
	if err != nil {
		return err
	}
	q.ApplyTotals(totals.Subtotal, totals.Tax, totals.Total)
	return nil
}

// IsEditable reports whether line items may be mutated.
func (q *Quote) IsEditable() bool {
	return q.Status == StatusDraft
}

// CanModify returns an error if the quote is not editable.
func (q *Quote) CanModify() error {
	if !q.IsEditable() {
		return apperror.NewNotEditable(DocumentType, q.ID.String(), string(q.Status))
	}
	return nil
}

// Validate implements entity.Validatable.
func (q *Quote) Validate(ctx context.Context) error {
	if err := q.Document.Validate(ctx); err != nil {
		return err
	}

	if !q.Status.Valid() {
		return apperror.NewFieldValidation("status", "unknown quote status")
	}

	seen := make(map[int]struct{}, len(q.Lines))
	for i := range q.Lines {
		l := &q.Lines[i]
		if err := l.Validate(ctx); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("lineNo", i+1)
			}
			return err
		}
		if _, dup := seen[l.Position]; dup {
			return apperror.NewFieldValidation("position", "line position must be unique").
				WithDetail("lineNo", i+1)
		}
		seen[l.Position] = struct{}{}
	}

	return nil
}
