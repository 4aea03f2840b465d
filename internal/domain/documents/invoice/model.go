// Package invoice provides the Invoice document and its lifecycle.
package invoice

import (
	"context"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
	"fakturo/internal/domain/documents/line"
)

// Invoice represents an outgoing invoice document.
type Invoice struct {
	entity.Document

	// Status drives the lifecycle state machine (see status.go)
	Status Status `db:"status" json:"status"`

	// SourceQuoteID references the quote this invoice was converted from
	SourceQuoteID *id.ID `db:"source_quote_id" json:"sourceQuoteId,omitempty"`

	// Table part: line items, ordered by position
	Lines []line.Item `db:"-" json:"lines"`
}

// New creates a draft invoice.
func New(companyID, customerID id.ID) *Invoice {
	return &Invoice{
		Document: entity.NewDocument(companyID, customerID),
		Status:   StatusDraft,
		Lines:    make([]line.Item, 0),
	}
}

// RecalculateTotals recomputes every line and refreshes the cached
// document aggregates. Must run after any line mutation and before any
// read of the totals.
func (inv *Invoice) RecalculateTotals() error {
	totals, err := line.AggregateItems(inv.Lines)
	if err != nil {
		return err
	}
	inv.ApplyTotals(totals.Subtotal, totals.Tax, totals.Total)
	return nil
}

// IsEditable reports whether line items may be mutated.
// Only drafts are editable.
func (inv *Invoice) IsEditable() bool {
	return inv.Status == StatusDraft
}

// CanModify returns an error if the invoice is not editable.
func (inv *Invoice) CanModify() error {
	if !inv.IsEditable() {
		return apperror.NewNotEditable(DocumentType, inv.ID.String(), string(inv.Status))
	}
	return nil
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if !inv.Status.Valid() {
		return apperror.NewFieldValidation("status", "unknown invoice status")
	}

	seen := make(map[int]struct{}, len(inv.Lines))
	for i := range inv.Lines {
		l := &inv.Lines[i]
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
