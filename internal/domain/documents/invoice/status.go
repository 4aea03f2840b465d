package invoice

import (
	"fakturo/internal/core/apperror"
)

// DocumentType identifies invoices in errors and numbering scopes.
const DocumentType = "invoice"

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusIssued   Status = "ISSUED"
	StatusPaid     Status = "PAID"
	StatusOverdue  Status = "OVERDUE"
	StatusArchived Status = "ARCHIVED"
)

// Valid reports whether s is a known invoice status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusIssued, StatusPaid, StatusOverdue, StatusArchived:
		return true
	}
	return false
}

// Action is a named lifecycle transition.
type Action string

const (
	ActionDraft   Action = "draft"
	ActionIssue   Action = "issue"
	ActionPay     Action = "pay"
	ActionOverdue Action = "overdue"
	ActionArchive Action = "archive"
)

// transitions maps (current status, action) to the resulting status.
// A cell targeting the current status is an idempotent no-op. A missing
// cell is an invalid transition and never silently no-ops.
var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionDraft:   StatusDraft,
		ActionIssue:   StatusIssued,
		ActionArchive: StatusArchived,
	},
	StatusIssued: {
		ActionIssue:   StatusIssued,
		ActionPay:     StatusPaid,
		ActionOverdue: StatusOverdue,
	},
	StatusOverdue: {
		ActionPay:     StatusPaid,
		ActionOverdue: StatusOverdue,
		ActionArchive: StatusArchived,
	},
	StatusPaid: {
		ActionPay: StatusPaid,
	},
	StatusArchived: {
		ActionArchive: StatusArchived,
	},
}

// Next resolves a lifecycle action against the current status.
// Pure: callers apply side effects (numbering, issue date) themselves.
func Next(current Status, action Action) (Status, error) {
	if row, ok := transitions[current]; ok {
		if next, ok := row[action]; ok {
			return next, nil
		}
	}
	return "", apperror.NewInvalidTransition(DocumentType, string(current), string(action))
}
