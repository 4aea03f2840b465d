package quote

import (
	"fakturo/internal/core/apperror"
)

// DocumentType identifies quotes in errors and numbering scopes.
const DocumentType = "quote"

// Status is the lifecycle state of a quote.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusExpired   Status = "EXPIRED"
	StatusConverted Status = "CONVERTED"
	StatusArchived  Status = "ARCHIVED"
)

// Valid reports whether s is a known quote status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected,
		StatusExpired, StatusConverted, StatusArchived:
		return true
	}
	return false
}

// Action is a named lifecycle transition.
type Action string

const (
	ActionDraft   Action = "draft"
	ActionSend    Action = "send"
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionExpire  Action = "expire"
	ActionConvert Action = "convert"
	ActionArchive Action = "archive"
)

// transitions maps (current status, action) to the resulting status.
// A cell targeting the current status is an idempotent no-op. A missing
// cell is an invalid transition. Rejected quotes may be reopened as
// drafts for another round of negotiation; they keep their number.
var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionDraft:   StatusDraft,
		ActionSend:    StatusSent,
		ActionArchive: StatusArchived,
	},
	StatusSent: {
		ActionSend:    StatusSent,
		ActionAccept:  StatusAccepted,
		ActionReject:  StatusRejected,
		ActionExpire:  StatusExpired,
		ActionArchive: StatusArchived,
	},
	StatusAccepted: {
		ActionAccept:  StatusAccepted,
		ActionConvert: StatusConverted,
		ActionArchive: StatusArchived,
	},
	StatusRejected: {
		ActionReject:  StatusRejected,
		ActionDraft:   StatusDraft,
		ActionArchive: StatusArchived,
	},
	StatusExpired: {
		ActionExpire:  StatusExpired,
		ActionArchive: StatusArchived,
	},
	StatusConverted: {
		ActionConvert: StatusConverted,
		ActionArchive: StatusArchived,
	},
	StatusArchived: {
		ActionArchive: StatusArchived,
	},
}

// Next resolves a lifecycle action against the current status.
// Pure: callers apply side effects (numbering, conversion) themselves.
func Next(current Status, action Action) (Status, error) {
	if row, ok := transitions[current]; ok {
		if next, ok := row[action]; ok {
			return next, nil
		}
	}
	return "", apperror.NewInvalidTransition(DocumentType, string(current), string(action))
}
