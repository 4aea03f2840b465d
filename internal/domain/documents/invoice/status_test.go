package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
)

var allActions = []Action{ActionDraft, ActionIssue, ActionPay, ActionOverdue, ActionArchive}

func TestNext_FullTable(t *testing.T) {
	// expected holds every permitted (from, action) cell; everything else fails.
	expected := map[Status]map[Action]Status{
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

	for from, row := range expected {
		for _, action := range allActions {
			want, permitted := row[action]
			got, err := Next(from, action)

			if permitted {
				require.NoError(t, err, "%s + %s", from, action)
				assert.Equal(t, want, got, "%s + %s", from, action)
				continue
			}

			require.Error(t, err, "%s + %s must fail", from, action)
			assert.True(t, apperror.IsInvalidTransition(err), "%s + %s", from, action)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, string(from), appErr.Details["status"])
			assert.Equal(t, string(action), appErr.Details["action"])
		}
	}
}

func TestNext_IdempotentReentryIsNoop(t *testing.T) {
	noops := map[Status]Action{
		StatusDraft:    ActionDraft,
		StatusIssued:   ActionIssue,
		StatusPaid:     ActionPay,
		StatusOverdue:  ActionOverdue,
		StatusArchived: ActionArchive,
	}

	for status, action := range noops {
		got, err := Next(status, action)
		require.NoError(t, err, "%s + %s", status, action)
		assert.Equal(t, status, got, "re-entering %s must leave status unchanged", status)
	}
}

func TestNext_UnknownStatusFails(t *testing.T) {
	_, err := Next(Status("SHREDDED"), ActionIssue)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusIssued, StatusPaid, StatusOverdue, StatusArchived} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("PENDING").Valid())
	assert.False(t, Status("").Valid())
}
