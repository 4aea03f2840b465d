package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
)

var allActions = []Action{
	ActionDraft, ActionSend, ActionAccept, ActionReject,
	ActionExpire, ActionConvert, ActionArchive,
}

func TestNext_FullTable(t *testing.T) {
	expected := map[Status]map[Action]Status{
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
		}
	}
}

func TestNext_RejectedQuoteCanBeReopened(t *testing.T) {
	got, err := Next(StatusRejected, ActionDraft)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got)
}

func TestNext_SentQuoteCanBeArchived(t *testing.T) {
	got, err := Next(StatusSent, ActionArchive)
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, got)
}

func TestNext_SentQuoteCannotConvertDirectly(t *testing.T) {
	_, err := Next(StatusSent, ActionConvert)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestStatus_Valid(t *testing.T) {
	valid := []Status{
		StatusDraft, StatusSent, StatusAccepted, StatusRejected,
		StatusExpired, StatusConverted, StatusArchived,
	}
	for _, s := range valid {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("LOST").Valid())
}
