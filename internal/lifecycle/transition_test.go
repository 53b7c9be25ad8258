package lifecycle_test

import (
	"testing"

	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/marketloop/supportd/internal/lifecycle"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTicket(t *testing.T) {
	t.Parallel()

	allowed := map[enum.TicketStatus][]enum.TicketStatus{
		enum.TicketStatusOpen:         {enum.TicketStatusInProgress},
		enum.TicketStatusInProgress:   {enum.TicketStatusAwaitingUser, enum.TicketStatusResolved},
		enum.TicketStatusAwaitingUser: {enum.TicketStatusInProgress},
		enum.TicketStatusResolved:     {enum.TicketStatusClosed, enum.TicketStatusInProgress},
		enum.TicketStatusClosed:       {},
	}

	statuses := []enum.TicketStatus{
		enum.TicketStatusOpen,
		enum.TicketStatusInProgress,
		enum.TicketStatusAwaitingUser,
		enum.TicketStatusResolved,
		enum.TicketStatusClosed,
	}

	for from, targets := range allowed {
		want := make(map[enum.TicketStatus]bool)
		for _, to := range targets {
			want[to] = true
		}

		for _, to := range statuses {
			got := lifecycle.CanTransitionTicket(from, to)
			assert.Equal(t, want[to], got, "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionAppeal(t *testing.T) {
	t.Parallel()

	allowed := map[enum.AppealStatus][]enum.AppealStatus{
		enum.AppealStatusPending: {
			enum.AppealStatusUnderReview,
			enum.AppealStatusApproved,
			enum.AppealStatusRejected,
		},
		enum.AppealStatusUnderReview: {enum.AppealStatusApproved, enum.AppealStatusRejected},
		enum.AppealStatusApproved:    {},
		enum.AppealStatusRejected:    {},
		enum.AppealStatusNotAppealed: {},
	}

	statuses := []enum.AppealStatus{
		enum.AppealStatusNotAppealed,
		enum.AppealStatusPending,
		enum.AppealStatusUnderReview,
		enum.AppealStatusApproved,
		enum.AppealStatusRejected,
	}

	for from, targets := range allowed {
		want := make(map[enum.AppealStatus]bool)
		for _, to := range targets {
			want[to] = true
		}

		for _, to := range statuses {
			got := lifecycle.CanTransitionAppeal(from, to)
			assert.Equal(t, want[to], got, "%s -> %s", from, to)
		}
	}
}

func TestTicketTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, lifecycle.TicketTerminal(enum.TicketStatusClosed))
	assert.False(t, lifecycle.TicketTerminal(enum.TicketStatusOpen))
	assert.False(t, lifecycle.TicketTerminal(enum.TicketStatusResolved))
}

func TestAppealTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, lifecycle.AppealTerminal(enum.AppealStatusApproved))
	assert.True(t, lifecycle.AppealTerminal(enum.AppealStatusRejected))
	assert.False(t, lifecycle.AppealTerminal(enum.AppealStatusPending))
	assert.False(t, lifecycle.AppealTerminal(enum.AppealStatusUnderReview))
}
