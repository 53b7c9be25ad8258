package lifecycle_test

import (
	"testing"
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/marketloop/supportd/internal/lifecycle"
	"github.com/stretchr/testify/assert"
)

func TestCanAppeal(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status enum.AppealStatus
		now    time.Time
		want   bool
	}{
		{
			name:   "not appealed before deadline",
			status: enum.AppealStatusNotAppealed,
			now:    deadline.Add(-time.Hour),
			want:   true,
		},
		{
			name:   "exactly at the deadline",
			status: enum.AppealStatusNotAppealed,
			now:    deadline,
			want:   false,
		},
		{
			name:   "past the deadline",
			status: enum.AppealStatusNotAppealed,
			now:    deadline.Add(time.Minute),
			want:   false,
		},
		{
			name:   "already appealed",
			status: enum.AppealStatusPending,
			now:    deadline.Add(-time.Hour),
			want:   false,
		},
		{
			name:   "already decided",
			status: enum.AppealStatusRejected,
			now:    deadline.Add(-time.Hour),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ad := &types.DeletedAd{AppealStatus: tt.status, AppealDeadline: deadline}
			assert.Equal(t, tt.want, lifecycle.CanAppeal(ad, tt.now))
		})
	}
}

func TestCanMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status enum.TicketStatus
		want   bool
	}{
		{enum.TicketStatusOpen, true},
		{enum.TicketStatusInProgress, true},
		{enum.TicketStatusAwaitingUser, true},
		{enum.TicketStatusResolved, false},
		{enum.TicketStatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			t.Parallel()

			ticket := &types.SupportTicket{Status: tt.status}
			assert.Equal(t, tt.want, lifecycle.CanMessage(ticket))
		})
	}
}

func TestCanReopen(t *testing.T) {
	t.Parallel()

	const grace = 7 * 24 * time.Hour

	resolvedAt := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     enum.TicketStatus
		resolvedAt time.Time
		now        time.Time
		want       bool
	}{
		{
			name:       "within grace",
			status:     enum.TicketStatusResolved,
			resolvedAt: resolvedAt,
			now:        resolvedAt.Add(3 * 24 * time.Hour),
			want:       true,
		},
		{
			name:       "one second before grace ends",
			status:     enum.TicketStatusResolved,
			resolvedAt: resolvedAt,
			now:        resolvedAt.Add(grace - time.Second),
			want:       true,
		},
		{
			name:       "exactly at grace end",
			status:     enum.TicketStatusResolved,
			resolvedAt: resolvedAt,
			now:        resolvedAt.Add(grace),
			want:       false,
		},
		{
			name:       "after grace",
			status:     enum.TicketStatusResolved,
			resolvedAt: resolvedAt,
			now:        resolvedAt.Add(grace + time.Hour),
			want:       false,
		},
		{
			name:   "not resolved",
			status: enum.TicketStatusInProgress,
			now:    resolvedAt,
			want:   false,
		},
		{
			name:       "closed ticket",
			status:     enum.TicketStatusClosed,
			resolvedAt: resolvedAt,
			now:        resolvedAt.Add(time.Hour),
			want:       false,
		},
		{
			name:   "resolved without timestamp",
			status: enum.TicketStatusResolved,
			now:    resolvedAt,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ticket := &types.SupportTicket{Status: tt.status, ResolvedAt: tt.resolvedAt}
			assert.Equal(t, tt.want, lifecycle.CanReopen(ticket, tt.now, grace))
		})
	}
}
