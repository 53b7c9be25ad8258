package lifecycle

import (
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
)

// CanAppeal reports whether an appeal may be filed for the deleted ad at
// the given instant. True only while no appeal exists and the deadline has
// not passed; a reference exactly at the deadline is too late.
func CanAppeal(ad *types.DeletedAd, now time.Time) bool {
	return ad.AppealStatus == enum.AppealStatusNotAppealed && now.Before(ad.AppealDeadline)
}

// CanMessage reports whether the ticket's thread still accepts new
// messages. Resolved and closed tickets are read-only.
func CanMessage(ticket *types.SupportTicket) bool {
	switch ticket.Status {
	case enum.TicketStatusOpen, enum.TicketStatusInProgress, enum.TicketStatusAwaitingUser:
		return true
	default:
		return false
	}
}

// CanReopen reports whether a resolved ticket may return to in_progress.
// Reopening is only permitted while the grace period since resolution has
// not elapsed; afterwards the maintenance sweep closes the ticket for good.
func CanReopen(ticket *types.SupportTicket, now time.Time, grace time.Duration) bool {
	if ticket.Status != enum.TicketStatusResolved || ticket.ResolvedAt.IsZero() {
		return false
	}
	return now.Before(ticket.ResolvedAt.Add(grace))
}
