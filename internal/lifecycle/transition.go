package lifecycle

import "github.com/marketloop/supportd/internal/database/types/enum"

// ticketTransitions is the adjacency table for ticket statuses. A status
// absent from the map is terminal.
var ticketTransitions = map[enum.TicketStatus][]enum.TicketStatus{
	enum.TicketStatusOpen: {
		enum.TicketStatusInProgress,
	},
	enum.TicketStatusInProgress: {
		enum.TicketStatusAwaitingUser,
		enum.TicketStatusResolved,
	},
	enum.TicketStatusAwaitingUser: {
		enum.TicketStatusInProgress,
	},
	enum.TicketStatusResolved: {
		enum.TicketStatusClosed,
		enum.TicketStatusInProgress, // reopen, gated by the grace period
	},
}

// appealTransitions is the adjacency table for appeal statuses. Approved
// and rejected are terminal; not_appealed never appears on an appeal row.
var appealTransitions = map[enum.AppealStatus][]enum.AppealStatus{
	enum.AppealStatusPending: {
		enum.AppealStatusUnderReview,
		enum.AppealStatusApproved,
		enum.AppealStatusRejected,
	},
	enum.AppealStatusUnderReview: {
		enum.AppealStatusApproved,
		enum.AppealStatusRejected,
	},
}

// CanTransitionTicket reports whether a ticket may move between the two
// statuses. The grace-period check for reopening is layered on top by the
// caller; this table only encodes shape.
func CanTransitionTicket(from, to enum.TicketStatus) bool {
	for _, next := range ticketTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionAppeal reports whether an appeal may move between the two
// statuses.
func CanTransitionAppeal(from, to enum.AppealStatus) bool {
	for _, next := range appealTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TicketTerminal reports whether no further ticket transitions exist.
func TicketTerminal(status enum.TicketStatus) bool {
	return len(ticketTransitions[status]) == 0
}

// AppealTerminal reports whether no further appeal transitions exist.
func AppealTerminal(status enum.AppealStatus) bool {
	return len(appealTransitions[status]) == 0
}
