package lifecycle

import (
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
)

// FoldTicketStats derives per-status counts from ticket statuses. Counts
// are recomputed on every call; nothing is cached where it could drift.
func FoldTicketStats(statuses []enum.TicketStatus) types.TicketStats {
	var stats types.TicketStats
	for _, status := range statuses {
		switch status {
		case enum.TicketStatusOpen:
			stats.Open++
		case enum.TicketStatusInProgress:
			stats.InProgress++
		case enum.TicketStatusAwaitingUser:
			stats.AwaitingUser++
		case enum.TicketStatusResolved:
			stats.Resolved++
		case enum.TicketStatusClosed:
			stats.Closed++
		}
	}

	stats.Total = len(statuses)

	return stats
}

// FoldAppealStats derives deleted-ad and appeal counts. The can_appeal
// count depends on now because eligibility expires with the deadline.
func FoldAppealStats(ads []*types.DeletedAd, now time.Time) types.AppealStats {
	stats := types.AppealStats{TotalDeleted: len(ads)}

	for _, ad := range ads {
		if CanAppeal(ad, now) {
			stats.CanAppeal++
		}

		switch ad.AppealStatus {
		case enum.AppealStatusPending, enum.AppealStatusUnderReview:
			stats.Pending++
		case enum.AppealStatusApproved:
			stats.Approved++
		case enum.AppealStatusRejected:
			stats.Rejected++
		}
	}

	return stats
}
