package convert

import (
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/lifecycle"
	restTypes "github.com/marketloop/supportd/internal/rest/types"
)

// DeletedAd converts a database deleted ad to its REST API shape.
// Eligibility and the countdown are derived against now, never stored.
func DeletedAd(ad *types.DeletedAd, now time.Time) *restTypes.DeletedAd {
	if ad == nil {
		return nil
	}

	countdown := lifecycle.Remaining(now, ad.AppealDeadline)

	return &restTypes.DeletedAd{
		ID:             ad.ID,
		AdID:           ad.AdID,
		UserID:         ad.UserID,
		Title:          ad.Title,
		ImageURL:       ad.ImageURL,
		ViolationType:  ad.ViolationType,
		Reason:         ad.Reason.String(),
		Severity:       ad.Severity.String(),
		AppealStatus:   ad.AppealStatus.String(),
		DeletedAt:      ad.DeletedAt,
		AppealDeadline: ad.AppealDeadline,
		CanAppeal:      lifecycle.CanAppeal(ad, now),
		DaysLeft:       countdown.Days,
	}
}

// DeletedAds converts a slice of database deleted ads.
func DeletedAds(ads []*types.DeletedAd, now time.Time) []*restTypes.DeletedAd {
	result := make([]*restTypes.DeletedAd, len(ads))
	for i, ad := range ads {
		result[i] = DeletedAd(ad, now)
	}

	return result
}

// Appeal converts a database appeal to its REST API shape.
func Appeal(appeal *types.Appeal) *restTypes.Appeal {
	if appeal == nil {
		return nil
	}

	return &restTypes.Appeal{
		ID:            appeal.ID,
		AppealNumber:  appeal.AppealNumber,
		DeletedAdID:   appeal.DeletedAdID,
		Reason:        appeal.Reason,
		Explanation:   appeal.Explanation,
		Evidence:      appeal.Evidence,
		Status:        appeal.Status.String(),
		AdminResponse: appeal.AdminResponse,
		CreatedAt:     appeal.CreatedAt,
		ReviewedAt:    optionalTime(appeal.ReviewedAt),
	}
}

// Appeals converts a slice of database appeals.
func Appeals(appeals []*types.Appeal) []*restTypes.Appeal {
	result := make([]*restTypes.Appeal, len(appeals))
	for i, a := range appeals {
		result[i] = Appeal(a)
	}

	return result
}
