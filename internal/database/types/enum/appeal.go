package enum

import "fmt"

// AppealStatus represents the review state of an ad-deletion appeal.
// NotAppealed only ever appears on the deleted ad itself; an Appeal row
// starts at Pending. UnderReview is the inverse: it only ever appears on
// the appeal, while the ad's mirrored status stays Pending during review.
type AppealStatus int

const (
	AppealStatusNotAppealed AppealStatus = iota
	AppealStatusPending
	AppealStatusUnderReview
	// AppealStatusApproved is terminal; the ad becomes re-listable.
	AppealStatusApproved
	// AppealStatusRejected is terminal; no further appeal for the ad.
	AppealStatusRejected
)

var appealStatusNames = map[AppealStatus]string{
	AppealStatusNotAppealed: "not_appealed",
	AppealStatusPending:     "pending",
	AppealStatusUnderReview: "under_review",
	AppealStatusApproved:    "approved",
	AppealStatusRejected:    "rejected",
}

func (s AppealStatus) String() string {
	if name, ok := appealStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AppealStatus(%d)", int(s))
}

// ParseAppealStatus converts a wire-format status name to its enum value.
func ParseAppealStatus(s string) (AppealStatus, error) {
	for status, name := range appealStatusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid AppealStatus", s)
}
