package enum

import "fmt"

// AdSeverity grades how serious the violation behind an ad deletion was.
type AdSeverity int

const (
	AdSeverityLow AdSeverity = iota
	AdSeverityMedium
	AdSeverityHigh
)

var adSeverityNames = map[AdSeverity]string{
	AdSeverityLow:    "low",
	AdSeverityMedium: "medium",
	AdSeverityHigh:   "high",
}

func (s AdSeverity) String() string {
	if name, ok := adSeverityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AdSeverity(%d)", int(s))
}

// ParseAdSeverity converts a wire-format severity name to its enum value.
func ParseAdSeverity(s string) (AdSeverity, error) {
	for severity, name := range adSeverityNames {
		if name == s {
			return severity, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid AdSeverity", s)
}

// DeletionReason records why an ad was taken down.
type DeletionReason int

const (
	DeletionReasonUserRequest DeletionReason = iota
	DeletionReasonPolicyViolation
	DeletionReasonExpired
	DeletionReasonSold
	DeletionReasonAdminAction
	DeletionReasonSpam
	DeletionReasonInappropriate
)

var deletionReasonNames = map[DeletionReason]string{
	DeletionReasonUserRequest:     "user_request",
	DeletionReasonPolicyViolation: "policy_violation",
	DeletionReasonExpired:         "expired",
	DeletionReasonSold:            "sold",
	DeletionReasonAdminAction:     "admin_action",
	DeletionReasonSpam:            "spam",
	DeletionReasonInappropriate:   "inappropriate",
}

func (r DeletionReason) String() string {
	if name, ok := deletionReasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("DeletionReason(%d)", int(r))
}

// ParseDeletionReason converts a wire-format reason name to its enum value.
func ParseDeletionReason(s string) (DeletionReason, error) {
	for reason, name := range deletionReasonNames {
		if name == s {
			return reason, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid DeletionReason", s)
}
