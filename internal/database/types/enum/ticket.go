package enum

import "fmt"

// TicketStatus represents the lifecycle state of a support ticket.
type TicketStatus int

const (
	// TicketStatusOpen is the initial state of a newly created ticket.
	TicketStatusOpen TicketStatus = iota
	// TicketStatusInProgress indicates an agent is actively working the ticket.
	TicketStatusInProgress
	// TicketStatusAwaitingUser indicates the agent is waiting on the user.
	TicketStatusAwaitingUser
	// TicketStatusResolved indicates the agent has posted a resolution.
	TicketStatusResolved
	// TicketStatusClosed is the terminal state; no further transitions.
	TicketStatusClosed
)

var ticketStatusNames = map[TicketStatus]string{
	TicketStatusOpen:         "open",
	TicketStatusInProgress:   "in_progress",
	TicketStatusAwaitingUser: "awaiting_user",
	TicketStatusResolved:     "resolved",
	TicketStatusClosed:       "closed",
}

func (s TicketStatus) String() string {
	if name, ok := ticketStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TicketStatus(%d)", int(s))
}

// ParseTicketStatus converts a wire-format status name to its enum value.
func ParseTicketStatus(s string) (TicketStatus, error) {
	for status, name := range ticketStatusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid TicketStatus", s)
}

// TicketPriority represents the urgency assigned to a ticket.
type TicketPriority int

const (
	TicketPriorityLow TicketPriority = iota
	TicketPriorityMedium
	TicketPriorityHigh
	TicketPriorityUrgent
)

var ticketPriorityNames = map[TicketPriority]string{
	TicketPriorityLow:    "low",
	TicketPriorityMedium: "medium",
	TicketPriorityHigh:   "high",
	TicketPriorityUrgent: "urgent",
}

func (p TicketPriority) String() string {
	if name, ok := ticketPriorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TicketPriority(%d)", int(p))
}

// ParseTicketPriority converts a wire-format priority name to its enum value.
func ParseTicketPriority(s string) (TicketPriority, error) {
	for priority, name := range ticketPriorityNames {
		if name == s {
			return priority, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid TicketPriority", s)
}

// TicketCategory classifies what a support ticket is about.
type TicketCategory int

const (
	TicketCategoryDeletedAds TicketCategory = iota
	TicketCategoryAdAppeal
	TicketCategoryGeneral
	TicketCategoryTechnical
	TicketCategoryBilling
	TicketCategoryAccount
	TicketCategoryOther
)

var ticketCategoryNames = map[TicketCategory]string{
	TicketCategoryDeletedAds: "deleted_ads",
	TicketCategoryAdAppeal:   "ad_appeal",
	TicketCategoryGeneral:    "general",
	TicketCategoryTechnical:  "technical",
	TicketCategoryBilling:    "billing",
	TicketCategoryAccount:    "account",
	TicketCategoryOther:      "other",
}

func (c TicketCategory) String() string {
	if name, ok := ticketCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("TicketCategory(%d)", int(c))
}

// ParseTicketCategory converts a wire-format category name to its enum value.
func ParseTicketCategory(s string) (TicketCategory, error) {
	for category, name := range ticketCategoryNames {
		if name == s {
			return category, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid TicketCategory", s)
}

// SenderRole represents which side of a ticket conversation sent a message.
type SenderRole int

const (
	SenderRoleUser SenderRole = iota
	SenderRoleAdmin
)

func (r SenderRole) String() string {
	switch r {
	case SenderRoleUser:
		return "user"
	case SenderRoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("SenderRole(%d)", int(r))
	}
}

// ParseSenderRole converts a wire-format role name to its enum value.
func ParseSenderRole(s string) (SenderRole, error) {
	switch s {
	case "user":
		return SenderRoleUser, nil
	case "admin":
		return SenderRoleAdmin, nil
	default:
		return 0, fmt.Errorf("%q is not a valid SenderRole", s)
	}
}
