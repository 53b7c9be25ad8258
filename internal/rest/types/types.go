package types

import "time"

// Ticket represents a support ticket in API responses.
type Ticket struct {
	ID             int64      `json:"id"`
	TicketNumber   string     `json:"ticketNumber"`
	UserID         uint64     `json:"userId"`
	Category       string     `json:"category"`
	Subject        string     `json:"subject"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	AdminResponse  string     `json:"adminResponse,omitempty"`
	MessageCount   int        `json:"messageCount"`
	UnreadMessages int        `json:"unreadMessages"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}

// Message represents a ticket thread entry in API responses.
type Message struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticketId"`
	SenderRole string    `json:"senderRole"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DeletedAd represents a removed advertisement in API responses.
// CanAppeal and DaysLeft are derived from the deadline at response time.
type DeletedAd struct {
	ID             int64     `json:"id"`
	AdID           int64     `json:"adId"`
	UserID         uint64    `json:"userId"`
	Title          string    `json:"title"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	ViolationType  string    `json:"violationType"`
	Reason         string    `json:"reason"`
	Severity       string    `json:"severity"`
	AppealStatus   string    `json:"appealStatus"`
	DeletedAt      time.Time `json:"deletedAt"`
	AppealDeadline time.Time `json:"appealDeadline"`
	CanAppeal      bool      `json:"canAppeal"`
	DaysLeft       int       `json:"daysLeft"`
}

// Appeal represents an ad deletion appeal in API responses.
type Appeal struct {
	ID            int64      `json:"id"`
	AppealNumber  string     `json:"appealNumber"`
	DeletedAdID   int64      `json:"deletedAdId"`
	Reason        string     `json:"reason"`
	Explanation   string     `json:"explanation"`
	Evidence      []string   `json:"evidence,omitempty"`
	Status        string     `json:"status"`
	AdminResponse string     `json:"adminResponse,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
}

// CreateTicketRequest is the body for opening a ticket.
type CreateTicketRequest struct {
	UserID      uint64 `json:"userId"`
	Category    string `json:"category"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// AddMessageRequest is the body for appending to a ticket thread.
type AddMessageRequest struct {
	SenderRole string `json:"senderRole"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
}

// UpdateTicketStatusRequest is the body for a ticket status transition.
type UpdateTicketStatusRequest struct {
	Status        string `json:"status"`
	AdminResponse string `json:"adminResponse,omitempty"`
}

// SubmitAppealRequest is the body for filing an appeal.
type SubmitAppealRequest struct {
	Reason      string   `json:"reason"`
	Explanation string   `json:"explanation"`
	Evidence    []string `json:"evidence,omitempty"`
}

// UpdateAppealStatusRequest is the body for moving an appeal through review.
type UpdateAppealStatusRequest struct {
	Status        string `json:"status"`
	AdminResponse string `json:"adminResponse,omitempty"`
}

// CanAppealResponse reports appeal eligibility for one deleted ad.
type CanAppealResponse struct {
	CanAppeal bool `json:"canAppeal"`
	Expired   bool `json:"expired"`
	DaysLeft  int  `json:"daysLeft"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
