package types

import (
	"errors"
	"time"

	"github.com/marketloop/supportd/internal/database/types/enum"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrTicketClosed      = errors.New("ticket no longer accepts messages")
	ErrInvalidTransition = errors.New("transition not permitted from current status")
	ErrReopenExpired     = errors.New("reopen grace period has elapsed")
	ErrResponseRequired  = errors.New("resolution requires an admin response")
)

// SupportTicket represents a user support request in the database.
type SupportTicket struct {
	ID             int64               `bun:",pk,autoincrement"` // Unique numeric identifier
	TicketNumber   string              `bun:",notnull,unique"`   // Human-readable reference, immutable once assigned
	UserID         uint64              `bun:",notnull"`          // Owner of the ticket
	Category       enum.TicketCategory `bun:",notnull"`          // What the ticket is about
	Subject        string              `bun:",notnull"`          // Short summary
	Description    string              `bun:",notnull"`          // Detailed problem description
	Priority       enum.TicketPriority `bun:",notnull"`          // Urgency assigned at creation
	Status         enum.TicketStatus   `bun:",notnull"`          // Current lifecycle state
	AdminResponse  string              `bun:",nullzero"`         // Resolution text, set when resolved
	MessageCount   int                 `bun:",notnull"`          // Total messages in the thread
	UnreadMessages int                 `bun:",notnull"`          // Admin messages the user has not read yet
	CreatedAt      time.Time           `bun:",notnull"`          // When the ticket was created
	UpdatedAt      time.Time           `bun:",notnull"`          // Last mutation of any kind
	ResolvedAt     time.Time           `bun:",nullzero"`         // Set iff status is resolved or closed
}

// TicketMessage represents one entry in a ticket's conversation thread.
// Messages are append-only; they are never edited or deleted.
type TicketMessage struct {
	ID         int64           `bun:",pk,autoincrement"` // Unique identifier for the message
	TicketID   int64           `bun:",notnull"`          // Owning ticket
	SenderRole enum.SenderRole `bun:",notnull"`          // Which side sent the message
	SenderName string          `bun:",notnull"`          // Display name of the sender
	Content    string          `bun:",notnull"`          // Message body
	CreatedAt  time.Time       `bun:",notnull"`          // When the message was sent
}
