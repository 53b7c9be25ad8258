package convert

import (
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	restTypes "github.com/marketloop/supportd/internal/rest/types"
)

// Ticket converts a database ticket to its REST API shape.
func Ticket(ticket *types.SupportTicket) *restTypes.Ticket {
	if ticket == nil {
		return nil
	}

	return &restTypes.Ticket{
		ID:             ticket.ID,
		TicketNumber:   ticket.TicketNumber,
		UserID:         ticket.UserID,
		Category:       ticket.Category.String(),
		Subject:        ticket.Subject,
		Description:    ticket.Description,
		Priority:       ticket.Priority.String(),
		Status:         ticket.Status.String(),
		AdminResponse:  ticket.AdminResponse,
		MessageCount:   ticket.MessageCount,
		UnreadMessages: ticket.UnreadMessages,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
		ResolvedAt:     optionalTime(ticket.ResolvedAt),
	}
}

// Tickets converts a slice of database tickets.
func Tickets(tickets []*types.SupportTicket) []*restTypes.Ticket {
	result := make([]*restTypes.Ticket, len(tickets))
	for i, t := range tickets {
		result[i] = Ticket(t)
	}

	return result
}

// Message converts a database ticket message to its REST API shape.
func Message(message *types.TicketMessage) *restTypes.Message {
	if message == nil {
		return nil
	}

	return &restTypes.Message{
		ID:         message.ID,
		TicketID:   message.TicketID,
		SenderRole: message.SenderRole.String(),
		SenderName: message.SenderName,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt,
	}
}

// Messages converts a slice of database ticket messages.
func Messages(messages []*types.TicketMessage) []*restTypes.Message {
	result := make([]*restTypes.Message, len(messages))
	for i, m := range messages {
		result[i] = Message(m)
	}

	return result
}

// optionalTime maps the zero time to an absent JSON field.
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
