package service

import (
	"context"
	"fmt"
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/marketloop/supportd/internal/lifecycle"
	"github.com/marketloop/supportd/pkg/utils"
	"go.uber.org/zap"
)

// TicketService handles ticket-related business logic.
type TicketService struct {
	tickets     TicketStore
	messages    MessageStore
	reopenGrace time.Duration
	logger      *zap.Logger
}

// NewTicket creates a new ticket service.
func NewTicket(
	tickets TicketStore,
	messages MessageStore,
	reopenGrace time.Duration,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		tickets:     tickets,
		messages:    messages,
		reopenGrace: reopenGrace,
		logger:      logger.Named("ticket_service"),
	}
}

// CreateTicket validates the input and opens a new ticket. Leading and
// trailing whitespace never counts toward the length limits.
func (s *TicketService) CreateTicket(
	ctx context.Context, userID uint64, category enum.TicketCategory,
	subject, description string, priority enum.TicketPriority,
) (*types.SupportTicket, error) {
	subject = utils.CleanupText(subject)
	description = utils.CleanupText(description)

	if err := lifecycle.ValidateTicketInput(subject, description); err != nil {
		return nil, err
	}

	now := time.Now()
	ticket := &types.SupportTicket{
		TicketNumber: lifecycle.TicketNumber(),
		UserID:       userID,
		Category:     category,
		Subject:      subject,
		Description:  description,
		Priority:     priority,
		Status:       enum.TicketStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tickets.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

// GetTicket retrieves a single ticket by ID.
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64) (*types.SupportTicket, error) {
	return s.tickets.GetTicket(ctx, ticketID)
}

// GetTicketsByUser lists a user's tickets, newest first.
func (s *TicketService) GetTicketsByUser(ctx context.Context, userID uint64) ([]*types.SupportTicket, error) {
	return s.tickets.GetTicketsByUser(ctx, userID)
}

// GetMessages returns the full conversation thread for a ticket.
func (s *TicketService) GetMessages(ctx context.Context, ticketID int64) ([]*types.TicketMessage, error) {
	if _, err := s.tickets.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}

	return s.messages.GetMessages(ctx, ticketID)
}

// AddMessage appends a message to a ticket's thread. Resolved and closed
// tickets no longer accept messages; the store re-checks that under lock,
// so the early check here only spares a doomed round trip. A user reply to
// a ticket waiting on the user puts it back in progress; an admin message
// leaves a question pending and bumps the user's unread counter.
func (s *TicketService) AddMessage(
	ctx context.Context, ticketID int64, role enum.SenderRole, senderName, content string,
) (*types.TicketMessage, error) {
	content = utils.CleanupText(content)

	if err := lifecycle.ValidateMessage(content); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !lifecycle.CanMessage(ticket) {
		return nil, fmt.Errorf("%w (ticketID=%d, status=%s)",
			types.ErrTicketClosed, ticketID, ticket.Status)
	}

	message := &types.TicketMessage{
		TicketID:   ticketID,
		SenderRole: role,
		SenderName: senderName,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	if err := s.messages.AddMessage(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// MarkMessagesRead clears a ticket's unread counter.
func (s *TicketService) MarkMessagesRead(ctx context.Context, ticketID int64) error {
	return s.messages.MarkMessagesRead(ctx, ticketID)
}

// Transition moves a ticket to a new status. Resolving requires a non-empty
// admin response; reopening is only allowed within the grace period after
// resolution. The store refuses the write if the ticket's status moved
// between the read here and the commit.
func (s *TicketService) Transition(
	ctx context.Context, ticketID int64, to enum.TicketStatus, adminResponse string,
) (*types.SupportTicket, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	from := ticket.Status

	if !lifecycle.CanTransitionTicket(from, to) {
		return nil, fmt.Errorf("%w (ticketID=%d, from=%s, to=%s)",
			types.ErrInvalidTransition, ticketID, from, to)
	}

	now := time.Now()
	adminResponse = utils.CleanupText(adminResponse)

	switch {
	case to == enum.TicketStatusResolved:
		if adminResponse == "" {
			return nil, fmt.Errorf("%w (ticketID=%d)", types.ErrResponseRequired, ticketID)
		}

		ticket.AdminResponse = adminResponse
		ticket.ResolvedAt = now

	case from == enum.TicketStatusResolved && to == enum.TicketStatusInProgress:
		// Reopen path
		if !lifecycle.CanReopen(ticket, now, s.reopenGrace) {
			return nil, fmt.Errorf("%w (ticketID=%d, resolvedAt=%s)",
				types.ErrReopenExpired, ticketID, ticket.ResolvedAt)
		}

		ticket.ResolvedAt = time.Time{}
	}

	ticket.Status = to
	ticket.UpdatedAt = now

	err = s.tickets.UpdateStatus(ctx, ticketID, from, to, ticket.AdminResponse, ticket.ResolvedAt, now)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Transitioned ticket",
		zap.Int64("ticketID", ticketID),
		zap.String("to", to.String()))

	return ticket, nil
}
