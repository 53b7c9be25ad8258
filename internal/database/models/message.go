package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marketloop/supportd/internal/database/dbretry"
	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/marketloop/supportd/internal/lifecycle"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// MessageModel handles database operations for ticket messages.
type MessageModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewMessage creates a new message model.
func NewMessage(db *bun.DB, logger *zap.Logger) *MessageModel {
	return &MessageModel{
		db:     db,
		logger: logger.Named("db_message"),
	}
}

// GetMessages retrieves the full conversation thread for a ticket in send
// order. Ties on created_at are broken by insertion order.
func (r *MessageModel) GetMessages(ctx context.Context, ticketID int64) ([]*types.TicketMessage, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.TicketMessage, error) {
		var messages []*types.TicketMessage

		err := r.db.NewSelect().
			Model(&messages).
			Where("ticket_id = ?", ticketID).
			Order("created_at ASC", "id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get messages: %w (ticketID=%d)", err, ticketID)
		}

		return messages, nil
	})
}

// GetMessagesAfter retrieves messages with an ID greater than afterID.
// Used by pollers to fetch only what arrived since the last delivery.
func (r *MessageModel) GetMessagesAfter(
	ctx context.Context, ticketID, afterID int64,
) ([]*types.TicketMessage, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.TicketMessage, error) {
		var messages []*types.TicketMessage

		err := r.db.NewSelect().
			Model(&messages).
			Where("ticket_id = ?", ticketID).
			Where("id > ?", afterID).
			Order("created_at ASC", "id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to get messages after: %w (ticketID=%d, afterID=%d)",
				err, ticketID, afterID,
			)
		}

		return messages, nil
	})
}

// AddMessage appends a message and updates the owning ticket's thread
// counters in the same transaction. The ticket row is locked first and its
// status re-checked, so a message racing a resolve or close is refused, and
// the counter bumps are relative so concurrent messages never lose updates.
func (r *MessageModel) AddMessage(ctx context.Context, message *types.TicketMessage) error {
	return dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		ticket := new(types.SupportTicket)

		err := tx.NewSelect().
			Model(ticket).
			Where("id = ?", message.TicketID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrTicketNotFound
			}

			return fmt.Errorf("failed to lock ticket: %w (ticketID=%d)", err, message.TicketID)
		}

		if !lifecycle.CanMessage(ticket) {
			return fmt.Errorf("%w (ticketID=%d, status=%s)",
				types.ErrTicketClosed, message.TicketID, ticket.Status)
		}

		// Append the message
		_, err = tx.NewInsert().Model(message).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create message: %w (ticketID=%d)", err, message.TicketID)
		}

		// Bump the thread counters relative to the locked row
		update := tx.NewUpdate().
			Model((*types.SupportTicket)(nil)).
			Set("message_count = message_count + 1").
			Set("updated_at = ?", message.CreatedAt).
			Where("id = ?", message.TicketID)

		switch message.SenderRole {
		case enum.SenderRoleAdmin:
			update = update.Set("unread_messages = unread_messages + 1")
		case enum.SenderRoleUser:
			// A user reply answers a pending admin question
			if ticket.Status == enum.TicketStatusAwaitingUser {
				update = update.Set("status = ?", enum.TicketStatusInProgress)
			}
		}

		if _, err := update.Exec(ctx); err != nil {
			return fmt.Errorf("failed to update ticket counters: %w (ticketID=%d)", err, message.TicketID)
		}

		r.logger.Debug("Added ticket message",
			zap.Int64("ticketID", message.TicketID),
			zap.String("senderRole", message.SenderRole.String()))

		return nil
	})
}

// MarkMessagesRead clears the unread counter on a ticket.
func (r *MessageModel) MarkMessagesRead(ctx context.Context, ticketID int64) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		result, err := r.db.NewUpdate().
			Model((*types.SupportTicket)(nil)).
			Set("unread_messages = 0").
			Where("id = ?", ticketID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark messages read: %w (ticketID=%d)", err, ticketID)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check mark read result: %w (ticketID=%d)", err, ticketID)
		}

		if affected == 0 {
			return types.ErrTicketNotFound
		}

		return nil
	})
}
