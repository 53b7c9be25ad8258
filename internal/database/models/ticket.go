package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marketloop/supportd/internal/database/dbretry"
	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// TicketModel handles database operations for support tickets.
type TicketModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTicket creates a new ticket model.
func NewTicket(db *bun.DB, logger *zap.Logger) *TicketModel {
	return &TicketModel{
		db:     db,
		logger: logger.Named("db_ticket"),
	}
}

// CreateTicket inserts a new ticket.
func (r *TicketModel) CreateTicket(ctx context.Context, ticket *types.SupportTicket) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(ticket).Exec(ctx)
		if err != nil {
			return fmt.Errorf(
				"failed to create ticket: %w (userID=%d, number=%s)",
				err, ticket.UserID, ticket.TicketNumber,
			)
		}

		r.logger.Debug("Created ticket",
			zap.Int64("id", ticket.ID),
			zap.String("number", ticket.TicketNumber),
			zap.Uint64("userID", ticket.UserID))

		return nil
	})
}

// GetTicket retrieves a ticket by its numeric ID.
func (r *TicketModel) GetTicket(ctx context.Context, ticketID int64) (*types.SupportTicket, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.SupportTicket, error) {
		ticket := new(types.SupportTicket)

		err := r.db.NewSelect().
			Model(ticket).
			Where("id = ?", ticketID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrTicketNotFound
			}

			return nil, fmt.Errorf("failed to get ticket: %w (ticketID=%d)", err, ticketID)
		}

		return ticket, nil
	})
}

// GetTicketByNumber retrieves a ticket by its human-readable reference.
func (r *TicketModel) GetTicketByNumber(ctx context.Context, number string) (*types.SupportTicket, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.SupportTicket, error) {
		ticket := new(types.SupportTicket)

		err := r.db.NewSelect().
			Model(ticket).
			Where("ticket_number = ?", number).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrTicketNotFound
			}

			return nil, fmt.Errorf("failed to get ticket by number: %w (number=%s)", err, number)
		}

		return ticket, nil
	})
}

// GetTicketsByUser retrieves all tickets owned by a user, newest first.
func (r *TicketModel) GetTicketsByUser(ctx context.Context, userID uint64) ([]*types.SupportTicket, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.SupportTicket, error) {
		var tickets []*types.SupportTicket

		err := r.db.NewSelect().
			Model(&tickets).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get tickets by user: %w (userID=%d)", err, userID)
		}

		return tickets, nil
	})
}

// GetTicketsByStatus retrieves tickets in a given status, oldest update first.
func (r *TicketModel) GetTicketsByStatus(
	ctx context.Context, status enum.TicketStatus, limit int,
) ([]*types.SupportTicket, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.SupportTicket, error) {
		var tickets []*types.SupportTicket

		err := r.db.NewSelect().
			Model(&tickets).
			Where("status = ?", status).
			Order("updated_at ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get tickets by status: %w (status=%s)", err, status)
		}

		return tickets, nil
	})
}

// UpdateStatus persists a status change on a ticket. The row is locked and
// its status re-checked inside the transaction, so a transition validated
// against a stale read loses to whichever writer committed first.
// resolvedAt is written as given so reopening can clear it and resolving
// can set it in the same statement.
func (r *TicketModel) UpdateStatus(
	ctx context.Context, ticketID int64, from, to enum.TicketStatus,
	adminResponse string, resolvedAt time.Time, now time.Time,
) error {
	return dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		current := new(types.SupportTicket)

		err := tx.NewSelect().
			Model(current).
			Column("status").
			Where("id = ?", ticketID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrTicketNotFound
			}

			return fmt.Errorf("failed to lock ticket: %w (ticketID=%d)", err, ticketID)
		}

		if current.Status != from {
			return fmt.Errorf("%w (ticketID=%d, expected=%s, found=%s)",
				types.ErrInvalidTransition, ticketID, from, current.Status)
		}

		_, err = tx.NewUpdate().
			Model((*types.SupportTicket)(nil)).
			Set("status = ?", to).
			Set("admin_response = ?", adminResponse).
			Set("resolved_at = ?", resolvedAt).
			Set("updated_at = ?", now).
			Where("id = ?", ticketID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update ticket status: %w (ticketID=%d)", err, ticketID)
		}

		r.logger.Debug("Updated ticket status",
			zap.Int64("ticketID", ticketID),
			zap.String("from", from.String()),
			zap.String("to", to.String()))

		return nil
	})
}

// CloseResolvedBefore closes resolved tickets whose grace period elapsed
// before the cutoff. Returns the number of tickets closed.
func (r *TicketModel) CloseResolvedBefore(
	ctx context.Context, cutoff time.Time, now time.Time, limit int,
) (int64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		result, err := r.db.NewUpdate().
			Model((*types.SupportTicket)(nil)).
			Set("status = ?", enum.TicketStatusClosed).
			Set("updated_at = ?", now).
			Where("id IN (?)", r.db.NewSelect().
				Model((*types.SupportTicket)(nil)).
				Column("id").
				Where("status = ?", enum.TicketStatusResolved).
				Where("resolved_at < ?", cutoff).
				Order("resolved_at ASC").
				Limit(limit)).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to close resolved tickets: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check close result: %w", err)
		}

		return affected, nil
	})
}
