package service

import (
	"context"
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
)

// The store interfaces below describe the persistence surface each service
// depends on. The models package provides the bun-backed implementations;
// tests substitute in-memory fakes.

// TicketStore persists support tickets.
type TicketStore interface {
	CreateTicket(ctx context.Context, ticket *types.SupportTicket) error
	GetTicket(ctx context.Context, ticketID int64) (*types.SupportTicket, error)
	GetTicketsByUser(ctx context.Context, userID uint64) ([]*types.SupportTicket, error)
	UpdateStatus(
		ctx context.Context, ticketID int64, from, to enum.TicketStatus,
		adminResponse string, resolvedAt time.Time, now time.Time,
	) error
}

// MessageStore persists ticket thread messages and their counters.
type MessageStore interface {
	GetMessages(ctx context.Context, ticketID int64) ([]*types.TicketMessage, error)
	AddMessage(ctx context.Context, message *types.TicketMessage) error
	MarkMessagesRead(ctx context.Context, ticketID int64) error
}

// DeletedAdStore persists moderation removals.
type DeletedAdStore interface {
	CreateDeletedAd(ctx context.Context, ad *types.DeletedAd) error
	GetDeletedAd(ctx context.Context, adID int64) (*types.DeletedAd, error)
	GetDeletedAdsByUser(ctx context.Context, userID uint64) ([]*types.DeletedAd, error)
}

// AppealStore persists appeals and keeps the deleted ad's mirrored status
// in step with them.
type AppealStore interface {
	CreateAppeal(ctx context.Context, appeal *types.Appeal) error
	GetAppeal(ctx context.Context, appealID int64) (*types.Appeal, error)
	GetAppealsByUser(ctx context.Context, userID uint64) ([]*types.Appeal, error)
	GetAppealsByStatus(ctx context.Context, status enum.AppealStatus, limit int) ([]*types.Appeal, error)
	StartReview(ctx context.Context, appealID int64) error
	DecideAppeal(
		ctx context.Context, appealID int64, decision enum.AppealStatus,
		adminResponse string, now time.Time,
	) error
}
