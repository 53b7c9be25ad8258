package models

import (
	"context"
	"fmt"

	"github.com/marketloop/supportd/internal/database/dbretry"
	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// StatsModel handles database reads for dashboard statistics. Counts are
// always derived from current rows at query time.
type StatsModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewStats creates a new stats model.
func NewStats(db *bun.DB, logger *zap.Logger) *StatsModel {
	return &StatsModel{
		db:     db,
		logger: logger.Named("db_stats"),
	}
}

// GetTicketStatuses fetches the status column of every ticket owned by a
// user. Pass userID 0 to fetch across all users.
func (r *StatsModel) GetTicketStatuses(ctx context.Context, userID uint64) ([]enum.TicketStatus, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]enum.TicketStatus, error) {
		var statuses []enum.TicketStatus

		query := r.db.NewSelect().
			Model((*types.SupportTicket)(nil)).
			Column("status")

		if userID != 0 {
			query = query.Where("user_id = ?", userID)
		}

		err := query.Scan(ctx, &statuses)
		if err != nil {
			return nil, fmt.Errorf("failed to get ticket statuses: %w (userID=%d)", err, userID)
		}

		return statuses, nil
	})
}

// GetDeletedAds fetches the deleted ads needed for appeal statistics.
// Pass userID 0 to fetch across all users.
func (r *StatsModel) GetDeletedAds(ctx context.Context, userID uint64) ([]*types.DeletedAd, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.DeletedAd, error) {
		var ads []*types.DeletedAd

		query := r.db.NewSelect().
			Model(&ads).
			Column("appeal_status", "appeal_deadline")

		if userID != 0 {
			query = query.Where("user_id = ?", userID)
		}

		err := query.Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get deleted ads for stats: %w (userID=%d)", err, userID)
		}

		return ads, nil
	})
}
