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

// AppealModel handles database operations for ad deletion appeals.
type AppealModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAppeal creates a new appeal model.
func NewAppeal(db *bun.DB, logger *zap.Logger) *AppealModel {
	return &AppealModel{
		db:     db,
		logger: logger.Named("db_appeal"),
	}
}

// CreateAppeal inserts an appeal and flips the deleted ad's mirrored status
// to pending in one transaction. The two rows must never disagree, so both
// writes commit together or not at all.
func (r *AppealModel) CreateAppeal(ctx context.Context, appeal *types.Appeal) error {
	appeal.Status = enum.AppealStatusPending

	return dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		// Claim the ad first; zero rows means another appeal won the race
		result, err := tx.NewUpdate().
			Model((*types.DeletedAd)(nil)).
			Set("appeal_status = ?", enum.AppealStatusPending).
			Where("id = ?", appeal.DeletedAdID).
			Where("appeal_status = ?", enum.AppealStatusNotAppealed).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to claim deleted ad: %w (deletedAdID=%d)", err, appeal.DeletedAdID)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check ad claim result: %w (deletedAdID=%d)", err, appeal.DeletedAdID)
		}

		if affected == 0 {
			return types.ErrAlreadyAppealed
		}

		// Create the appeal
		_, err = tx.NewInsert().Model(appeal).Exec(ctx)
		if err != nil {
			return fmt.Errorf(
				"failed to create appeal: %w (deletedAdID=%d, number=%s)",
				err, appeal.DeletedAdID, appeal.AppealNumber,
			)
		}

		r.logger.Debug("Created appeal",
			zap.Int64("id", appeal.ID),
			zap.String("number", appeal.AppealNumber),
			zap.Int64("deletedAdID", appeal.DeletedAdID))

		return nil
	})
}

// GetAppeal retrieves an appeal by its numeric ID.
func (r *AppealModel) GetAppeal(ctx context.Context, appealID int64) (*types.Appeal, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Appeal, error) {
		appeal := new(types.Appeal)

		err := r.db.NewSelect().
			Model(appeal).
			Where("id = ?", appealID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrAppealNotFound
			}

			return nil, fmt.Errorf("failed to get appeal: %w (appealID=%d)", err, appealID)
		}

		return appeal, nil
	})
}

// GetAppealByDeletedAd retrieves the appeal filed against a deleted ad.
func (r *AppealModel) GetAppealByDeletedAd(ctx context.Context, deletedAdID int64) (*types.Appeal, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Appeal, error) {
		appeal := new(types.Appeal)

		err := r.db.NewSelect().
			Model(appeal).
			Where("deleted_ad_id = ?", deletedAdID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrAppealNotFound
			}

			return nil, fmt.Errorf("failed to get appeal by ad: %w (deletedAdID=%d)", err, deletedAdID)
		}

		return appeal, nil
	})
}

// GetAppealsByUser retrieves all appeals filed by a user, newest first.
// Ownership comes from the deleted ad the appeal targets.
func (r *AppealModel) GetAppealsByUser(ctx context.Context, userID uint64) ([]*types.Appeal, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Appeal, error) {
		var appeals []*types.Appeal

		err := r.db.NewSelect().
			Model(&appeals).
			Join("JOIN deleted_ads AS da ON da.id = appeal.deleted_ad_id").
			Where("da.user_id = ?", userID).
			Order("appeal.created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get appeals by user: %w (userID=%d)", err, userID)
		}

		return appeals, nil
	})
}

// GetAppealsByStatus retrieves appeals in a given review state, oldest first
// so reviewers work the queue in submission order.
func (r *AppealModel) GetAppealsByStatus(
	ctx context.Context, status enum.AppealStatus, limit int,
) ([]*types.Appeal, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Appeal, error) {
		var appeals []*types.Appeal

		err := r.db.NewSelect().
			Model(&appeals).
			Where("status = ?", status).
			Order("created_at ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get appeals by status: %w (status=%s)", err, status)
		}

		return appeals, nil
	})
}

// StartReview moves a pending appeal to under review. The ad's mirrored
// status stays pending while review runs; under_review exists only on the
// appeal side, so ad consumers always see one of not_appealed, pending,
// approved, or rejected.
func (r *AppealModel) StartReview(ctx context.Context, appealID int64) error {
	return dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		_, err := r.claimAppeal(ctx, tx, appealID, enum.AppealStatusUnderReview,
			[]enum.AppealStatus{enum.AppealStatusPending})
		if err != nil {
			return err
		}

		r.logger.Debug("Started appeal review", zap.Int64("appealID", appealID))

		return nil
	})
}

// DecideAppeal records a final decision on an appeal and mirrors it onto
// the deleted ad. Decisions are only accepted from pending or under_review.
func (r *AppealModel) DecideAppeal(
	ctx context.Context, appealID int64, decision enum.AppealStatus, adminResponse string, now time.Time,
) error {
	return dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		appeal, err := r.claimAppeal(ctx, tx, appealID, decision,
			[]enum.AppealStatus{enum.AppealStatusPending, enum.AppealStatusUnderReview})
		if err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*types.Appeal)(nil)).
			Set("admin_response = ?", adminResponse).
			Set("reviewed_at = ?", now).
			Where("id = ?", appealID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to record decision details: %w (appealID=%d)", err, appealID)
		}

		_, err = tx.NewUpdate().
			Model((*types.DeletedAd)(nil)).
			Set("appeal_status = ?", decision).
			Where("id = ?", appeal.DeletedAdID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to mirror decision: %w (appealID=%d)", err, appealID)
		}

		r.logger.Debug("Decided appeal",
			zap.Int64("appealID", appealID),
			zap.String("decision", decision.String()))

		return nil
	})
}

// claimAppeal flips an appeal's status inside tx, accepting only appeals
// currently in one of the from states. Returns the appeal row as it was
// before the flip so callers can reach the linked ad.
func (r *AppealModel) claimAppeal(
	ctx context.Context, tx bun.Tx, appealID int64,
	to enum.AppealStatus, from []enum.AppealStatus,
) (*types.Appeal, error) {
	appeal := new(types.Appeal)

	err := tx.NewSelect().
		Model(appeal).
		Where("id = ?", appealID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrAppealNotFound
		}

		return nil, fmt.Errorf("failed to lock appeal: %w (appealID=%d)", err, appealID)
	}

	allowed := false

	for _, status := range from {
		if appeal.Status == status {
			allowed = true
			break
		}
	}

	if !allowed {
		return nil, types.ErrAppealDecided
	}

	_, err = tx.NewUpdate().
		Model((*types.Appeal)(nil)).
		Set("status = ?", to).
		Where("id = ?", appealID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update appeal status: %w (appealID=%d)", err, appealID)
	}

	return appeal, nil
}
