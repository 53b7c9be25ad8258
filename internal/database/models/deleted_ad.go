package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marketloop/supportd/internal/database/dbretry"
	"github.com/marketloop/supportd/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// DeletedAdModel handles database operations for removed advertisements.
type DeletedAdModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewDeletedAd creates a new deleted ad model.
func NewDeletedAd(db *bun.DB, logger *zap.Logger) *DeletedAdModel {
	return &DeletedAdModel{
		db:     db,
		logger: logger.Named("db_deleted_ad"),
	}
}

// CreateDeletedAd records an ad removal.
func (r *DeletedAdModel) CreateDeletedAd(ctx context.Context, ad *types.DeletedAd) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(ad).Exec(ctx)
		if err != nil {
			return fmt.Errorf(
				"failed to create deleted ad: %w (adID=%d, userID=%d)",
				err, ad.AdID, ad.UserID,
			)
		}

		r.logger.Debug("Recorded deleted ad",
			zap.Int64("id", ad.ID),
			zap.Int64("adID", ad.AdID),
			zap.Uint64("userID", ad.UserID))

		return nil
	})
}

// GetDeletedAd retrieves a deleted ad by its numeric ID.
func (r *DeletedAdModel) GetDeletedAd(ctx context.Context, adID int64) (*types.DeletedAd, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.DeletedAd, error) {
		ad := new(types.DeletedAd)

		err := r.db.NewSelect().
			Model(ad).
			Where("id = ?", adID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrAdNotFound
			}

			return nil, fmt.Errorf("failed to get deleted ad: %w (id=%d)", err, adID)
		}

		return ad, nil
	})
}

// GetDeletedAdsByUser retrieves all removed ads for a user, newest first.
func (r *DeletedAdModel) GetDeletedAdsByUser(ctx context.Context, userID uint64) ([]*types.DeletedAd, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.DeletedAd, error) {
		var ads []*types.DeletedAd

		err := r.db.NewSelect().
			Model(&ads).
			Where("user_id = ?", userID).
			Order("deleted_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get deleted ads by user: %w (userID=%d)", err, userID)
		}

		return ads, nil
	})
}

// GetAllDeletedAds retrieves every removed ad. Used for dashboard stats.
func (r *DeletedAdModel) GetAllDeletedAds(ctx context.Context) ([]*types.DeletedAd, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.DeletedAd, error) {
		var ads []*types.DeletedAd

		err := r.db.NewSelect().
			Model(&ads).
			Order("deleted_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get deleted ads: %w", err)
		}

		return ads, nil
	})
}
