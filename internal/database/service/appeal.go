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

// AppealService handles appeal-related business logic.
type AppealService struct {
	appeals      AppealStore
	deletedAds   DeletedAdStore
	appealWindow time.Duration
	logger       *zap.Logger
}

// NewAppeal creates a new appeal service.
func NewAppeal(
	appeals AppealStore,
	deletedAds DeletedAdStore,
	appealWindow time.Duration,
	logger *zap.Logger,
) *AppealService {
	return &AppealService{
		appeals:      appeals,
		deletedAds:   deletedAds,
		appealWindow: appealWindow,
		logger:       logger.Named("appeal_service"),
	}
}

// RecordDeletion registers an ad removal and stamps its appeal deadline
// from the deletion time and the configured window.
func (s *AppealService) RecordDeletion(
	ctx context.Context, adID int64, userID uint64, title, imageURL, violationType string,
	reason enum.DeletionReason, severity enum.AdSeverity, deletedAt time.Time,
) (*types.DeletedAd, error) {
	ad := &types.DeletedAd{
		AdID:           adID,
		UserID:         userID,
		Title:          title,
		ImageURL:       imageURL,
		ViolationType:  violationType,
		Reason:         reason,
		Severity:       severity,
		AppealStatus:   enum.AppealStatusNotAppealed,
		DeletedAt:      deletedAt,
		AppealDeadline: deletedAt.Add(s.appealWindow),
	}

	if err := s.deletedAds.CreateDeletedAd(ctx, ad); err != nil {
		return nil, err
	}

	return ad, nil
}

// GetDeletedAd retrieves a single deleted ad by ID.
func (s *AppealService) GetDeletedAd(ctx context.Context, adID int64) (*types.DeletedAd, error) {
	return s.deletedAds.GetDeletedAd(ctx, adID)
}

// GetDeletedAdsByUser lists a user's removed ads, newest first.
func (s *AppealService) GetDeletedAdsByUser(ctx context.Context, userID uint64) ([]*types.DeletedAd, error) {
	return s.deletedAds.GetDeletedAdsByUser(ctx, userID)
}

// SubmitAppeal validates and files an appeal against a deleted ad. The ad
// must still be inside its appeal window and not already appealed.
func (s *AppealService) SubmitAppeal(
	ctx context.Context, deletedAdID int64, reason, explanation string, evidence []string,
) (*types.Appeal, error) {
	reason = utils.CleanupText(reason)
	explanation = utils.CleanupText(explanation)

	if err := lifecycle.ValidateAppealInput(reason, explanation); err != nil {
		return nil, err
	}

	ad, err := s.deletedAds.GetDeletedAd(ctx, deletedAdID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if ad.AppealStatus != enum.AppealStatusNotAppealed {
		return nil, fmt.Errorf("%w (deletedAdID=%d, status=%s)",
			types.ErrAlreadyAppealed, deletedAdID, ad.AppealStatus)
	}

	if !lifecycle.CanAppeal(ad, now) {
		return nil, fmt.Errorf("%w (deletedAdID=%d, deadline=%s)",
			types.ErrNotEligible, deletedAdID, ad.AppealDeadline)
	}

	appeal := &types.Appeal{
		AppealNumber: lifecycle.AppealNumber(),
		DeletedAdID:  deletedAdID,
		Reason:       reason,
		Explanation:  explanation,
		Evidence:     evidence,
		CreatedAt:    now,
	}

	if err := s.appeals.CreateAppeal(ctx, appeal); err != nil {
		return nil, err
	}

	return appeal, nil
}

// GetAppeal retrieves a single appeal by ID.
func (s *AppealService) GetAppeal(ctx context.Context, appealID int64) (*types.Appeal, error) {
	return s.appeals.GetAppeal(ctx, appealID)
}

// GetAppealsByUser lists a user's appeals, newest first.
func (s *AppealService) GetAppealsByUser(ctx context.Context, userID uint64) ([]*types.Appeal, error) {
	return s.appeals.GetAppealsByUser(ctx, userID)
}

// GetReviewQueue lists pending appeals in submission order.
func (s *AppealService) GetReviewQueue(ctx context.Context, limit int) ([]*types.Appeal, error) {
	return s.appeals.GetAppealsByStatus(ctx, enum.AppealStatusPending, limit)
}

// StartReview moves a pending appeal under review.
func (s *AppealService) StartReview(ctx context.Context, appealID int64) error {
	return s.appeals.StartReview(ctx, appealID)
}

// Decide records a final decision on an appeal. Only approved and rejected
// are decisions; anything else is refused before touching the database.
func (s *AppealService) Decide(
	ctx context.Context, appealID int64, decision enum.AppealStatus, adminResponse string,
) error {
	if decision != enum.AppealStatusApproved && decision != enum.AppealStatusRejected {
		return fmt.Errorf("%w (appealID=%d, decision=%s)",
			types.ErrInvalidTransition, appealID, decision)
	}

	adminResponse = utils.CleanupText(adminResponse)

	err := s.appeals.DecideAppeal(ctx, appealID, decision, adminResponse, time.Now())
	if err != nil {
		return err
	}

	s.logger.Debug("Decided appeal",
		zap.Int64("appealID", appealID),
		zap.String("decision", decision.String()))

	return nil
}

// Remaining reports the countdown to an ad's appeal deadline.
func (s *AppealService) Remaining(ad *types.DeletedAd, now time.Time) lifecycle.Countdown {
	return lifecycle.Remaining(now, ad.AppealDeadline)
}
