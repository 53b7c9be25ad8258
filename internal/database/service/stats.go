package service

import (
	"context"
	"sync"
	"time"

	"github.com/marketloop/supportd/internal/database/models"
	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/lifecycle"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// StatsService handles statistics-related business logic. Counts are always
// derived from current rows at query time so they can never drift.
type StatsService struct {
	model  *models.StatsModel
	logger *zap.Logger
}

// NewStats creates a new stats service.
func NewStats(model *models.StatsModel, logger *zap.Logger) *StatsService {
	return &StatsService{
		model:  model,
		logger: logger.Named("stats_service"),
	}
}

// GetSupportStats builds a dashboard snapshot for a user. Pass userID 0
// for a snapshot across all users. The two table reads run in parallel.
func (s *StatsService) GetSupportStats(ctx context.Context, userID uint64) (*types.SupportStats, error) {
	var (
		stats types.SupportStats
		mu    sync.Mutex
	)

	now := time.Now()

	p := pool.New().WithContext(ctx).WithCancelOnError()

	// Fold ticket counts in parallel
	p.Go(func(ctx context.Context) error {
		statuses, err := s.model.GetTicketStatuses(ctx, userID)
		if err != nil {
			return err
		}

		mu.Lock()
		stats.Tickets = lifecycle.FoldTicketStats(statuses)
		mu.Unlock()

		return nil
	})

	// Fold appeal counts in parallel
	p.Go(func(ctx context.Context) error {
		ads, err := s.model.GetDeletedAds(ctx, userID)
		if err != nil {
			return err
		}

		mu.Lock()
		stats.Appeals = lifecycle.FoldAppealStats(ads, now)
		mu.Unlock()

		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &stats, nil
}
