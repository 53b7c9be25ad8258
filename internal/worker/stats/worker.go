package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/marketloop/supportd/internal/database"
	"github.com/marketloop/supportd/internal/redis"
	"github.com/marketloop/supportd/internal/setup"
	"github.com/marketloop/supportd/internal/worker/core"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// SnapshotKey is where the latest dashboard snapshot lives in Redis.
const SnapshotKey = "stats:snapshot"

// Worker periodically derives a global dashboard snapshot and caches it in
// Redis. The snapshot expires on its own, so a stalled worker can never
// serve stale counts; the database rows stay the source of truth.
type Worker struct {
	db       database.Client
	cache    rueidis.Client
	reporter *core.StatusReporter
	interval time.Duration
	logger   *zap.Logger
}

// New creates a new stats worker.
func New(app *setup.App, logger *zap.Logger) (*Worker, error) {
	cache, err := app.RedisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache client: %w", err)
	}

	return &Worker{
		db:       app.DB,
		cache:    cache,
		reporter: core.NewStatusReporter(app.StatusClient, "stats", logger),
		interval: time.Duration(app.Config.Worker.StatsInterval) * time.Second,
		logger:   logger,
	}, nil
}

// Start begins the stats worker's main loop. Blocks until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Stats worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)

	defer w.reporter.Stop()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// First snapshot immediately rather than one interval in
	w.snapshot(ctx)

	for {
		select {
		case <-ticker.C:
			w.snapshot(ctx)
		case <-ctx.Done():
			w.logger.Info("Stats worker stopped")
			return
		}
	}
}

// snapshot derives current counts and caches them with a TTL of two
// intervals.
func (w *Worker) snapshot(ctx context.Context) {
	w.reporter.UpdateStatus("Collecting statistics", 50)

	stats, err := w.db.Service().Stats().GetSupportStats(ctx, 0)
	if err != nil {
		w.logger.Error("Failed to collect stats", zap.Error(err))
		w.reporter.SetHealthy(false)

		return
	}

	data, err := sonic.Marshal(stats)
	if err != nil {
		w.logger.Error("Failed to marshal stats", zap.Error(err))
		w.reporter.SetHealthy(false)

		return
	}

	ttl := 2 * w.interval

	err = w.cache.Do(ctx,
		w.cache.B().Set().Key(SnapshotKey).Value(string(data)).Ex(ttl).Build()).Error()
	if err != nil {
		w.logger.Error("Failed to cache stats snapshot", zap.Error(err))
		w.reporter.SetHealthy(false)

		return
	}

	w.reporter.SetHealthy(true)
	w.reporter.UpdateStatus("Snapshot cached", 100)
	w.logger.Debug("Cached stats snapshot",
		zap.Int("totalTickets", stats.Tickets.Total),
		zap.Int("totalDeleted", stats.Appeals.TotalDeleted))
}
