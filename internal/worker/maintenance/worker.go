package maintenance

import (
	"context"
	"time"

	"github.com/marketloop/supportd/internal/database"
	"github.com/marketloop/supportd/internal/setup"
	"github.com/marketloop/supportd/internal/worker/core"
	"go.uber.org/zap"
)

// Worker sweeps resolved tickets whose reopen grace period has elapsed and
// closes them. Closing settles the ticket; nothing reopens a closed ticket.
type Worker struct {
	db        database.Client
	reporter  *core.StatusReporter
	interval  time.Duration
	grace     time.Duration
	batchSize int
	logger    *zap.Logger
}

// New creates a new maintenance worker.
func New(app *setup.App, logger *zap.Logger) *Worker {
	return &Worker{
		db:        app.DB,
		reporter:  core.NewStatusReporter(app.StatusClient, "maintenance", logger),
		interval:  time.Duration(app.Config.Worker.MaintenanceInterval) * time.Second,
		grace:     time.Duration(app.Config.Common.Support.ReopenGraceDays) * 24 * time.Hour,
		batchSize: app.Config.Worker.CloseBatchSize,
		logger:    logger,
	}
}

// Start begins the maintenance worker's main loop. Blocks until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Maintenance worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)

	defer w.reporter.Stop()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-ctx.Done():
			w.logger.Info("Maintenance worker stopped")
			return
		}
	}
}

// sweep closes one batch of resolved tickets past their grace period.
// Tickets resolved within the grace period stay reopenable and are left
// alone.
func (w *Worker) sweep(ctx context.Context) {
	w.reporter.UpdateStatus("Sweeping resolved tickets", 50)

	now := time.Now()
	cutoff := now.Add(-w.grace)

	closed, err := w.db.Model().Ticket().CloseResolvedBefore(ctx, cutoff, now, w.batchSize)
	if err != nil {
		w.logger.Error("Failed to close resolved tickets", zap.Error(err))
		w.reporter.SetHealthy(false)

		return
	}

	w.reporter.SetHealthy(true)
	w.reporter.UpdateStatus("Sweep complete", 100)

	if closed > 0 {
		w.logger.Info("Closed resolved tickets past grace period", zap.Int64("count", closed))
	}
}
