package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// StatusReporter publishes a worker's heartbeat on a fixed interval so the
// monitor side can tell live workers from stale ones. Task and health
// updates are folded into the next heartbeat.
type StatusReporter struct {
	monitor *Monitor
	logger  *zap.Logger

	mu      sync.Mutex
	status  Status
	stop    chan struct{}
	stopped bool
}

// NewStatusReporter creates a reporter with a fresh worker identity.
// The worker starts out healthy with no current task.
func NewStatusReporter(client rueidis.Client, workerType string, logger *zap.Logger) *StatusReporter {
	return &StatusReporter{
		monitor: NewMonitor(client, logger),
		logger:  logger.Named("status_reporter"),
		status: Status{
			WorkerID:   uuid.New().String(),
			WorkerType: workerType,
			IsHealthy:  true,
		},
		stop: make(chan struct{}),
	}
}

// Start launches the heartbeat loop. An immediate report is sent before the
// ticker takes over so the worker shows up without waiting a full interval.
// Starting an already stopped reporter is a no-op.
func (r *StatusReporter) Start(ctx context.Context) {
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()

	if stopped {
		return
	}

	go r.heartbeatLoop(ctx)
}

func (r *StatusReporter) heartbeatLoop(ctx context.Context) {
	r.report(ctx)

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.report(ctx)
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		}
	}
}

func (r *StatusReporter) report(ctx context.Context) {
	r.mu.Lock()
	snapshot := r.status
	r.mu.Unlock()

	if err := r.monitor.ReportStatus(ctx, snapshot); err != nil {
		r.logger.Error("Failed to report worker status", zap.Error(err))
	}
}

// Stop terminates the heartbeat loop. Safe to call more than once.
func (r *StatusReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.stopped {
		close(r.stop)
		r.stopped = true
	}
}

// UpdateStatus records the task the worker is currently on and its progress
// percentage. The change is visible on the next heartbeat.
func (r *StatusReporter) UpdateStatus(task string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.CurrentTask = task
	r.status.Progress = progress
}

// SetHealthy flags the worker healthy or unhealthy.
func (r *StatusReporter) SetHealthy(healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.IsHealthy = healthy
}

// GetWorkerID returns the identity generated for this reporter.
func (r *StatusReporter) GetWorkerID() string {
	return r.status.WorkerID
}
