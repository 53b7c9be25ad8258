package core_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/marketloop/supportd/internal/worker/core"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*miniredis.Miniredis, rueidis.Client, func()) {
	t.Helper()
	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return mr, client, cleanup
}

func TestReportStatus(t *testing.T) {
	t.Parallel()

	mr, client, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	monitor := core.NewMonitor(client, zap.NewNop())

	err := monitor.ReportStatus(ctx, core.Status{
		WorkerID:    "abc-123",
		WorkerType:  "stats",
		CurrentTask: "snapshot",
		Progress:    50,
		IsHealthy:   true,
	})
	require.NoError(t, err)

	// Status lands under the type-scoped key with a heartbeat TTL
	key := "worker:stats:abc-123"
	assert.True(t, mr.Exists(key))

	ttl := mr.TTL(key)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, core.HeartbeatTTL)
}

func TestGetAllStatuses(t *testing.T) {
	t.Parallel()

	_, client, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	monitor := core.NewMonitor(client, zap.NewNop())

	workers := []core.Status{
		{WorkerID: "a", WorkerType: "stats", IsHealthy: true},
		{WorkerID: "b", WorkerType: "maintenance", IsHealthy: false},
	}
	for _, status := range workers {
		require.NoError(t, monitor.ReportStatus(ctx, status))
	}

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byID := make(map[string]core.Status)
	for _, status := range statuses {
		byID[status.WorkerID] = status
		// ReportStatus stamps the last seen time
		assert.False(t, status.LastSeen.IsZero())
	}

	assert.Equal(t, "stats", byID["a"].WorkerType)
	assert.True(t, byID["a"].IsHealthy)
	assert.Equal(t, "maintenance", byID["b"].WorkerType)
	assert.False(t, byID["b"].IsHealthy)
}

func TestGetAllStatusesEmpty(t *testing.T) {
	t.Parallel()

	_, client, cleanup := setupTest(t)
	defer cleanup()

	monitor := core.NewMonitor(client, zap.NewNop())

	statuses, err := monitor.GetAllStatuses(t.Context())
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestStatusReporter(t *testing.T) {
	t.Parallel()

	_, client, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	reporter := core.NewStatusReporter(client, "stats", zap.NewNop())
	assert.NotEmpty(t, reporter.GetWorkerID())

	reporter.UpdateStatus("snapshot", 25)
	reporter.Start(ctx)
	defer reporter.Stop()

	monitor := core.NewMonitor(client, zap.NewNop())

	// The initial report goes out before the first heartbeat tick
	require.Eventually(t, func() bool {
		statuses, err := monitor.GetAllStatuses(ctx)
		return err == nil && len(statuses) == 1
	}, 2*time.Second, 10*time.Millisecond)

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, reporter.GetWorkerID(), statuses[0].WorkerID)
	assert.Equal(t, "stats", statuses[0].WorkerType)
	assert.Equal(t, "snapshot", statuses[0].CurrentTask)
	assert.Equal(t, 25, statuses[0].Progress)
	assert.True(t, statuses[0].IsHealthy)
}

func TestStatusReporterStopIsIdempotent(t *testing.T) {
	t.Parallel()

	_, client, cleanup := setupTest(t)
	defer cleanup()

	reporter := core.NewStatusReporter(client, "maintenance", zap.NewNop())
	reporter.Start(t.Context())
	reporter.Stop()
	reporter.Stop()

	// Start after Stop must not spin up another goroutine
	reporter.Start(t.Context())
}
