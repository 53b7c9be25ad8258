package poll_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/poll"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestManagerWatchDelivers(t *testing.T) {
	t.Parallel()

	source := &messageSource{}
	source.append(1, "first")

	manager := poll.NewManager(source.fetch, 10*time.Millisecond, 4, zap.NewNop())
	defer manager.StopAll()

	sink := &collector{}
	manager.Watch(t.Context(), 1, 0, sink.handle)
	assert.Equal(t, 1, manager.Watching())

	waitFor(t, func() bool { return len(sink.ids()) == 1 })
	assert.Equal(t, []int64{1}, sink.ids())
}

func TestManagerWatchIsIdempotent(t *testing.T) {
	t.Parallel()

	source := &messageSource{}
	manager := poll.NewManager(source.fetch, 10*time.Millisecond, 4, zap.NewNop())
	defer manager.StopAll()

	sink := &collector{}
	manager.Watch(t.Context(), 1, 0, sink.handle)
	manager.Watch(t.Context(), 1, 0, sink.handle)
	assert.Equal(t, 1, manager.Watching())
}

func TestManagerUnwatch(t *testing.T) {
	t.Parallel()

	source := &messageSource{}
	manager := poll.NewManager(source.fetch, 10*time.Millisecond, 4, zap.NewNop())
	defer manager.StopAll()

	sink := &collector{}
	manager.Watch(t.Context(), 1, 0, sink.handle)
	manager.Watch(t.Context(), 2, 0, sink.handle)
	assert.Equal(t, 2, manager.Watching())

	manager.Unwatch(1)
	manager.Unwatch(1) // unknown ticket after removal
	assert.Equal(t, 1, manager.Watching())

	manager.StopAll()
	assert.Equal(t, 0, manager.Watching())
}

func TestManagerBoundsConcurrentFetches(t *testing.T) {
	t.Parallel()

	var (
		inFlight atomic.Int64
		peak     atomic.Int64
		mu       sync.Mutex
	)

	fetch := func(_ context.Context, _, _ int64) ([]*types.TicketMessage, error) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)

		mu.Lock()
		if current > peak.Load() {
			peak.Store(current)
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		return nil, nil
	}

	manager := poll.NewManager(fetch, 5*time.Millisecond, 2, zap.NewNop())
	defer manager.StopAll()

	for ticketID := int64(1); ticketID <= 8; ticketID++ {
		manager.Watch(t.Context(), ticketID, 0, func([]*types.TicketMessage) {})
	}

	time.Sleep(200 * time.Millisecond)
	assert.LessOrEqual(t, peak.Load(), int64(2))
}
