package poll_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// messageSource is an in-memory stand-in for the database thread. Appends
// and fetches are synchronized so the poller goroutine can race the test.
type messageSource struct {
	mu       sync.Mutex
	messages []*types.TicketMessage
	fetchErr error
	fetches  int
}

func (s *messageSource) append(id int64, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, &types.TicketMessage{
		ID:        id,
		TicketID:  1,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

func (s *messageSource) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

func (s *messageSource) fetch(_ context.Context, _, afterID int64) ([]*types.TicketMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}

	var batch []*types.TicketMessage
	for _, message := range s.messages {
		if message.ID > afterID {
			batch = append(batch, message)
		}
	}

	return batch, nil
}

// collector accumulates delivered messages behind a mutex.
type collector struct {
	mu       sync.Mutex
	received []*types.TicketMessage
}

func (c *collector) handle(messages []*types.TicketMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, messages...)
}

func (c *collector) ids() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int64, len(c.received))
	for i, message := range c.received {
		ids[i] = message.ID
	}

	return ids
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	require.Eventually(t, condition, 2*time.Second, 5*time.Millisecond)
}

func TestPollerDeliversExistingThread(t *testing.T) {
	t.Parallel()

	source := &messageSource{}
	source.append(1, "first")
	source.append(2, "second")

	sink := &collector{}
	poller := poll.New(source.fetch, sink.handle, 10*time.Millisecond, 0, zap.NewNop())
	poller.Start(t.Context(), 1)
	defer poller.Stop()

	waitFor(t, func() bool { return len(sink.ids()) == 2 })
	assert.Equal(t, []int64{1, 2}, sink.ids())
}

func TestPollerDeliversExactlyOnce(t *testing.T) {
	t.Parallel()

	source := &messageSource{}
	source.append(1, "first")

	sink := &collector{}
	poller := poll.New(source.fetch, sink.handle, 10*time.Millisecond, 0, zap.NewNop())
	poller.Start(t.Context(), 1)
	defer poller.Stop()

	waitFor(t, func() bool { return len(sink.ids()) == 1 })

	// Let several cycles pass, then add another message. The original must
	// not be redelivered.
	time.Sleep(50 * time.Millisecond)
	source.append(2, "second")

	waitFor(t, func() bool { return len(sink.ids()) == 2 })
	assert.Equal(t, []int64{1, 2}, sink.ids())
}

func TestPollerStartsAfterGivenID(t *testing.T) {
	t.Parallel()

	source := &messageSource{}
	source.append(1, "first")
	source.append(2, "second")
	source.append(3, "third")

	sink := &collector{}
	poller := poll.New(source.fetch, sink.handle, 10*time.Millisecond, 2, zap.NewNop())
	poller.Start(t.Context(), 1)
	defer poller.Stop()

	waitFor(t, func() bool { return len(sink.ids()) == 1 })
	assert.Equal(t, []int64{3}, sink.ids())
}

func TestPollerFetchErrorDoesNotAdvance(t *testing.T) {
	t.Parallel()

	source := &messageSource{}
	source.append(1, "first")
	source.setError(errors.New("connection refused"))

	sink := &collector{}
	poller := poll.New(source.fetch, sink.handle, 10*time.Millisecond, 0, zap.NewNop())
	poller.Start(t.Context(), 1)
	defer poller.Stop()

	// Failed cycles deliver nothing.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sink.ids())

	// Once fetching recovers, the waiting message still arrives.
	source.setError(nil)
	waitFor(t, func() bool { return len(sink.ids()) == 1 })
	assert.Equal(t, []int64{1}, sink.ids())
}

func TestPollerStop(t *testing.T) {
	t.Parallel()

	source := &messageSource{}
	sink := &collector{}
	poller := poll.New(source.fetch, sink.handle, 10*time.Millisecond, 0, zap.NewNop())
	poller.Start(t.Context(), 1)

	waitFor(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.fetches > 0
	})

	poller.Stop()
	poller.Stop() // idempotent

	source.mu.Lock()
	stopped := source.fetches
	source.mu.Unlock()

	// No further cycles run after Stop.
	time.Sleep(50 * time.Millisecond)

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.LessOrEqual(t, source.fetches, stopped+1)
}

func TestPollerContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())

	source := &messageSource{}
	sink := &collector{}
	poller := poll.New(source.fetch, sink.handle, 10*time.Millisecond, 0, zap.NewNop())
	poller.Start(ctx, 1)

	waitFor(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.fetches > 0
	})

	cancel()
	time.Sleep(30 * time.Millisecond)

	source.mu.Lock()
	stopped := source.fetches
	source.mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.LessOrEqual(t, source.fetches, stopped+1)
}
