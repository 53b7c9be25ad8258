package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Manager runs one poller per watched ticket and bounds how many fetches
// may be in flight at once across all of them, so a client watching many
// threads cannot flood the backend.
type Manager struct {
	fetch    FetchFunc
	interval time.Duration
	fetchSem *semaphore.Weighted
	mu       sync.Mutex
	pollers  map[int64]*Poller
	logger   *zap.Logger
}

// NewManager creates a manager sharing one fetch function across tickets.
// maxConcurrent caps simultaneous fetches.
func NewManager(fetch FetchFunc, interval time.Duration, maxConcurrent int64, logger *zap.Logger) *Manager {
	m := &Manager{
		interval: interval,
		fetchSem: semaphore.NewWeighted(maxConcurrent),
		pollers:  make(map[int64]*Poller),
		logger:   logger.Named("poll_manager"),
	}
	m.fetch = m.bound(fetch)

	return m
}

// Watch starts polling the ticket, delivering new messages to handler.
// Watching an already watched ticket is a no-op; the existing poller and
// its high-water mark stay in place.
func (m *Manager) Watch(ctx context.Context, ticketID, afterID int64, handler HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pollers[ticketID]; exists {
		return
	}

	poller := New(m.fetch, handler, m.interval, afterID, m.logger)
	m.pollers[ticketID] = poller
	poller.Start(ctx, ticketID)
}

// Unwatch stops polling the ticket. Unknown tickets are a no-op.
func (m *Manager) Unwatch(ticketID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if poller, exists := m.pollers[ticketID]; exists {
		poller.Stop()
		delete(m.pollers, ticketID)
	}
}

// StopAll stops every active poller.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ticketID, poller := range m.pollers {
		poller.Stop()
		delete(m.pollers, ticketID)
	}
}

// Watching returns the number of tickets currently being polled.
func (m *Manager) Watching() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.pollers)
}

// bound wraps fetch so each call holds a semaphore slot while running.
func (m *Manager) bound(fetch FetchFunc) FetchFunc {
	return func(ctx context.Context, ticketID, afterID int64) ([]*types.TicketMessage, error) {
		if err := m.fetchSem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("failed to acquire fetch semaphore: %w", err)
		}
		defer m.fetchSem.Release(1)

		return fetch(ctx, ticketID, afterID)
	}
}
