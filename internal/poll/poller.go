package poll

import (
	"context"
	"sync"
	"time"

	"github.com/marketloop/supportd/internal/database/types"
	"go.uber.org/zap"
)

// FetchFunc returns the messages of a ticket with an ID greater than
// afterID, in send order.
type FetchFunc func(ctx context.Context, ticketID, afterID int64) ([]*types.TicketMessage, error)

// HandlerFunc consumes one batch of newly arrived messages.
type HandlerFunc func(messages []*types.TicketMessage)

// Poller delivers a ticket's new messages to a handler at a fixed interval.
// Each message is delivered exactly once and in order; the high-water mark
// only advances after the handler has seen the batch.
type Poller struct {
	fetch    FetchFunc
	handler  HandlerFunc
	interval time.Duration
	lastID   int64
	stopChan chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// New creates a poller starting after the given message ID. Pass 0 to
// receive the whole thread on the first poll.
func New(fetch FetchFunc, handler HandlerFunc, interval time.Duration, afterID int64, logger *zap.Logger) *Poller {
	return &Poller{
		fetch:    fetch,
		handler:  handler,
		interval: interval,
		lastID:   afterID,
		stopChan: make(chan struct{}),
		logger:   logger.Named("poller"),
	}
}

// Start begins polling for the given ticket in a background goroutine.
// Polling ends when ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context, ticketID int64) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// Deliver whatever is already waiting before the first tick
		p.poll(ctx, ticketID)

		for {
			select {
			case <-ticker.C:
				p.poll(ctx, ticketID)
			case <-ctx.Done():
				return
			case <-p.stopChan:
				return
			}
		}
	}()
}

// Stop ends polling. Safe to call multiple times and alongside ctx
// cancellation.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
}

// poll fetches and delivers one batch. A fetch error skips the cycle
// without advancing the high-water mark, so nothing is lost.
func (p *Poller) poll(ctx context.Context, ticketID int64) {
	messages, err := p.fetch(ctx, ticketID, p.lastID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		p.logger.Warn("Poll cycle failed",
			zap.Int64("ticketID", ticketID),
			zap.Int64("afterID", p.lastID),
			zap.Error(err))

		return
	}

	if len(messages) == 0 {
		return
	}

	p.handler(messages)
	p.lastID = messages[len(messages)-1].ID
}
