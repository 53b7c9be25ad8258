package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marketloop/supportd/internal/database/service"
	"github.com/marketloop/supportd/internal/database/types"
	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/marketloop/supportd/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testReopenGrace = 7 * 24 * time.Hour

// fakeTicketStore is an in-memory TicketStore honoring the same contract as
// the bun-backed model: reads return committed snapshots, and UpdateStatus
// refuses a write whose expected from-status no longer matches the row.
type fakeTicketStore struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]*types.SupportTicket
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: make(map[int64]*types.SupportTicket)}
}

func (f *fakeTicketStore) seed(ticket *types.SupportTicket) *types.SupportTicket {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	ticket.ID = f.nextID
	f.tickets[ticket.ID] = ticket

	return ticket
}

func (f *fakeTicketStore) CreateTicket(_ context.Context, ticket *types.SupportTicket) error {
	f.seed(ticket)
	return nil
}

func (f *fakeTicketStore) GetTicket(_ context.Context, ticketID int64) (*types.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[ticketID]
	if !ok {
		return nil, types.ErrTicketNotFound
	}

	snapshot := *ticket

	return &snapshot, nil
}

func (f *fakeTicketStore) GetTicketsByUser(_ context.Context, userID uint64) ([]*types.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var tickets []*types.SupportTicket

	for _, ticket := range f.tickets {
		if ticket.UserID == userID {
			snapshot := *ticket
			tickets = append(tickets, &snapshot)
		}
	}

	return tickets, nil
}

func (f *fakeTicketStore) UpdateStatus(
	_ context.Context, ticketID int64, from, to enum.TicketStatus,
	adminResponse string, resolvedAt time.Time, now time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[ticketID]
	if !ok {
		return types.ErrTicketNotFound
	}

	if ticket.Status != from {
		return fmt.Errorf("%w (ticketID=%d, expected=%s, found=%s)",
			types.ErrInvalidTransition, ticketID, from, ticket.Status)
	}

	ticket.Status = to
	ticket.AdminResponse = adminResponse
	ticket.ResolvedAt = resolvedAt
	ticket.UpdatedAt = now

	return nil
}

// fakeMessageStore pairs with a fakeTicketStore the way the message model
// pairs with the tickets table: appends guard on the live ticket status and
// bump the thread counters on the same row.
type fakeMessageStore struct {
	tickets  *fakeTicketStore
	messages []*types.TicketMessage
}

func (f *fakeMessageStore) GetMessages(_ context.Context, ticketID int64) ([]*types.TicketMessage, error) {
	var thread []*types.TicketMessage

	for _, message := range f.messages {
		if message.TicketID == ticketID {
			thread = append(thread, message)
		}
	}

	return thread, nil
}

func (f *fakeMessageStore) AddMessage(_ context.Context, message *types.TicketMessage) error {
	f.tickets.mu.Lock()
	defer f.tickets.mu.Unlock()

	ticket, ok := f.tickets.tickets[message.TicketID]
	if !ok {
		return types.ErrTicketNotFound
	}

	if !lifecycle.CanMessage(ticket) {
		return fmt.Errorf("%w (ticketID=%d, status=%s)",
			types.ErrTicketClosed, message.TicketID, ticket.Status)
	}

	message.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, message)

	ticket.MessageCount++
	ticket.UpdatedAt = message.CreatedAt

	switch message.SenderRole {
	case enum.SenderRoleAdmin:
		ticket.UnreadMessages++
	case enum.SenderRoleUser:
		if ticket.Status == enum.TicketStatusAwaitingUser {
			ticket.Status = enum.TicketStatusInProgress
		}
	}

	return nil
}

func (f *fakeMessageStore) MarkMessagesRead(_ context.Context, ticketID int64) error {
	f.tickets.mu.Lock()
	defer f.tickets.mu.Unlock()

	ticket, ok := f.tickets.tickets[ticketID]
	if !ok {
		return types.ErrTicketNotFound
	}

	ticket.UnreadMessages = 0

	return nil
}

func setupTicketService(t *testing.T) (*service.TicketService, *fakeTicketStore, *fakeMessageStore) {
	t.Helper()

	tickets := newFakeTicketStore()
	messages := &fakeMessageStore{tickets: tickets}

	return service.NewTicket(tickets, messages, testReopenGrace, zap.NewNop()), tickets, messages
}

func seedTicket(store *fakeTicketStore, status enum.TicketStatus) *types.SupportTicket {
	now := time.Now()
	ticket := &types.SupportTicket{
		TicketNumber: "TKT-0000TEST",
		UserID:       42,
		Category:     enum.TicketCategoryOther,
		Subject:      "Payment not arriving",
		Description:  strings.Repeat("d", 60),
		Priority:     enum.TicketPriorityMedium,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == enum.TicketStatusResolved {
		ticket.AdminResponse = "We reissued the payout."
		ticket.ResolvedAt = now
	}

	return store.seed(ticket)
}

func TestAddMessage(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("closed ticket refuses messages", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusClosed)

		_, err := svc.AddMessage(ctx, ticket.ID, enum.SenderRoleUser, "dana", "is anyone still looking at this?")
		require.ErrorIs(t, err, types.ErrTicketClosed)
	})

	t.Run("resolved ticket refuses messages", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusResolved)

		_, err := svc.AddMessage(ctx, ticket.ID, enum.SenderRoleUser, "dana", "one more thing")
		require.ErrorIs(t, err, types.ErrTicketClosed)
	})

	t.Run("admin message bumps the unread counter", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusInProgress)

		_, err := svc.AddMessage(ctx, ticket.ID, enum.SenderRoleAdmin, "support", "could you share a screenshot?")
		require.NoError(t, err)

		stored := tickets.tickets[ticket.ID]
		assert.Equal(t, 1, stored.MessageCount)
		assert.Equal(t, 1, stored.UnreadMessages)
	})

	t.Run("user reply flips awaiting_user back to in_progress", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusAwaitingUser)

		_, err := svc.AddMessage(ctx, ticket.ID, enum.SenderRoleUser, "dana", "screenshot attached")
		require.NoError(t, err)

		stored := tickets.tickets[ticket.ID]
		assert.Equal(t, enum.TicketStatusInProgress, stored.Status)
		assert.Equal(t, 1, stored.MessageCount)
		assert.Zero(t, stored.UnreadMessages)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := setupTicketService(t)

		_, err := svc.AddMessage(ctx, 999, enum.SenderRoleUser, "dana", "hello out there")
		require.ErrorIs(t, err, types.ErrTicketNotFound)
	})
}

func TestMarkMessagesReadIdempotent(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	svc, tickets, _ := setupTicketService(t)
	ticket := seedTicket(tickets, enum.TicketStatusInProgress)
	tickets.tickets[ticket.ID].UnreadMessages = 3

	require.NoError(t, svc.MarkMessagesRead(ctx, ticket.ID))
	assert.Zero(t, tickets.tickets[ticket.ID].UnreadMessages)

	// A second pass finds nothing to clear and still succeeds
	require.NoError(t, svc.MarkMessagesRead(ctx, ticket.ID))
	assert.Zero(t, tickets.tickets[ticket.ID].UnreadMessages)
}

func TestTransition(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("resolve requires an admin response", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusInProgress)

		_, err := svc.Transition(ctx, ticket.ID, enum.TicketStatusResolved, "   ")
		require.ErrorIs(t, err, types.ErrResponseRequired)
		assert.Equal(t, enum.TicketStatusInProgress, tickets.tickets[ticket.ID].Status)
	})

	t.Run("resolve stamps the resolution", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusInProgress)

		updated, err := svc.Transition(ctx, ticket.ID, enum.TicketStatusResolved, "Payout reissued.")
		require.NoError(t, err)
		assert.Equal(t, enum.TicketStatusResolved, updated.Status)
		assert.Equal(t, "Payout reissued.", updated.AdminResponse)
		assert.False(t, updated.ResolvedAt.IsZero())
	})

	t.Run("reopen inside the grace period clears resolved_at", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusResolved)

		updated, err := svc.Transition(ctx, ticket.ID, enum.TicketStatusInProgress, "")
		require.NoError(t, err)
		assert.Equal(t, enum.TicketStatusInProgress, updated.Status)
		assert.True(t, updated.ResolvedAt.IsZero())
		// The original resolution text survives the reopen
		assert.Equal(t, "We reissued the payout.", updated.AdminResponse)
	})

	t.Run("reopen after the grace period is refused", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusResolved)
		tickets.tickets[ticket.ID].ResolvedAt = time.Now().Add(-testReopenGrace - time.Hour)

		_, err := svc.Transition(ctx, ticket.ID, enum.TicketStatusInProgress, "")
		require.ErrorIs(t, err, types.ErrReopenExpired)
		assert.Equal(t, enum.TicketStatusResolved, tickets.tickets[ticket.ID].Status)
	})

	t.Run("invalid transition", func(t *testing.T) {
		t.Parallel()

		svc, tickets, _ := setupTicketService(t)
		ticket := seedTicket(tickets, enum.TicketStatusOpen)

		_, err := svc.Transition(ctx, ticket.ID, enum.TicketStatusResolved, "done")
		require.ErrorIs(t, err, types.ErrInvalidTransition)
	})
}

// TestTransitionStaleReadLoses walks the two-writer interleaving on a
// resolved ticket: one caller closes it while another caller's reopen was
// validated against the status before the close. The store's from-status
// guard refuses the second write, so the ticket stays closed.
func TestTransitionStaleReadLoses(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	svc, tickets, _ := setupTicketService(t)
	ticket := seedTicket(tickets, enum.TicketStatusResolved)

	_, err := svc.Transition(ctx, ticket.ID, enum.TicketStatusClosed, "")
	require.NoError(t, err)
	require.Equal(t, enum.TicketStatusClosed, tickets.tickets[ticket.ID].Status)

	// The second writer validated while the ticket was still resolved
	err = tickets.UpdateStatus(ctx, ticket.ID,
		enum.TicketStatusResolved, enum.TicketStatusInProgress, "", time.Time{}, time.Now())
	require.ErrorIs(t, err, types.ErrInvalidTransition)
	assert.Equal(t, enum.TicketStatusClosed, tickets.tickets[ticket.ID].Status)
}
