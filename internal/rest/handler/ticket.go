package handler

import (
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/marketloop/supportd/internal/database"
	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/marketloop/supportd/internal/rest/convert"
	restTypes "github.com/marketloop/supportd/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// TicketHandler handles ticket-related REST endpoints.
type TicketHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewTicketHandler creates a new ticket handler.
func NewTicketHandler(db database.Client, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{
		db:     db,
		logger: logger,
	}
}

// CreateTicket opens a new support ticket.
func (h *TicketHandler) CreateTicket(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.CreateTicketRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}

	category, err := enum.ParseTicketCategory(body.Category)
	if err != nil {
		return badRequest(w, "unknown category: "+body.Category)
	}

	priority, err := enum.ParseTicketPriority(body.Priority)
	if err != nil {
		return badRequest(w, "unknown priority: "+body.Priority)
	}

	ticket, err := h.db.Service().Ticket().CreateTicket(
		req.Context(), body.UserID, category, body.Subject, body.Description, priority,
	)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.Ticket(ticket))
}

// ListTickets lists the tickets of the user given by the userId query
// parameter, newest first.
func (h *TicketHandler) ListTickets(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := strconv.ParseUint(req.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		return badRequest(w, "userId query parameter is required")
	}

	tickets, err := h.db.Service().Ticket().GetTicketsByUser(req.Context(), userID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.Tickets(tickets))
}

// GetTicket retrieves a single ticket by ID.
func (h *TicketHandler) GetTicket(w http.ResponseWriter, req bunrouter.Request) error {
	ticketID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid ticket id")
	}

	ticket, err := h.db.Service().Ticket().GetTicket(req.Context(), ticketID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.Ticket(ticket))
}

// GetTicketByNumber retrieves a single ticket by its reference number.
func (h *TicketHandler) GetTicketByNumber(w http.ResponseWriter, req bunrouter.Request) error {
	ticket, err := h.db.Model().Ticket().GetTicketByNumber(req.Context(), req.Param("number"))
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.Ticket(ticket))
}

// AddMessage appends a message to a ticket's thread.
func (h *TicketHandler) AddMessage(w http.ResponseWriter, req bunrouter.Request) error {
	ticketID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid ticket id")
	}

	var body restTypes.AddMessageRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}

	role, err := enum.ParseSenderRole(body.SenderRole)
	if err != nil {
		return badRequest(w, "unknown sender role: "+body.SenderRole)
	}

	message, err := h.db.Service().Ticket().AddMessage(
		req.Context(), ticketID, role, body.SenderName, body.Content,
	)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.Message(message))
}

// GetMessages returns a ticket's conversation thread in send order.
func (h *TicketHandler) GetMessages(w http.ResponseWriter, req bunrouter.Request) error {
	ticketID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid ticket id")
	}

	messages, err := h.db.Service().Ticket().GetMessages(req.Context(), ticketID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.Messages(messages))
}

// MarkRead clears a ticket's unread counter.
func (h *TicketHandler) MarkRead(w http.ResponseWriter, req bunrouter.Request) error {
	ticketID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid ticket id")
	}

	if err := h.db.Service().Ticket().MarkMessagesRead(req.Context(), ticketID); err != nil {
		return writeError(w, err, h.logger)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// UpdateStatus moves a ticket to a new lifecycle state.
func (h *TicketHandler) UpdateStatus(w http.ResponseWriter, req bunrouter.Request) error {
	ticketID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid ticket id")
	}

	var body restTypes.UpdateTicketStatusRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}

	status, err := enum.ParseTicketStatus(body.Status)
	if err != nil {
		return badRequest(w, "unknown status: "+body.Status)
	}

	ticket, err := h.db.Service().Ticket().Transition(req.Context(), ticketID, status, body.AdminResponse)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.Ticket(ticket))
}

// GetStats returns ticket counts for the user given by the userId query
// parameter, or across all users when it is absent.
func (h *TicketHandler) GetStats(w http.ResponseWriter, req bunrouter.Request) error {
	var userID uint64

	if raw := req.URL.Query().Get("userId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(w, "invalid userId query parameter")
		}

		userID = parsed
	}

	stats, err := h.db.Service().Stats().GetSupportStats(req.Context(), userID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, stats.Tickets)
}
