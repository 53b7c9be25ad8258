package rest

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/marketloop/supportd/internal/database"
	"github.com/marketloop/supportd/internal/rest/handler"
	"github.com/marketloop/supportd/internal/rest/middleware/ratelimit"
	"github.com/marketloop/supportd/internal/setup/config"
	"github.com/redis/rueidis"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	ticketHandler *handler.TicketHandler
	appealHandler *handler.AppealHandler
}

// NewServer creates a new REST API server.
func NewServer(
	db database.Client, ratelimitClient rueidis.Client,
	logger *zap.Logger, config *config.APIConfig,
) http.Handler {
	// Create server instance with handlers
	server := &Server{
		ticketHandler: handler.NewTicketHandler(db, logger),
		appealHandler: handler.NewAppealHandler(db, logger),
	}

	// Create middleware instances
	rateLimiter := ratelimit.New(&config.RateLimit, ratelimitClient, logger)

	// Create base router
	router := bunrouter.New()

	// Create API routes group
	router.Use(
		rateLimiter.AsRESTMiddleware,
	).WithGroup("/v1", func(g *bunrouter.Group) {
		g.POST("/tickets", server.ticketHandler.CreateTicket)
		g.GET("/tickets", server.ticketHandler.ListTickets)
		g.GET("/tickets/stats", server.ticketHandler.GetStats)
		g.GET("/tickets/number/:number", server.ticketHandler.GetTicketByNumber)
		g.GET("/tickets/:id", server.ticketHandler.GetTicket)
		g.POST("/tickets/:id/messages", server.ticketHandler.AddMessage)
		g.GET("/tickets/:id/messages", server.ticketHandler.GetMessages)
		g.POST("/tickets/:id/read", server.ticketHandler.MarkRead)
		g.PUT("/tickets/:id/status", server.ticketHandler.UpdateStatus)

		g.GET("/deleted-ads", server.appealHandler.ListDeletedAds)
		g.GET("/deleted-ads/:id", server.appealHandler.GetDeletedAd)
		g.GET("/deleted-ads/:id/can-appeal", server.appealHandler.CanAppeal)
		g.POST("/deleted-ads/:id/appeal", server.appealHandler.SubmitAppeal)

		g.GET("/appeals", server.appealHandler.ListAppeals)
		g.GET("/appeals/stats", server.appealHandler.GetStats)
		g.GET("/appeals/:id", server.appealHandler.GetAppeal)
		g.PUT("/appeals/:id/status", server.appealHandler.UpdateStatus)
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router)
}
