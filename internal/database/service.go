package database

import (
	"time"

	"github.com/marketloop/supportd/internal/database/service"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	ticket *service.TicketService
	appeal *service.AppealService
	stats  *service.StatsService
}

// NewService creates a new service instance with all services.
func NewService(
	_ *bun.DB, repository *Repository,
	appealWindow, reopenGrace time.Duration, logger *zap.Logger,
) *Service {
	return &Service{
		ticket: service.NewTicket(repository.Ticket(), repository.Message(), reopenGrace, logger),
		appeal: service.NewAppeal(repository.Appeal(), repository.DeletedAd(), appealWindow, logger),
		stats:  service.NewStats(repository.Stats(), logger),
	}
}

// Ticket returns the ticket service.
func (s *Service) Ticket() *service.TicketService {
	return s.ticket
}

// Appeal returns the appeal service.
func (s *Service) Appeal() *service.AppealService {
	return s.appeal
}

// Stats returns the stats service.
func (s *Service) Stats() *service.StatsService {
	return s.stats
}
