package database

import (
	"github.com/marketloop/supportd/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	ticket    *models.TicketModel
	message   *models.MessageModel
	deletedAd *models.DeletedAdModel
	appeal    *models.AppealModel
	stats     *models.StatsModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		ticket:    models.NewTicket(db, logger),
		message:   models.NewMessage(db, logger),
		deletedAd: models.NewDeletedAd(db, logger),
		appeal:    models.NewAppeal(db, logger),
		stats:     models.NewStats(db, logger),
	}
}

// Ticket returns the ticket model repository.
func (r *Repository) Ticket() *models.TicketModel {
	return r.ticket
}

// Message returns the message model repository.
func (r *Repository) Message() *models.MessageModel {
	return r.message
}

// DeletedAd returns the deleted ad model repository.
func (r *Repository) DeletedAd() *models.DeletedAdModel {
	return r.deletedAd
}

// Appeal returns the appeal model repository.
func (r *Repository) Appeal() *models.AppealModel {
	return r.appeal
}

// Stats returns the stats model repository.
func (r *Repository) Stats() *models.StatsModel {
	return r.stats
}
