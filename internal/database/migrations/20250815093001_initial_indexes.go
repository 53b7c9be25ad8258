package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Ticket listing indexes
			CREATE INDEX IF NOT EXISTS idx_support_tickets_user_created
			ON support_tickets (user_id, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_support_tickets_status
			ON support_tickets (status, updated_at DESC);

			CREATE INDEX IF NOT EXISTS idx_support_tickets_resolved_at
			ON support_tickets (resolved_at ASC)
			WHERE status = 3;

			-- Message polling indexes
			CREATE INDEX IF NOT EXISTS idx_ticket_messages_ticket_order
			ON ticket_messages (ticket_id, created_at ASC, id ASC);

			-- Deleted ad indexes
			CREATE INDEX IF NOT EXISTS idx_deleted_ads_user_deleted
			ON deleted_ads (user_id, deleted_at DESC);

			CREATE INDEX IF NOT EXISTS idx_deleted_ads_appeal_status
			ON deleted_ads (appeal_status, appeal_deadline ASC);

			-- Appeal review indexes
			CREATE INDEX IF NOT EXISTS idx_appeals_status_created
			ON appeals (status, created_at ASC);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_support_tickets_user_created;
			DROP INDEX IF EXISTS idx_support_tickets_status;
			DROP INDEX IF EXISTS idx_support_tickets_resolved_at;
			DROP INDEX IF EXISTS idx_ticket_messages_ticket_order;
			DROP INDEX IF EXISTS idx_deleted_ads_user_deleted;
			DROP INDEX IF EXISTS idx_deleted_ads_appeal_status;
			DROP INDEX IF EXISTS idx_appeals_status_created;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
