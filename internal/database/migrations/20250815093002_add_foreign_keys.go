package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// Clean up orphaned records to avoid FK constraint violations
		_, err := db.NewRaw(`
			DELETE FROM ticket_messages tm
			WHERE NOT EXISTS (
				SELECT 1 FROM support_tickets st
				WHERE st.id = tm.ticket_id
			)
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to clean up orphaned ticket_messages: %w", err)
		}

		_, err = db.NewRaw(`
			DELETE FROM appeals a
			WHERE NOT EXISTS (
				SELECT 1 FROM deleted_ads da
				WHERE da.id = a.deleted_ad_id
			)
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to clean up orphaned appeals: %w", err)
		}

		// Add foreign key constraints
		_, err = db.NewRaw(`
			ALTER TABLE ticket_messages
			ADD CONSTRAINT fk_ticket_messages_ticket
			FOREIGN KEY (ticket_id) REFERENCES support_tickets (id)
			ON DELETE CASCADE
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add ticket_messages FK: %w", err)
		}

		_, err = db.NewRaw(`
			ALTER TABLE appeals
			ADD CONSTRAINT fk_appeals_deleted_ad
			FOREIGN KEY (deleted_ad_id) REFERENCES deleted_ads (id)
			ON DELETE CASCADE
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add appeals FK: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			ALTER TABLE ticket_messages DROP CONSTRAINT IF EXISTS fk_ticket_messages_ticket;
			ALTER TABLE appeals DROP CONSTRAINT IF EXISTS fk_appeals_deleted_ad;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop foreign keys: %w", err)
		}

		return nil
	})
}
