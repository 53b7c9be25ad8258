package migrations

import (
	"context"
	"fmt"

	"github.com/marketloop/supportd/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.SupportTicket)(nil),
			(*types.TicketMessage)(nil),
			(*types.DeletedAd)(nil),
			(*types.Appeal)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		// Down migration - drop all tables
		models := []any{
			(*types.Appeal)(nil),
			(*types.DeletedAd)(nil),
			(*types.TicketMessage)(nil),
			(*types.SupportTicket)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Cascade().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
