package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/marketloop/supportd/internal/database"
	"github.com/marketloop/supportd/internal/database/migrations"
	"github.com/marketloop/supportd/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var errNameRequired = errors.New("NAME argument required")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	db, migrator, logger, err := setupMigrator()
	if err != nil {
		return fmt.Errorf("failed to setup migrator: %w", err)
	}
	defer db.Close()

	app := &cli.Command{
		Name:  "db",
		Usage: "Schema migration tool for the support database",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the migration bookkeeping tables",
				Action: func(ctx context.Context, _ *cli.Command) error { return migrator.Init(ctx) },
			},
			{
				Name:  "migrate",
				Usage: "Apply all pending migrations",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return withLock(ctx, migrator, func(ctx context.Context) error {
						group, err := migrator.Migrate(ctx)
						if err != nil {
							return err
						}

						if group.IsZero() {
							logger.Info("Database is already up to date")
							return nil
						}

						logger.Info("Applied migrations", zap.String("group", group.String()))

						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "Revert the most recent migration group",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return withLock(ctx, migrator, func(ctx context.Context) error {
						group, err := migrator.Rollback(ctx)
						if err != nil {
							return err
						}

						if group.IsZero() {
							logger.Info("Nothing to roll back")
							return nil
						}

						logger.Info("Rolled back migrations", zap.String("group", group.String()))

						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "Show applied and pending migrations",
				Action: func(ctx context.Context, _ *cli.Command) error {
					ms, err := migrator.MigrationsWithStatus(ctx)
					if err != nil {
						return err
					}

					logger.Info("Migration status",
						zap.String("migrations", ms.String()),
						zap.String("unapplied", ms.Unapplied().String()),
						zap.String("last_group", ms.LastGroup().String()),
					)

					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "Generate a new Go migration stub",
				ArgsUsage: "NAME",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return errNameRequired
					}

					mf, err := migrator.CreateGoMigration(ctx, c.Args().First())
					if err != nil {
						return err
					}

					logger.Info("Created migration",
						zap.String("name", mf.Name),
						zap.String("path", mf.Path),
					)

					return nil
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// withLock runs fn while holding the migrator's advisory lock so concurrent
// invocations cannot interleave schema changes.
func withLock(ctx context.Context, migrator *migrate.Migrator, fn func(context.Context) error) error {
	if err := migrator.Lock(ctx); err != nil {
		return err
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	return fn(ctx)
}

func setupMigrator() (database.Client, *migrate.Migrator, *zap.Logger, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(context.Background(), &cfg.Common, logger, false)
	if err != nil {
		return nil, nil, logger, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, migrate.NewMigrator(db.DB(), migrations.Migrations), logger, nil
}
