package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/marketloop/supportd/internal/setup"
	"github.com/marketloop/supportd/internal/setup/telemetry"
	"github.com/marketloop/supportd/internal/worker/maintenance"
	"github.com/marketloop/supportd/internal/worker/stats"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// StatsWorker caches periodic dashboard snapshots.
	StatsWorker = "stats"

	// MaintenanceWorker closes resolved tickets past their grace period.
	MaintenanceWorker = "maintenance"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the supportd background workers",
		Commands: []*cli.Command{
			{
				Name:  StatsWorker,
				Usage: "Start the stats snapshot worker",
				Action: func(ctx context.Context, _ *cli.Command) error {
					runWorkers(ctx, StatsWorker)
					return nil
				},
			},
			{
				Name:  MaintenanceWorker,
				Usage: "Start the ticket maintenance worker",
				Action: func(ctx context.Context, _ *cli.Command) error {
					runWorkers(ctx, MaintenanceWorker)
					return nil
				},
			},
			{
				Name:  "all",
				Usage: "Start every worker in one process",
				Action: func(ctx context.Context, _ *cli.Command) error {
					runWorkers(ctx, StatsWorker, MaintenanceWorker)
					return nil
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runWorkers starts the given worker types and blocks until interrupted.
func runWorkers(ctx context.Context, workerTypes ...string) {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir, workerTypes[0])
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup(ctx)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup

	for _, workerType := range workerTypes {
		workerLogger := app.LogManager.GetWorkerLogger(workerType + "_worker")

		switch workerType {
		case StatsWorker:
			w, err := stats.New(app, workerLogger)
			if err != nil {
				app.Logger.Fatal("Failed to create stats worker", zap.Error(err))
			}

			wg.Add(1)

			go func() {
				defer wg.Done()
				w.Start(ctx)
			}()

		case MaintenanceWorker:
			w := maintenance.New(app, workerLogger)

			wg.Add(1)

			go func() {
				defer wg.Done()
				w.Start(ctx)
			}()

		default:
			app.Logger.Fatal("Unknown worker type", zap.String("type", workerType))
		}
	}

	wg.Wait()
	app.Logger.Info("All workers stopped")
}
