package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketloop/supportd/internal/redis"
	"github.com/marketloop/supportd/internal/rest"
	"github.com/marketloop/supportd/internal/setup"
	"github.com/marketloop/supportd/internal/setup/telemetry"
	"go.uber.org/zap"
)

// RESTLogDir specifies where REST server log files are stored.
const RESTLogDir = "logs/rest_logs"

// Server timeouts.
const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 10 * time.Second
	ShutdownTimeout = 30 * time.Second
)

func main() {
	app, err := setup.InitializeApp(context.Background(), telemetry.ServiceAPI, RESTLogDir, "")
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup(context.Background())

	if err := serve(app); err != nil {
		app.Logger.Fatal("REST server failed", zap.Error(err))
	}
}

func serve(app *setup.App) error {
	// Rate limiter blocks live in their own Redis database
	ratelimitClient, err := app.RedisManager.GetClient(redis.RatelimitDBIndex)
	if err != nil {
		return fmt.Errorf("failed to get ratelimit Redis client: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", app.Config.API.Server.Host, app.Config.API.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      rest.NewServer(app.DB, ratelimitClient, app.Logger, &app.Config.API),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	go func() {
		app.Logger.Info("REST server started", zap.String("addr", addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("Failed to start server", zap.Error(err))
		}
	}()

	// Block until an interrupt arrives, then drain in-flight requests
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	app.Logger.Info("Shutting down REST server...")

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	app.Logger.Info("Server gracefully stopped")

	return nil
}
