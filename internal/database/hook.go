package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// slowQueryThreshold is the elapsed time past which a successful query is
// logged at warn level instead of debug.
const slowQueryThreshold = 250 * time.Millisecond

// Hook is a bun.QueryHook that reports query outcomes through zap.
// Queries that miss (sql.ErrNoRows) are routine and logged as successes.
type Hook struct {
	logger *zap.Logger
}

// NewHook creates a query hook writing to the given logger.
func NewHook(logger *zap.Logger) *Hook {
	return &Hook{logger: logger.Named("query")}
}

// BeforeQuery implements bun.QueryHook.
func (h *Hook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery logs the finished query with its elapsed time.
func (h *Hook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	fields := []zap.Field{
		zap.String("query", event.Query),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		h.logger.Error("Query failed", append(fields, zap.Error(event.Err))...)
	case elapsed >= slowQueryThreshold:
		h.logger.Warn("Slow query", fields...)
	default:
		h.logger.Debug("Query completed", fields...)
	}
}
