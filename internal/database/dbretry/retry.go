package dbretry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	maxElapsedTime  = 30 * time.Second
	initialInterval = 500 * time.Millisecond
	maxInterval     = 5 * time.Second
	maxRetries      = uint64(5)
)

// retryableSQLStates lists PostgreSQL error codes worth retrying:
// connection problems (class 08), serialization failures and deadlocks
// (class 40), resource exhaustion (class 53), operator intervention
// (class 57), and lock contention (class 55).
var retryableSQLStates = map[string]struct{}{
	"08000": {}, // connection_exception
	"08001": {}, // sqlclient_unable_to_establish_sqlconnection
	"08003": {}, // connection_does_not_exist
	"08004": {}, // sqlserver_rejected_establishment_of_sqlconnection
	"08006": {}, // connection_failure
	"08007": {}, // transaction_resolution_unknown
	"08P01": {}, // protocol_violation
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"53000": {}, // insufficient_resources
	"53100": {}, // disk_full
	"53200": {}, // out_of_memory
	"53300": {}, // too_many_connections
	"53400": {}, // configuration_limit_exceeded
	"55006": {}, // object_in_use
	"55P03": {}, // lock_not_available
	"57000": {}, // operator_intervention
	"57P01": {}, // admin_shutdown
	"57P02": {}, // crash_shutdown
	"57P03": {}, // cannot_connect_now
	"57P04": {}, // database_dropped
}

// transientNetworkMarkers are substrings seen in driver errors that
// indicate a dropped or flaky connection rather than a bad query.
var transientNetworkMarkers = []string{
	"connection reset by peer",
	"broken pipe",
	"connection refused",
	"no connection",
	"i/o timeout",
	"EOF",
}

// IsRetryableError reports whether err is transient and worth retrying.
// Constraint violations and other query-level failures are not.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgerr *pgdriver.Error
	if errors.As(err, &pgerr) {
		if _, ok := retryableSQLStates[pgerr.Field('C')]; ok {
			return true
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	msg := err.Error()
	for _, marker := range transientNetworkMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// NoResult runs operation with exponential backoff, retrying only
// transient failures. Non-retryable errors are returned immediately,
// wrapped so callers can still match sentinel errors with errors.Is.
func NoResult(ctx context.Context, operation func(context.Context) error) error {
	var lastErr error

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(maxElapsedTime),
		backoff.WithInitialInterval(initialInterval),
		backoff.WithMaxInterval(maxInterval),
	), maxRetries)

	err := backoff.Retry(func() error {
		err := operation(ctx)
		if err != nil {
			if !IsRetryableError(err) {
				return backoff.Permanent(fmt.Errorf("non-retryable error: %w", err))
			}

			lastErr = err

			return err
		}

		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		if lastErr != nil {
			// Surface the last database error, not the backoff bookkeeping
			return fmt.Errorf("database operation failed after retries: %w", lastErr)
		}

		return fmt.Errorf("database operation failed: %w", err)
	}

	return nil
}

// Operation is NoResult for operations that produce a value.
func Operation[T any](ctx context.Context, operation func(context.Context) (T, error)) (T, error) {
	var result T

	err := NoResult(ctx, func(ctx context.Context) error {
		var err error

		result, err = operation(ctx)

		return err
	})

	return result, err
}

// Transaction runs fn inside a transaction, retrying the whole
// transaction on transient failures.
func Transaction(ctx context.Context, db *bun.DB, fn func(context.Context, bun.Tx) error) error {
	return NoResult(ctx, func(ctx context.Context) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return fn(ctx, tx)
		})
	})
}
