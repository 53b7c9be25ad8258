package dbretry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marketloop/supportd/internal/database/dbretry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: true,
		},
		{
			name: "context canceled",
			err:  context.Canceled,
			want: true,
		},
		{
			name: "connection reset",
			err:  errors.New("read tcp: connection reset by peer"),
			want: true,
		},
		{
			name: "broken pipe",
			err:  errors.New("write: broken pipe"),
			want: true,
		},
		{
			name: "io timeout",
			err:  errors.New("dial tcp: i/o timeout"),
			want: true,
		},
		{
			name: "unexpected EOF",
			err:  errors.New("unexpected EOF"),
			want: true,
		},
		{
			name: "constraint violation",
			err:  errors.New("duplicate key value violates unique constraint"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestOperationSuccess(t *testing.T) {
	t.Parallel()

	calls := 0

	result, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestOperationStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("row not found")
	calls := 0

	_, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
		calls++
		return 0, sentinel
	})
	require.Error(t, err)
	// Non-retryable errors fail on the first attempt and keep the chain
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, sentinel)
}

func TestNoResultStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("constraint violated")
	calls := 0

	err := dbretry.NoResult(t.Context(), func(context.Context) error {
		calls++
		return sentinel
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, sentinel)
}
