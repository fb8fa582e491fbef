package repository

import (
	"context"
	"errors"
	"log/slog"
)

// ErrQueryFailed is the only error surfaced for statement execution failures.
// The underlying driver error is logged with the statement and its parameters
// but never returned, so driver detail cannot leak into HTTP responses.
var ErrQueryFailed = errors.New("database query execution failed")

func queryFailed(ctx context.Context, query string, args []interface{}, err error) error {
	slog.ErrorContext(ctx, "Error executing query",
		slog.String("query", query),
		slog.Any("args", args),
		slog.String("error", err.Error()),
	)
	return ErrQueryFailed
}
