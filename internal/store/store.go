package store

import (
	"context"
	"database/sql"
)

// querier is the slice of *sql.DB / *sql.Tx the store helpers need, so the
// same row helpers serve both pooled and transactional calls.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
