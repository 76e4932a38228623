package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the SQLite repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Layouts used for the TEXT date columns in SQLite.
const (
	sqliteDateLayout      = "2006-01-02"
	sqliteTimestampLayout = "2006-01-02T15:04:05.000000Z07:00"
)
