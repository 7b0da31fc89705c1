package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Row is satisfied by *sql.Row and pgx.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is the cursor returned by Query.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the effect of Exec.
type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

// Executor runs ?-placeholder queries. Repositories rebind placeholders for
// the connection's driver before calling it.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that can be committed or rolled back.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is an open database of either driver.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}

// IsNoRows reports whether err means a lookup found nothing, for either driver.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

// WrapSQLResult adapts a database/sql result.
func WrapSQLResult(r sql.Result) Result { return r }

// WrapSQLRows adapts database/sql rows.
func WrapSQLRows(r *sql.Rows) Rows { return r }
