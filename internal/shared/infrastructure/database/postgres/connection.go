package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
)

// applicationName identifies godlife sessions in pg_stat_activity.
const applicationName = "godlife"

func init() {
	database.RegisterPostgresDriver(NewConnection)
}

// Connection is a database.Connection backed by a pgx pool.
type Connection struct {
	pool *pgxpool.Pool
}

// NewConnection opens a pool. Sessions run in UTC so that server-side
// defaults agree with the UTC text timestamps written by FormatTime.
func NewConnection(ctx context.Context, cfg database.Config) (database.Connection, error) {
	if cfg.URL == "" {
		return nil, errors.New("postgres: DATABASE_URL is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	runtime := poolCfg.ConnConfig.RuntimeParams
	runtime["timezone"] = "UTC"
	if _, ok := runtime["application_name"]; !ok {
		runtime["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	return &Connection{pool: pool}, nil
}

// Pool exposes the pgx pool.
func (c *Connection) Pool() *pgxpool.Pool { return c.pool }

func (c *Connection) Driver() database.Driver { return database.DriverPostgres }

func (c *Connection) Close() error {
	c.pool.Close()
	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// BeginTx opens a read-committed transaction. Checkin toggles rely on the
// unique (routine_id, day) index rather than a stricter isolation level.
func (c *Connection) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	return &Transaction{querier: querier{q: tx}, tx: tx}, nil
}

func (c *Connection) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	return querier{q: c.pool}.Exec(ctx, query, args...)
}

func (c *Connection) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return c.pool.QueryRow(ctx, query, args...)
}

func (c *Connection) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return querier{q: c.pool}.Query(ctx, query, args...)
}

// Transaction is a database.Transaction backed by pgx.Tx.
type Transaction struct {
	querier
	tx pgx.Tx
}

func (t *Transaction) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *Transaction) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// pgxQuerier is the part of pgxpool.Pool and pgx.Tx both sides use.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type querier struct {
	q pgxQuerier
}

func (q querier) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	tag, err := q.q.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return commandTag{tag: tag}, nil
}

func (q querier) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return q.q.QueryRow(ctx, query, args...)
}

func (q querier) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := q.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rowSet{rows: rows}, nil
}

type commandTag struct {
	tag pgconn.CommandTag
}

func (r commandTag) RowsAffected() (int64, error) { return r.tag.RowsAffected(), nil }

// LastInsertId is unsupported; every table is keyed by a UUID chosen by the caller.
func (r commandTag) LastInsertId() (int64, error) {
	return 0, errors.New("postgres: LastInsertId is not supported")
}

type rowSet struct {
	rows pgx.Rows
}

func (r rowSet) Next() bool             { return r.rows.Next() }
func (r rowSet) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r rowSet) Err() error             { return r.rows.Err() }

func (r rowSet) Close() error {
	r.rows.Close()
	return nil
}
