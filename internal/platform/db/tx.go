package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
// Repositories run their statements against a Querier so the same code
// works inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type contextKey string

const txKey contextKey = "db_tx"

// QuerierFromContext returns the transaction bound to ctx by WithTx,
// or nil when the caller is not inside a transaction.
func QuerierFromContext(ctx context.Context) Querier {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	if tx == nil {
		return nil
	}
	return tx
}

// Runner executes a function, optionally inside a database transaction.
// Services depend on this interface rather than on a pool so tests can
// substitute a pass-through implementation.
type Runner interface {
	RunTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type poolRunner struct {
	pool *pgxpool.Pool
}

// NewRunner returns a Runner backed by the connection pool.
func NewRunner(pool *pgxpool.Pool) Runner {
	return &poolRunner{pool: pool}
}

func (r *poolRunner) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, r.pool, fn)
}

// WithTx runs fn inside a single transaction. The transaction is bound
// to the context passed to fn, so every repository call made through
// that context shares it. Nested calls reuse the outer transaction.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if QuerierFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
