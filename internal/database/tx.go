package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Executor is the query surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Conn returns the transaction bound to ctx by TxRunner.InScope, or db when there is none.
func Conn(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

const lockQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

// TxRunner runs units of work in a transaction serialized on a string key.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner on db.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// InScope begins a transaction, takes a transaction-level advisory lock on key and
// runs fn with the transaction bound to its context. The transaction commits when fn
// returns nil and rolls back otherwise; the lock is released either way.
// Called with a context that already carries a transaction, it locks key inside it.
func (r *TxRunner) InScope(ctx context.Context, key string, fn func(ctx context.Context) error) (err error) {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		if _, err := tx.ExecContext(ctx, lockQuery, key); err != nil {
			return fmt.Errorf("advisory lock %q: %w", key, err)
		}
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, lockQuery, key); err != nil {
		return fmt.Errorf("advisory lock %q: %w", key, err)
	}
	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
