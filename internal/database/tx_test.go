package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRunner_InScope(t *testing.T) {
	t.Run("commits and exposes the tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs("product:ЕСПД:01").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		runner := NewTxRunner(db)
		err = runner.InScope(context.Background(), "product:ЕСПД:01", func(ctx context.Context) error {
			exec := Conn(ctx, db)
			assert.NotSame(t, db, exec)
			_, err := exec.ExecContext(ctx, "UPDATE products SET comment = NULL")
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = NewTxRunner(db).InScope(context.Background(), "k", func(context.Context) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		called := false
		err = NewTxRunner(db).InScope(context.Background(), "k", func(context.Context) error {
			called = true
			return nil
		})

		assert.ErrorContains(t, err, "lock timeout")
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested scope reuses the outer tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs("outer").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs("inner").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		runner := NewTxRunner(db)
		err = runner.InScope(context.Background(), "outer", func(ctx context.Context) error {
			return runner.InScope(ctx, "inner", func(context.Context) error { return nil })
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConn_WithoutTx(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Same(t, db, Conn(context.Background(), db))
}
