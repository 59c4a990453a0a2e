package service

import (
	"context"
	"database/sql"
)

// TxRunner executes a function within a database transaction.  The
// transaction is committed when the function returns nil and rolled
// back otherwise, so a failure in any step reverses every mutation
// already applied inside the scope.  Services depend on this
// interface rather than *sql.DB directly, which keeps multi-step
// flows testable without a live database.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SQLTxRunner is the production TxRunner backed by a *sql.DB.
type SQLTxRunner struct {
	db *sql.DB
}

// NewSQLTxRunner returns a SQLTxRunner bound to the given database.
func NewSQLTxRunner(db *sql.DB) *SQLTxRunner { return &SQLTxRunner{db: db} }

// WithinTx begins a transaction, runs fn, and commits on success.
// Any error from fn or from commit leaves the database untouched.
func (r *SQLTxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
