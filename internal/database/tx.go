package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TxManager runs a function within one database transaction. Services depend
// on this interface rather than *sqlx.DB directly so unit tests can swap in a
// no-op manager alongside mock repositories.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type sqlTxManager struct {
	db *sqlx.DB
}

// NewTxManager creates a TxManager backed by the given database.
func NewTxManager(db *sqlx.DB) TxManager {
	return &sqlTxManager{db: db}
}

// WithinTx begins a transaction, runs fn, and commits. Any error from fn
// rolls the transaction back and is returned unchanged.
func (m *sqlTxManager) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
