package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// TxManager runs a unit of work inside a single database transaction.
// Repositories take the sqlx.ExtContext they are handed and never open
// transactions themselves, so one business operation maps to one commit.
type TxManager interface {
	InTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error
}

type sqlxTxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return &sqlxTxManager{db: db}
}

func (m *sqlxTxManager) InTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
