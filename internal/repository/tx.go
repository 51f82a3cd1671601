package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TxManager owns the transactional boundary for multi-statement units of
// work. Repositories are rebound into the transaction via their WithTx
// methods.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
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

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. Services map these onto conflict errors, or swallow them where
// the constraint itself enforces idempotency.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
