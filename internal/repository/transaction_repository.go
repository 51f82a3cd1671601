package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rentora/billing-engine/internal/domain"
)

const transactionColumns = `id, external_id, payable_type, payable_id, amount, currency, status, created_at, updated_at`

type transactionRepository struct {
	ext sqlx.ExtContext
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{ext: db}
}

func (r *transactionRepository) WithTx(tx *sqlx.Tx) TransactionRepository {
	return &transactionRepository{ext: tx}
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.GatewayTransaction) error {
	query := `
		INSERT INTO gateway_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.ext.ExecContext(ctx, query,
		txn.ID,
		txn.ExternalID,
		txn.PayableType,
		txn.PayableID,
		txn.Amount,
		txn.Currency,
		txn.Status,
		txn.CreatedAt,
		txn.UpdatedAt,
	)

	return err
}

func (r *transactionRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.GatewayTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM gateway_transactions WHERE external_id = $1`

	var txn domain.GatewayTransaction
	if err := sqlx.GetContext(ctx, r.ext, &txn, query, externalID); err != nil {
		return nil, err
	}

	return &txn, nil
}

// GetByExternalIDForUpdate locks the transaction row for the duration of the
// enclosing database transaction. Concurrent webhook deliveries for the same
// intent serialize here.
func (r *transactionRepository) GetByExternalIDForUpdate(ctx context.Context, externalID string) (*domain.GatewayTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM gateway_transactions WHERE external_id = $1 FOR UPDATE`

	var txn domain.GatewayTransaction
	if err := sqlx.GetContext(ctx, r.ext, &txn, query, externalID); err != nil {
		return nil, err
	}

	return &txn, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE gateway_transactions
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, status, time.Now())
	return err
}
