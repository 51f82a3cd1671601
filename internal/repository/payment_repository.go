package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/rentora/billing-engine/internal/domain"
)

const paymentColumns = `id, contract_id, amount, due_date, paid_date, status, late_fee, transaction_ref, receipt_url, created_at, updated_at`

type paymentRepository struct {
	ext sqlx.ExtContext
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{ext: db}
}

func (r *paymentRepository) WithTx(tx *sqlx.Tx) PaymentRepository {
	return &paymentRepository{ext: tx}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.ext.ExecContext(ctx, query,
		payment.ID,
		payment.ContractID,
		payment.Amount,
		payment.DueDate,
		payment.PaidDate,
		payment.Status,
		payment.LateFee,
		payment.TransactionRef,
		payment.ReceiptURL,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var payment domain.Payment
	if err := sqlx.GetContext(ctx, r.ext, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	var payment domain.Payment
	if err := sqlx.GetContext(ctx, r.ext, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE contract_id = $1
		ORDER BY due_date
	`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.ext, &payments, query, contractID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ExistsForDueDate(ctx context.Context, contractID uuid.UUID, dueDate time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE contract_id = $1 AND due_date = $2 AND status <> 'cancelled'
		)
	`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext, &exists, query, contractID, dueDate); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *paymentRepository) ListDueOn(ctx context.Context, dueDate time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE due_date = $1 AND status IN ('pending', 'overdue')
		ORDER BY contract_id
	`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.ext, &payments, query, dueDate); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListUnpaidPastDue(ctx context.Context, asOf time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE due_date < $1 AND status IN ('pending', 'overdue')
		ORDER BY due_date
	`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.ext, &payments, query, asOf); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time, transactionRef string) error {
	query := `
		UPDATE payments
		SET status = 'paid', paid_date = $2, transaction_ref = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, paidDate, transactionRef, time.Now())
	return err
}

func (r *paymentRepository) MarkOverdue(ctx context.Context, id uuid.UUID, lateFee decimal.Decimal) error {
	query := `
		UPDATE payments
		SET status = 'overdue', late_fee = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, lateFee, time.Now())
	return err
}

func (r *paymentRepository) SetReceipt(ctx context.Context, id uuid.UUID, receiptURL string) error {
	query := `
		UPDATE payments
		SET receipt_url = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, receiptURL, time.Now())
	return err
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, status, time.Now())
	return err
}
