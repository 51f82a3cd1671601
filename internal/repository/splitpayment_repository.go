package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rentora/billing-engine/internal/domain"
)

const splitColumns = `id, contract_id, total_amount, deposit_percentage, deposit_amount, balance_amount, description, status, created_at, updated_at`

const splitItemColumns = `id, split_payment_id, item_type, amount, due_date, paid_date, status, transaction_ref, receipt_url, created_at, updated_at`

type splitPaymentRepository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func NewSplitPaymentRepository(db *sqlx.DB) SplitPaymentRepository {
	return &splitPaymentRepository{db: db, ext: db}
}

func (r *splitPaymentRepository) WithTx(tx *sqlx.Tx) SplitPaymentRepository {
	return &splitPaymentRepository{db: r.db, ext: tx}
}

// Create inserts the split payment and both items. When called outside an
// enclosing transaction it opens its own, so the parent and its items are
// always persisted atomically.
func (r *splitPaymentRepository) Create(ctx context.Context, split *domain.SplitPayment, items []*domain.SplitPaymentItem) error {
	if tx, ok := r.ext.(*sqlx.Tx); ok {
		return r.createIn(ctx, tx, split, items)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.createIn(ctx, tx, split, items); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *splitPaymentRepository) createIn(ctx context.Context, tx *sqlx.Tx, split *domain.SplitPayment, items []*domain.SplitPaymentItem) error {
	splitQuery := `
		INSERT INTO split_payments (` + splitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.ExecContext(ctx, splitQuery,
		split.ID,
		split.ContractID,
		split.TotalAmount,
		split.DepositPercentage,
		split.DepositAmount,
		split.BalanceAmount,
		split.Description,
		split.Status,
		split.CreatedAt,
		split.UpdatedAt,
	)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO split_payment_items (` + splitItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, item := range items {
		_, err = tx.ExecContext(ctx, itemQuery,
			item.ID,
			item.SplitPaymentID,
			item.ItemType,
			item.Amount,
			item.DueDate,
			item.PaidDate,
			item.Status,
			item.TransactionRef,
			item.ReceiptURL,
			item.CreatedAt,
			item.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *splitPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SplitPayment, error) {
	query := `SELECT ` + splitColumns + ` FROM split_payments WHERE id = $1`

	var split domain.SplitPayment
	if err := sqlx.GetContext(ctx, r.ext, &split, query, id); err != nil {
		return nil, err
	}

	return &split, nil
}

func (r *splitPaymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.SplitPayment, error) {
	query := `SELECT ` + splitColumns + ` FROM split_payments WHERE id = $1 FOR UPDATE`

	var split domain.SplitPayment
	if err := sqlx.GetContext(ctx, r.ext, &split, query, id); err != nil {
		return nil, err
	}

	return &split, nil
}

func (r *splitPaymentRepository) GetActiveByContract(ctx context.Context, contractID uuid.UUID) (*domain.SplitPayment, error) {
	query := `
		SELECT ` + splitColumns + `
		FROM split_payments
		WHERE contract_id = $1 AND status IN ('pending', 'deposit_paid')
	`

	var split domain.SplitPayment
	if err := sqlx.GetContext(ctx, r.ext, &split, query, contractID); err != nil {
		return nil, err
	}

	return &split, nil
}

func (r *splitPaymentRepository) GetItems(ctx context.Context, splitID uuid.UUID) ([]*domain.SplitPaymentItem, error) {
	query := `
		SELECT ` + splitItemColumns + `
		FROM split_payment_items
		WHERE split_payment_id = $1
		ORDER BY due_date
	`

	var items []*domain.SplitPaymentItem
	if err := sqlx.SelectContext(ctx, r.ext, &items, query, splitID); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *splitPaymentRepository) GetItemByID(ctx context.Context, itemID uuid.UUID) (*domain.SplitPaymentItem, error) {
	query := `SELECT ` + splitItemColumns + ` FROM split_payment_items WHERE id = $1`

	var item domain.SplitPaymentItem
	if err := sqlx.GetContext(ctx, r.ext, &item, query, itemID); err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *splitPaymentRepository) ListItemsDueOn(ctx context.Context, dueDate time.Time) ([]*domain.SplitPaymentItem, error) {
	query := `
		SELECT ` + splitItemColumns + `
		FROM split_payment_items
		WHERE due_date = $1 AND status = 'pending'
		ORDER BY split_payment_id
	`

	var items []*domain.SplitPaymentItem
	if err := sqlx.SelectContext(ctx, r.ext, &items, query, dueDate); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *splitPaymentRepository) MarkItemPaid(ctx context.Context, itemID uuid.UUID, paidDate time.Time, transactionRef string) error {
	query := `
		UPDATE split_payment_items
		SET status = 'paid', paid_date = $2, transaction_ref = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, itemID, paidDate, transactionRef, time.Now())
	return err
}

func (r *splitPaymentRepository) SetItemReceipt(ctx context.Context, itemID uuid.UUID, receiptURL string) error {
	query := `
		UPDATE split_payment_items
		SET receipt_url = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, itemID, receiptURL, time.Now())
	return err
}

func (r *splitPaymentRepository) UpdateStatus(ctx context.Context, splitID uuid.UUID, status string) error {
	query := `
		UPDATE split_payments
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, splitID, status, time.Now())
	return err
}

func (r *splitPaymentRepository) UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status string) error {
	query := `
		UPDATE split_payment_items
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, itemID, status, time.Now())
	return err
}
