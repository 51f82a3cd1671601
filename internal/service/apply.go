package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/billing-engine/internal/domain"
	"github.com/rentora/billing-engine/internal/repository"
	customError "github.com/rentora/billing-engine/pkg/errors"
)

// applyPaymentPaid marks one ledger row paid. Callers run it inside a
// database transaction with the repository rebound to that transaction; the
// row lock serializes it against concurrent webhook deliveries.
func applyPaymentPaid(ctx context.Context, payments repository.PaymentRepository, paymentID uuid.UUID, transactionRef string, paidAt time.Time) (*domain.Payment, error) {
	payment, err := payments.GetByIDForUpdate(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPaymentNotFound(paymentID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if !payment.IsPayable() {
		return nil, customError.WrapPaymentNotPayable(paymentID.String(), payment.Status)
	}

	if err := payments.MarkPaid(ctx, payment.ID, paidAt, transactionRef); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payment.Status = domain.PaymentStatusPaid
	payment.PaidDate = &paidAt
	payment.TransactionRef = &transactionRef

	return payment, nil
}

// applySplitItemPaid marks one split installment paid and recomputes the
// parent aggregate status. The parent row is locked first so two item events
// for the same split cannot interleave their status recomputation. The
// balance item completing the split does not require the deposit to be paid;
// gateway events arrive in any order.
func applySplitItemPaid(ctx context.Context, splits repository.SplitPaymentRepository, itemID uuid.UUID, transactionRef string, paidAt time.Time) (*domain.SplitPayment, *domain.SplitPaymentItem, error) {
	item, err := splits.GetItemByID(ctx, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapSplitPaymentNotFound(itemID.String())
	}
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	split, err := splits.GetByIDForUpdate(ctx, item.SplitPaymentID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	// Re-read under the parent lock: a concurrent settlement of the same
	// item may have committed while we waited, and the pre-lock snapshot
	// would still show it pending.
	item, err = splits.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	if item.Status != domain.SplitItemStatusPending {
		return nil, nil, customError.WrapPaymentNotPayable(itemID.String(), item.Status)
	}

	if err := splits.MarkItemPaid(ctx, item.ID, paidAt, transactionRef); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	item.Status = domain.SplitItemStatusPaid
	item.PaidDate = &paidAt
	item.TransactionRef = &transactionRef

	items, err := splits.GetItems(ctx, split.ID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	if next := domain.NextSplitStatus(split.Status, items); next != split.Status {
		if err := splits.UpdateStatus(ctx, split.ID, next); err != nil {
			return nil, nil, customError.WrapDatabaseError(err)
		}
		split.Status = next
	}

	return split, item, nil
}
