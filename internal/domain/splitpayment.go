package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SplitStatusPending     = "pending"
	SplitStatusDepositPaid = "deposit_paid"
	SplitStatusCompleted   = "completed"
	SplitStatusCancelled   = "cancelled"
)

const (
	SplitItemTypeDeposit = "deposit"
	SplitItemTypeBalance = "balance"
)

const (
	SplitItemStatusPending   = "pending"
	SplitItemStatusPaid      = "paid"
	SplitItemStatusCancelled = "cancelled"
)

// SplitPayment divides one payable total into a deposit and a balance
// installment. The balance amount is stored at creation, never re-derived
// from the percentage, so deposit + balance always equals the total exactly.
type SplitPayment struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	ContractID        uuid.UUID       `json:"contract_id" db:"contract_id"`
	TotalAmount       decimal.Decimal `json:"total_amount" db:"total_amount"`
	DepositPercentage int             `json:"deposit_percentage" db:"deposit_percentage"`
	DepositAmount     decimal.Decimal `json:"deposit_amount" db:"deposit_amount"`
	BalanceAmount     decimal.Decimal `json:"balance_amount" db:"balance_amount"`
	Description       string          `json:"description" db:"description"`
	Status            string          `json:"status" db:"status"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the split payment can no longer change.
func (s *SplitPayment) IsTerminal() bool {
	return s.Status == SplitStatusCompleted || s.Status == SplitStatusCancelled
}

// SplitPaymentItem is one installment of a split payment. Exactly two exist
// per split payment (deposit, balance), created together at split creation.
type SplitPaymentItem struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	SplitPaymentID uuid.UUID       `json:"split_payment_id" db:"split_payment_id"`
	ItemType       string          `json:"item_type" db:"item_type"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	PaidDate       *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
	Status         string          `json:"status" db:"status"`
	TransactionRef *string         `json:"transaction_ref,omitempty" db:"transaction_ref"`
	ReceiptURL     *string         `json:"receipt_url,omitempty" db:"receipt_url"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// NextSplitStatus recomputes the aggregate status from the item states.
// Transitions are forward only: completed is reached exactly when the
// balance item is paid, even if the deposit event has not arrived yet,
// and a terminal status never changes.
func NextSplitStatus(current string, items []*SplitPaymentItem) string {
	if current == SplitStatusCompleted || current == SplitStatusCancelled {
		return current
	}

	var depositPaid, balancePaid bool
	for _, item := range items {
		if item.Status != SplitItemStatusPaid {
			continue
		}
		switch item.ItemType {
		case SplitItemTypeDeposit:
			depositPaid = true
		case SplitItemTypeBalance:
			balancePaid = true
		}
	}

	switch {
	case balancePaid:
		return SplitStatusCompleted
	case depositPaid:
		return SplitStatusDepositPaid
	default:
		return current
	}
}

type CreateSplitPaymentRequest struct {
	TotalAmount       decimal.Decimal `json:"total_amount" validate:"required"`
	DepositPercentage int             `json:"deposit_percentage" validate:"required,min=1,max=100"`
	Description       string          `json:"description"`
}

// ProcessSplitItemRequest settles an installment against an already-verified
// gateway reference, for support tooling and manual reconciliation.
type ProcessSplitItemRequest struct {
	TransactionRef string `json:"transaction_ref" validate:"required"`
}

type SplitPaymentResponse struct {
	SplitPayment *SplitPayment       `json:"split_payment"`
	Items        []*SplitPaymentItem `json:"items"`
}
