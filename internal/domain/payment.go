package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

// Payment is one billing period's rent due for a contract. Rows are never
// deleted, only cancelled; at most one non-cancelled row exists per
// (contract, due date).
type Payment struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	ContractID     uuid.UUID           `json:"contract_id" db:"contract_id"`
	Amount         decimal.Decimal     `json:"amount" db:"amount"`
	DueDate        time.Time           `json:"due_date" db:"due_date"`
	PaidDate       *time.Time          `json:"paid_date,omitempty" db:"paid_date"`
	Status         string              `json:"status" db:"status"`
	LateFee        decimal.NullDecimal `json:"late_fee,omitempty" db:"late_fee"`
	TransactionRef *string             `json:"transaction_ref,omitempty" db:"transaction_ref"`
	ReceiptURL     *string             `json:"receipt_url,omitempty" db:"receipt_url"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`
}

// IsPayable reports whether the payment can still be collected. Overdue rent
// remains payable; late fees accrue but never block collection.
func (p *Payment) IsPayable() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusOverdue
}

type InitiatePaymentRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
}

type InitiatePaymentResponse struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	ExternalID    string          `json:"external_id"`
	ClientSecret  string          `json:"client_secret"`
	Amount        decimal.Decimal `json:"amount"`
	Fees          *FeeBreakdown   `json:"fees"`
}

type ContractPaymentsResponse struct {
	ContractID uuid.UUID  `json:"contract_id"`
	Payments   []*Payment `json:"payments"`
}
