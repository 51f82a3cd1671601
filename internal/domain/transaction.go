package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusSucceeded = "succeeded"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

const (
	PayableTypePayment   = "payment"
	PayableTypeSplitItem = "split_item"
)

// GatewayTransaction links one external payment intent to exactly one
// internal payable. Its status transitions pending -> succeeded/failed/
// cancelled once and is the idempotency anchor for webhook reconciliation:
// a terminal transaction absorbs redelivered events without re-applying
// their effects.
type GatewayTransaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ExternalID  string          `json:"external_id" db:"external_id"`
	PayableType string          `json:"payable_type" db:"payable_type"`
	PayableID   uuid.UUID       `json:"payable_id" db:"payable_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Currency    string          `json:"currency" db:"currency"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the transaction has reached a final status.
func (t *GatewayTransaction) IsTerminal() bool {
	return t.Status != TransactionStatusPending
}
