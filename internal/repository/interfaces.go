package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/rentora/billing-engine/internal/domain"
)

// ContractRepository defines the interface for contract data operations
type ContractRepository interface {
	// Create creates a new contract
	Create(ctx context.Context, contract *domain.Contract) error

	// GetByID retrieves a contract by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)

	// ListActive retrieves all active contracts
	ListActive(ctx context.Context) ([]*domain.Contract, error)

	// UpdateStatus updates the contract status
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// PaymentRepository defines the interface for rent payment ledger operations
type PaymentRepository interface {
	// WithTx returns a copy of the repository scoped to the transaction
	WithTx(tx *sqlx.Tx) PaymentRepository

	// Create inserts a new ledger row
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// GetByIDForUpdate retrieves a payment with a row lock
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// ListByContract retrieves all payments for a contract ordered by due date
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.Payment, error)

	// ExistsForDueDate reports whether a non-cancelled payment exists for the due date
	ExistsForDueDate(ctx context.Context, contractID uuid.UUID, dueDate time.Time) (bool, error)

	// ListDueOn retrieves payable payments due exactly on the given date
	ListDueOn(ctx context.Context, dueDate time.Time) ([]*domain.Payment, error)

	// ListUnpaidPastDue retrieves payable payments whose due date is before asOf
	ListUnpaidPastDue(ctx context.Context, asOf time.Time) ([]*domain.Payment, error)

	// MarkPaid transitions a payment to paid with its settlement details
	MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time, transactionRef string) error

	// MarkOverdue transitions a payment to overdue with the recomputed late fee
	MarkOverdue(ctx context.Context, id uuid.UUID, lateFee decimal.Decimal) error

	// SetReceipt attaches a receipt reference to a paid payment
	SetReceipt(ctx context.Context, id uuid.UUID, receiptURL string) error

	// UpdateStatus updates the payment status
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// SplitPaymentRepository defines the interface for split payment operations
type SplitPaymentRepository interface {
	// WithTx returns a copy of the repository scoped to the transaction
	WithTx(tx *sqlx.Tx) SplitPaymentRepository

	// Create inserts a split payment and its two items atomically
	Create(ctx context.Context, split *domain.SplitPayment, items []*domain.SplitPaymentItem) error

	// GetByID retrieves a split payment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SplitPayment, error)

	// GetByIDForUpdate retrieves a split payment with a row lock
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.SplitPayment, error)

	// GetActiveByContract retrieves the non-terminal split payment for a contract, if any
	GetActiveByContract(ctx context.Context, contractID uuid.UUID) (*domain.SplitPayment, error)

	// GetItems retrieves the items of a split payment
	GetItems(ctx context.Context, splitID uuid.UUID) ([]*domain.SplitPaymentItem, error)

	// GetItemByID retrieves a single item
	GetItemByID(ctx context.Context, itemID uuid.UUID) (*domain.SplitPaymentItem, error)

	// ListItemsDueOn retrieves pending items due exactly on the given date
	ListItemsDueOn(ctx context.Context, dueDate time.Time) ([]*domain.SplitPaymentItem, error)

	// MarkItemPaid transitions an item to paid with its settlement details
	MarkItemPaid(ctx context.Context, itemID uuid.UUID, paidDate time.Time, transactionRef string) error

	// SetItemReceipt attaches a receipt reference to an item
	SetItemReceipt(ctx context.Context, itemID uuid.UUID, receiptURL string) error

	// UpdateStatus updates the split payment aggregate status
	UpdateStatus(ctx context.Context, splitID uuid.UUID, status string) error

	// UpdateItemStatus updates a single item status
	UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status string) error
}

// TransactionRepository defines the interface for gateway transaction operations
type TransactionRepository interface {
	// WithTx returns a copy of the repository scoped to the transaction
	WithTx(tx *sqlx.Tx) TransactionRepository

	// Create inserts a new gateway transaction
	Create(ctx context.Context, txn *domain.GatewayTransaction) error

	// GetByExternalID retrieves a transaction by the gateway's intent ID
	GetByExternalID(ctx context.Context, externalID string) (*domain.GatewayTransaction, error)

	// GetByExternalIDForUpdate retrieves a transaction with a row lock
	GetByExternalIDForUpdate(ctx context.Context, externalID string) (*domain.GatewayTransaction, error)

	// UpdateStatus updates the transaction status
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
