package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/rentora/billing-engine/internal/domain"
	"github.com/rentora/billing-engine/internal/repository"
)

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) ListActive(ctx context.Context) ([]*domain.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

// WithTx returns the mock itself so transactional units of work exercise
// the same expectations as direct calls.
func (m *MockPaymentRepository) WithTx(tx *sqlx.Tx) repository.PaymentRepository {
	return m
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ExistsForDueDate(ctx context.Context, contractID uuid.UUID, dueDate time.Time) (bool, error) {
	args := m.Called(ctx, contractID, dueDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) ListDueOn(ctx context.Context, dueDate time.Time) ([]*domain.Payment, error) {
	args := m.Called(ctx, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListUnpaidPastDue(ctx context.Context, asOf time.Time) ([]*domain.Payment, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time, transactionRef string) error {
	args := m.Called(ctx, id, paidDate, transactionRef)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkOverdue(ctx context.Context, id uuid.UUID, lateFee decimal.Decimal) error {
	args := m.Called(ctx, id, lateFee)
	return args.Error(0)
}

func (m *MockPaymentRepository) SetReceipt(ctx context.Context, id uuid.UUID, receiptURL string) error {
	args := m.Called(ctx, id, receiptURL)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockSplitPaymentRepository struct {
	mock.Mock
}

func (m *MockSplitPaymentRepository) WithTx(tx *sqlx.Tx) repository.SplitPaymentRepository {
	return m
}

func (m *MockSplitPaymentRepository) Create(ctx context.Context, split *domain.SplitPayment, items []*domain.SplitPaymentItem) error {
	args := m.Called(ctx, split, items)
	return args.Error(0)
}

func (m *MockSplitPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SplitPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SplitPayment), args.Error(1)
}

func (m *MockSplitPaymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.SplitPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SplitPayment), args.Error(1)
}

func (m *MockSplitPaymentRepository) GetActiveByContract(ctx context.Context, contractID uuid.UUID) (*domain.SplitPayment, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SplitPayment), args.Error(1)
}

func (m *MockSplitPaymentRepository) GetItems(ctx context.Context, splitID uuid.UUID) ([]*domain.SplitPaymentItem, error) {
	args := m.Called(ctx, splitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SplitPaymentItem), args.Error(1)
}

func (m *MockSplitPaymentRepository) GetItemByID(ctx context.Context, itemID uuid.UUID) (*domain.SplitPaymentItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SplitPaymentItem), args.Error(1)
}

func (m *MockSplitPaymentRepository) ListItemsDueOn(ctx context.Context, dueDate time.Time) ([]*domain.SplitPaymentItem, error) {
	args := m.Called(ctx, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SplitPaymentItem), args.Error(1)
}

func (m *MockSplitPaymentRepository) MarkItemPaid(ctx context.Context, itemID uuid.UUID, paidDate time.Time, transactionRef string) error {
	args := m.Called(ctx, itemID, paidDate, transactionRef)
	return args.Error(0)
}

func (m *MockSplitPaymentRepository) SetItemReceipt(ctx context.Context, itemID uuid.UUID, receiptURL string) error {
	args := m.Called(ctx, itemID, receiptURL)
	return args.Error(0)
}

func (m *MockSplitPaymentRepository) UpdateStatus(ctx context.Context, splitID uuid.UUID, status string) error {
	args := m.Called(ctx, splitID, status)
	return args.Error(0)
}

func (m *MockSplitPaymentRepository) UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status string) error {
	args := m.Called(ctx, itemID, status)
	return args.Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) WithTx(tx *sqlx.Tx) repository.TransactionRepository {
	return m
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.GatewayTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.GatewayTransaction, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayTransaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByExternalIDForUpdate(ctx context.Context, externalID string) (*domain.GatewayTransaction, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayTransaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockTxManager runs the unit of work inline with a nil transaction. The
// repository mocks ignore WithTx, so expectations behave identically inside
// and outside a transaction.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}
