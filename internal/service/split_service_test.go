package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rentora/billing-engine/internal/config"
	"github.com/rentora/billing-engine/internal/domain"
	"github.com/rentora/billing-engine/internal/gateway"
	customError "github.com/rentora/billing-engine/pkg/errors"
	"github.com/rentora/billing-engine/tests/mocks"
)

type splitServiceMocks struct {
	contractRepo *mocks.MockContractRepository
	splitRepo    *mocks.MockSplitPaymentRepository
	txnRepo      *mocks.MockTransactionRepository
	txm          *mocks.MockTxManager
	gw           *mocks.MockGatewayClient
	receipts     *mocks.MockReceiptGenerator
	dispatcher   *mocks.MockDispatcher
}

func newTestSplitService(cfg *config.Config, now time.Time) (*SplitPaymentService, *splitServiceMocks) {
	m := &splitServiceMocks{
		contractRepo: &mocks.MockContractRepository{},
		splitRepo:    &mocks.MockSplitPaymentRepository{},
		txnRepo:      &mocks.MockTransactionRepository{},
		txm:          &mocks.MockTxManager{},
		gw:           &mocks.MockGatewayClient{},
		receipts:     &mocks.MockReceiptGenerator{},
		dispatcher:   &mocks.MockDispatcher{},
	}

	service := &SplitPaymentService{
		contractRepo: m.contractRepo,
		splitRepo:    m.splitRepo,
		txnRepo:      m.txnRepo,
		txm:          m.txm,
		gateway:      m.gw,
		fees:         NewFeeCalculator(cfg.FeeSchedules()),
		receipts:     m.receipts,
		notifier:     m.dispatcher,
		config:       cfg,
		now:          fixedClock(now),
	}
	return service, m
}

func TestCreateSplitPayment_Success(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 10))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)

	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.splitRepo.On("GetActiveByContract", mock.Anything, contract.ID).Return(nil, sql.ErrNoRows)
	m.splitRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.dispatcher.On("Notify", mock.Anything, contract.TenantID, domain.NotifySplitCreated, mock.Anything).Return()
	m.dispatcher.On("Notify", mock.Anything, contract.OwnerID, domain.NotifySplitCreated, mock.Anything).Return()

	split, items, err := service.CreateSplitPayment(context.Background(), contract.ID, &domain.CreateSplitPaymentRequest{
		TotalAmount:       decimal.NewFromInt(1000),
		DepositPercentage: 30,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.SplitStatusPending, split.Status)
	assert.True(t, split.DepositAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, split.BalanceAmount.Equal(decimal.NewFromInt(700)))

	assert.Len(t, items, 2)
	assert.Equal(t, domain.SplitItemTypeDeposit, items[0].ItemType)
	assert.Equal(t, date(2024, time.January, 17), items[0].DueDate)
	assert.Equal(t, domain.SplitItemTypeBalance, items[1].ItemType)
	assert.Equal(t, date(2024, time.February, 9), items[1].DueDate)
	for _, item := range items {
		assert.Equal(t, domain.SplitItemStatusPending, item.Status)
	}
	m.dispatcher.AssertExpectations(t)
}

func TestCreateSplitPayment_ItemsAlwaysSumToTotal(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 10))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.splitRepo.On("GetActiveByContract", mock.Anything, contract.ID).Return(nil, sql.ErrNoRows)
	m.splitRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.dispatcher.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	// 33% of 1000.01 rounds; the balance must absorb the remainder exactly.
	total := decimal.RequireFromString("1000.01")
	split, items, err := service.CreateSplitPayment(context.Background(), contract.ID, &domain.CreateSplitPaymentRequest{
		TotalAmount:       total,
		DepositPercentage: 33,
	})

	assert.NoError(t, err)
	assert.True(t, split.DepositAmount.Add(split.BalanceAmount).Equal(total))
	assert.True(t, items[0].Amount.Add(items[1].Amount).Equal(total))
}

func TestCreateSplitPayment_FullDepositLeavesZeroBalance(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 10))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.splitRepo.On("GetActiveByContract", mock.Anything, contract.ID).Return(nil, sql.ErrNoRows)
	m.splitRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.dispatcher.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	split, items, err := service.CreateSplitPayment(context.Background(), contract.ID, &domain.CreateSplitPaymentRequest{
		TotalAmount:       decimal.NewFromInt(500),
		DepositPercentage: 100,
	})

	assert.NoError(t, err)
	assert.True(t, split.DepositAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, split.BalanceAmount.IsZero())

	// With nothing left to collect, the balance installment is settled at
	// creation; paying the deposit alone completes the split.
	assert.Equal(t, domain.SplitItemStatusPending, items[0].Status)
	assert.Equal(t, domain.SplitItemStatusPaid, items[1].Status)
	assert.NotNil(t, items[1].PaidDate)
	assert.Equal(t, domain.SplitStatusCompleted, domain.NextSplitStatus(split.Status, []*domain.SplitPaymentItem{
		{ItemType: domain.SplitItemTypeDeposit, Status: domain.SplitItemStatusPaid},
		items[1],
	}))
}

func TestCreateSplitPayment_RejectsInvalidPercentage(t *testing.T) {
	service, _ := newTestSplitService(testConfig(), date(2024, time.January, 10))

	for _, pct := range []int{0, -5, 101} {
		_, _, err := service.CreateSplitPayment(context.Background(), uuid.New(), &domain.CreateSplitPaymentRequest{
			TotalAmount:       decimal.NewFromInt(1000),
			DepositPercentage: pct,
		})
		assert.ErrorIs(t, err, customError.ErrInvalidPercentage)
	}
}

func TestCreateSplitPayment_RejectsSecondActiveSplit(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 10))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	existing := &domain.SplitPayment{ID: uuid.New(), ContractID: contract.ID, Status: domain.SplitStatusDepositPaid}

	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.splitRepo.On("GetActiveByContract", mock.Anything, contract.ID).Return(existing, nil)

	_, _, err := service.CreateSplitPayment(context.Background(), contract.ID, &domain.CreateSplitPaymentRequest{
		TotalAmount:       decimal.NewFromInt(1000),
		DepositPercentage: 30,
	})

	assert.ErrorIs(t, err, customError.ErrActiveSplitExists)
	m.splitRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSplitPayment_CreateRaceMapsToConflict(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 10))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.splitRepo.On("GetActiveByContract", mock.Anything, contract.ID).Return(nil, sql.ErrNoRows)
	m.splitRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(&pq.Error{Code: "23505"})

	_, _, err := service.CreateSplitPayment(context.Background(), contract.ID, &domain.CreateSplitPaymentRequest{
		TotalAmount:       decimal.NewFromInt(1000),
		DepositPercentage: 30,
	})

	assert.ErrorIs(t, err, customError.ErrActiveSplitExists)
}

func pendingSplitFixture(contractID uuid.UUID) (*domain.SplitPayment, *domain.SplitPaymentItem, *domain.SplitPaymentItem) {
	split := &domain.SplitPayment{
		ID:            uuid.New(),
		ContractID:    contractID,
		TotalAmount:   decimal.NewFromInt(1000),
		DepositAmount: decimal.NewFromInt(300),
		BalanceAmount: decimal.NewFromInt(700),
		Status:        domain.SplitStatusPending,
	}
	deposit := &domain.SplitPaymentItem{
		ID:             uuid.New(),
		SplitPaymentID: split.ID,
		ItemType:       domain.SplitItemTypeDeposit,
		Amount:         decimal.NewFromInt(300),
		DueDate:        date(2024, time.January, 17),
		Status:         domain.SplitItemStatusPending,
	}
	balance := &domain.SplitPaymentItem{
		ID:             uuid.New(),
		SplitPaymentID: split.ID,
		ItemType:       domain.SplitItemTypeBalance,
		Amount:         decimal.NewFromInt(700),
		DueDate:        date(2024, time.February, 9),
		Status:         domain.SplitItemStatusPending,
	}
	return split, deposit, balance
}

func TestProcessPaymentItem_DepositAdvancesAggregate(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 15))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	split, deposit, balance := pendingSplitFixture(contract.ID)

	m.txm.On("WithinTx", mock.Anything).Return(nil)
	m.splitRepo.On("GetItemByID", mock.Anything, deposit.ID).Return(deposit, nil)
	m.splitRepo.On("GetByIDForUpdate", mock.Anything, split.ID).Return(split, nil)
	m.splitRepo.On("MarkItemPaid", mock.Anything, deposit.ID, date(2024, time.January, 15), "pi_dep").Return(nil)
	m.splitRepo.On("GetItems", mock.Anything, split.ID).Return([]*domain.SplitPaymentItem{deposit, balance}, nil)
	m.splitRepo.On("UpdateStatus", mock.Anything, split.ID, domain.SplitStatusDepositPaid).Return(nil)

	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.receipts.On("GenerateReceipt", mock.Anything, mock.Anything).Return("https://receipts/r1.pdf", nil)
	m.splitRepo.On("SetItemReceipt", mock.Anything, deposit.ID, "https://receipts/r1.pdf").Return(nil)
	m.dispatcher.On("Notify", mock.Anything, contract.TenantID, domain.NotifySplitDepositPaid, mock.Anything).Return()
	m.dispatcher.On("Notify", mock.Anything, contract.OwnerID, domain.NotifyPaymentReceived, mock.Anything).Return()

	gotSplit, gotItem, err := service.ProcessPaymentItem(context.Background(), deposit.ID, "pi_dep")

	assert.NoError(t, err)
	assert.Equal(t, domain.SplitStatusDepositPaid, gotSplit.Status)
	assert.Equal(t, domain.SplitItemStatusPaid, gotItem.Status)
	assert.Equal(t, "pi_dep", *gotItem.TransactionRef)
	m.splitRepo.AssertExpectations(t)
	m.dispatcher.AssertExpectations(t)
}

func TestProcessPaymentItem_BalanceFirstCompletesSplit(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 20))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	split, deposit, balance := pendingSplitFixture(contract.ID)

	m.txm.On("WithinTx", mock.Anything).Return(nil)
	m.splitRepo.On("GetItemByID", mock.Anything, balance.ID).Return(balance, nil)
	m.splitRepo.On("GetByIDForUpdate", mock.Anything, split.ID).Return(split, nil)
	m.splitRepo.On("MarkItemPaid", mock.Anything, balance.ID, mock.Anything, "pi_bal").Return(nil)
	m.splitRepo.On("GetItems", mock.Anything, split.ID).Return([]*domain.SplitPaymentItem{deposit, balance}, nil)
	// The balance settling completes the split even with the deposit unpaid.
	m.splitRepo.On("UpdateStatus", mock.Anything, split.ID, domain.SplitStatusCompleted).Return(nil)

	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.receipts.On("GenerateReceipt", mock.Anything, mock.Anything).Return("https://receipts/r2.pdf", nil)
	m.splitRepo.On("SetItemReceipt", mock.Anything, balance.ID, "https://receipts/r2.pdf").Return(nil)
	m.dispatcher.On("Notify", mock.Anything, contract.TenantID, domain.NotifySplitBalancePaid, mock.Anything).Return()
	m.dispatcher.On("Notify", mock.Anything, contract.OwnerID, domain.NotifyPaymentReceived, mock.Anything).Return()

	gotSplit, _, err := service.ProcessPaymentItem(context.Background(), balance.ID, "pi_bal")

	assert.NoError(t, err)
	assert.Equal(t, domain.SplitStatusCompleted, gotSplit.Status)
	m.splitRepo.AssertExpectations(t)
}

func TestProcessPaymentItem_PaidItemRejectsReplay(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 20))

	split, deposit, _ := pendingSplitFixture(uuid.New())
	deposit.Status = domain.SplitItemStatusPaid

	m.txm.On("WithinTx", mock.Anything).Return(nil)
	m.splitRepo.On("GetItemByID", mock.Anything, deposit.ID).Return(deposit, nil)
	m.splitRepo.On("GetByIDForUpdate", mock.Anything, split.ID).Return(split, nil)

	_, _, err := service.ProcessPaymentItem(context.Background(), deposit.ID, "pi_dup")

	assert.ErrorIs(t, err, customError.ErrPaymentNotPayable)
	m.splitRepo.AssertNotCalled(t, "MarkItemPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPaymentItem_ConcurrentSettlementLosesUnderLock(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 20))

	split, deposit, _ := pendingSplitFixture(uuid.New())
	settled := *deposit
	settled.Status = domain.SplitItemStatusPaid

	m.txm.On("WithinTx", mock.Anything).Return(nil)
	// The pre-lock read still sees the item pending; by the time the
	// parent lock is acquired a concurrent settlement has committed.
	m.splitRepo.On("GetItemByID", mock.Anything, deposit.ID).Return(deposit, nil).Once()
	m.splitRepo.On("GetByIDForUpdate", mock.Anything, split.ID).Return(split, nil)
	m.splitRepo.On("GetItemByID", mock.Anything, deposit.ID).Return(&settled, nil).Once()

	_, _, err := service.ProcessPaymentItem(context.Background(), deposit.ID, "pi_retry")

	assert.ErrorIs(t, err, customError.ErrPaymentNotPayable)
	m.splitRepo.AssertNotCalled(t, "MarkItemPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.receipts.AssertNotCalled(t, "GenerateReceipt", mock.Anything, mock.Anything)
	m.dispatcher.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPaymentItem_ReceiptFailureKeepsPaidState(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 15))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	split, deposit, balance := pendingSplitFixture(contract.ID)

	m.txm.On("WithinTx", mock.Anything).Return(nil)
	m.splitRepo.On("GetItemByID", mock.Anything, deposit.ID).Return(deposit, nil)
	m.splitRepo.On("GetByIDForUpdate", mock.Anything, split.ID).Return(split, nil)
	m.splitRepo.On("MarkItemPaid", mock.Anything, deposit.ID, mock.Anything, "pi_dep").Return(nil)
	m.splitRepo.On("GetItems", mock.Anything, split.ID).Return([]*domain.SplitPaymentItem{deposit, balance}, nil)
	m.splitRepo.On("UpdateStatus", mock.Anything, split.ID, domain.SplitStatusDepositPaid).Return(nil)

	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.receipts.On("GenerateReceipt", mock.Anything, mock.Anything).Return("", assert.AnError)
	m.dispatcher.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	gotSplit, gotItem, err := service.ProcessPaymentItem(context.Background(), deposit.ID, "pi_dep")

	assert.NoError(t, err)
	assert.Equal(t, domain.SplitItemStatusPaid, gotItem.Status)
	assert.Equal(t, domain.SplitStatusDepositPaid, gotSplit.Status)
	m.splitRepo.AssertNotCalled(t, "SetItemReceipt", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiateItemPayment_UsesDepositFeeSchedule(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 12))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	split, deposit, _ := pendingSplitFixture(contract.ID)

	m.splitRepo.On("GetItemByID", mock.Anything, deposit.ID).Return(deposit, nil)
	m.splitRepo.On("GetByID", mock.Anything, split.ID).Return(split, nil)
	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)

	// 300 + 3% platform + 2.50 processing + 0% insurance = 311.50
	total := decimal.RequireFromString("311.50")
	m.gw.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(amount decimal.Decimal) bool {
		return amount.Equal(total)
	}), "USD", mock.Anything).Return(&gateway.Intent{ID: "pi_dep", ClientSecret: "cs_dep"}, nil)
	m.txnRepo.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.GatewayTransaction) bool {
		return txn.PayableType == domain.PayableTypeSplitItem && txn.PayableID == deposit.ID
	})).Return(nil)

	resp, err := service.InitiateItemPayment(context.Background(), deposit.ID, contract.TenantID)

	assert.NoError(t, err)
	assert.True(t, resp.Fees.Total.Equal(total))
	m.txnRepo.AssertExpectations(t)
}

func TestInitiateItemPayment_BalancePayableBeforeDeposit(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 12))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	split, _, balance := pendingSplitFixture(contract.ID)

	m.splitRepo.On("GetItemByID", mock.Anything, balance.ID).Return(balance, nil)
	m.splitRepo.On("GetByID", mock.Anything, split.ID).Return(split, nil)
	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.gw.On("CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&gateway.Intent{ID: "pi_bal", ClientSecret: "cs_bal"}, nil)
	m.txnRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.InitiateItemPayment(context.Background(), balance.ID, contract.TenantID)

	assert.NoError(t, err)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(700)))
}

func TestCancelSplitPayment_PaidItemsUntouched(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 20))

	contract := activeContract(1000, date(2024, time.January, 1), date(2025, time.January, 1), 5)
	split, deposit, balance := pendingSplitFixture(contract.ID)
	split.Status = domain.SplitStatusDepositPaid
	deposit.Status = domain.SplitItemStatusPaid

	m.txm.On("WithinTx", mock.Anything).Return(nil)
	m.splitRepo.On("GetByIDForUpdate", mock.Anything, split.ID).Return(split, nil)
	m.splitRepo.On("GetItems", mock.Anything, split.ID).Return([]*domain.SplitPaymentItem{deposit, balance}, nil)
	m.splitRepo.On("UpdateItemStatus", mock.Anything, balance.ID, domain.SplitItemStatusCancelled).Return(nil)
	m.splitRepo.On("UpdateStatus", mock.Anything, split.ID, domain.SplitStatusCancelled).Return(nil)
	m.contractRepo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)
	m.dispatcher.On("Notify", mock.Anything, contract.TenantID, domain.NotifySplitCancelled, mock.Anything).Return()

	got, err := service.CancelSplitPayment(context.Background(), split.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.SplitStatusCancelled, got.Status)
	// The paid deposit is never transitioned.
	m.splitRepo.AssertNotCalled(t, "UpdateItemStatus", mock.Anything, deposit.ID, mock.Anything)
	m.splitRepo.AssertExpectations(t)
}

func TestCancelSplitPayment_TerminalRejected(t *testing.T) {
	service, m := newTestSplitService(testConfig(), date(2024, time.January, 20))

	split, _, _ := pendingSplitFixture(uuid.New())
	split.Status = domain.SplitStatusCompleted

	m.txm.On("WithinTx", mock.Anything).Return(nil)
	m.splitRepo.On("GetByIDForUpdate", mock.Anything, split.ID).Return(split, nil)

	_, err := service.CancelSplitPayment(context.Background(), split.ID)

	assert.ErrorIs(t, err, customError.ErrSplitAlreadyTerminal)
}

func TestNextSplitStatus_Transitions(t *testing.T) {
	paid := func(itemType string) *domain.SplitPaymentItem {
		return &domain.SplitPaymentItem{ItemType: itemType, Status: domain.SplitItemStatusPaid}
	}
	pending := func(itemType string) *domain.SplitPaymentItem {
		return &domain.SplitPaymentItem{ItemType: itemType, Status: domain.SplitItemStatusPending}
	}

	tests := []struct {
		name    string
		current string
		items   []*domain.SplitPaymentItem
		want    string
	}{
		{
			name:    "no items paid stays pending",
			current: domain.SplitStatusPending,
			items:   []*domain.SplitPaymentItem{pending(domain.SplitItemTypeDeposit), pending(domain.SplitItemTypeBalance)},
			want:    domain.SplitStatusPending,
		},
		{
			name:    "deposit paid advances",
			current: domain.SplitStatusPending,
			items:   []*domain.SplitPaymentItem{paid(domain.SplitItemTypeDeposit), pending(domain.SplitItemTypeBalance)},
			want:    domain.SplitStatusDepositPaid,
		},
		{
			name:    "balance paid alone completes",
			current: domain.SplitStatusPending,
			items:   []*domain.SplitPaymentItem{pending(domain.SplitItemTypeDeposit), paid(domain.SplitItemTypeBalance)},
			want:    domain.SplitStatusCompleted,
		},
		{
			name:    "both paid completes",
			current: domain.SplitStatusDepositPaid,
			items:   []*domain.SplitPaymentItem{paid(domain.SplitItemTypeDeposit), paid(domain.SplitItemTypeBalance)},
			want:    domain.SplitStatusCompleted,
		},
		{
			name:    "cancelled never advances",
			current: domain.SplitStatusCancelled,
			items:   []*domain.SplitPaymentItem{paid(domain.SplitItemTypeDeposit), paid(domain.SplitItemTypeBalance)},
			want:    domain.SplitStatusCancelled,
		},
		{
			name:    "completed never regresses",
			current: domain.SplitStatusCompleted,
			items:   []*domain.SplitPaymentItem{pending(domain.SplitItemTypeDeposit), pending(domain.SplitItemTypeBalance)},
			want:    domain.SplitStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NextSplitStatus(tt.current, tt.items))
		})
	}
}
