package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rentora/billing-engine/internal/config"
	"github.com/rentora/billing-engine/internal/domain"
	"github.com/rentora/billing-engine/internal/gateway"
	"github.com/rentora/billing-engine/internal/notifier"
	"github.com/rentora/billing-engine/internal/receipt"
	"github.com/rentora/billing-engine/internal/repository"
	customError "github.com/rentora/billing-engine/pkg/errors"
	"github.com/rentora/billing-engine/pkg/utils"
)

// SplitPaymentService owns the deposit + balance installment workflow.
type SplitPaymentService struct {
	contractRepo repository.ContractRepository
	splitRepo    repository.SplitPaymentRepository
	txnRepo      repository.TransactionRepository
	txm          repository.TxManager
	gateway      gateway.Client
	fees         *FeeCalculator
	receipts     receipt.Generator
	notifier     notifier.Dispatcher
	config       *config.Config
	now          func() time.Time
}

func NewSplitPaymentService(
	contractRepo repository.ContractRepository,
	splitRepo repository.SplitPaymentRepository,
	txnRepo repository.TransactionRepository,
	txm repository.TxManager,
	gatewayClient gateway.Client,
	fees *FeeCalculator,
	receipts receipt.Generator,
	dispatcher notifier.Dispatcher,
	cfg *config.Config,
) *SplitPaymentService {
	return &SplitPaymentService{
		contractRepo: contractRepo,
		splitRepo:    splitRepo,
		txnRepo:      txnRepo,
		txm:          txm,
		gateway:      gatewayClient,
		fees:         fees,
		receipts:     receipts,
		notifier:     dispatcher,
		config:       cfg,
		now:          time.Now,
	}
}

// CreateSplitPayment divides totalAmount into a deposit installment due in 7
// days and a balance installment due in 30 days (both configurable). The
// deposit is derived from the percentage; the balance is the remainder, never
// re-derived, so the two always sum to the total exactly. At most one
// non-terminal split payment may exist per contract.
func (s *SplitPaymentService) CreateSplitPayment(ctx context.Context, contractID uuid.UUID, request *domain.CreateSplitPaymentRequest) (*domain.SplitPayment, []*domain.SplitPaymentItem, error) {
	if !request.TotalAmount.IsPositive() {
		return nil, nil, customError.WrapInvalidAmount(request.TotalAmount.String())
	}
	if request.DepositPercentage < 1 || request.DepositPercentage > 100 {
		return nil, nil, customError.WrapInvalidPercentage(request.DepositPercentage)
	}

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapContractNotFound(contractID.String())
	}
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}
	if !contract.IsActive() {
		return nil, nil, customError.NewBusinessError(
			customError.KindValidation,
			customError.ErrCodeContractNotFound,
			"contract is not active",
			nil,
		)
	}

	_, err = s.splitRepo.GetActiveByContract(ctx, contractID)
	if err == nil {
		return nil, nil, customError.WrapActiveSplitExists(contractID.String())
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	depositAmount := utils.PercentOf(request.TotalAmount, request.DepositPercentage)
	balanceAmount := request.TotalAmount.Sub(depositAmount)

	now := s.now()
	today := utils.DateOnly(now)

	split := &domain.SplitPayment{
		ID:                uuid.New(),
		ContractID:        contract.ID,
		TotalAmount:       request.TotalAmount,
		DepositPercentage: request.DepositPercentage,
		DepositAmount:     depositAmount,
		BalanceAmount:     balanceAmount,
		Description:       request.Description,
		Status:            domain.SplitStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	balanceItem := &domain.SplitPaymentItem{
		ID:             uuid.New(),
		SplitPaymentID: split.ID,
		ItemType:       domain.SplitItemTypeBalance,
		Amount:         balanceAmount,
		DueDate:        today.AddDate(0, 0, s.config.Business.BalanceDueDays),
		Status:         domain.SplitItemStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// A 100% deposit leaves nothing to collect on the balance; settle it
	// at creation so paying the deposit alone completes the split.
	if balanceAmount.IsZero() {
		paidAt := today
		balanceItem.Status = domain.SplitItemStatusPaid
		balanceItem.PaidDate = &paidAt
	}

	items := []*domain.SplitPaymentItem{
		{
			ID:             uuid.New(),
			SplitPaymentID: split.ID,
			ItemType:       domain.SplitItemTypeDeposit,
			Amount:         depositAmount,
			DueDate:        today.AddDate(0, 0, s.config.Business.DepositDueDays),
			Status:         domain.SplitItemStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		balanceItem,
	}

	if err := s.splitRepo.Create(ctx, split, items); err != nil {
		// The partial unique index closes the create/create race.
		if repository.IsUniqueViolation(err) {
			return nil, nil, customError.WrapActiveSplitExists(contractID.String())
		}
		return nil, nil, customError.WrapDatabaseError(err)
	}

	// Item reminders are picked up by the daily reminder job at the
	// configured lead time before each due date.
	payload := map[string]interface{}{
		"split_payment_id": split.ID.String(),
		"total_amount":     split.TotalAmount,
		"deposit_amount":   split.DepositAmount,
		"balance_amount":   split.BalanceAmount,
		"description":      split.Description,
	}
	s.notifier.Notify(ctx, contract.TenantID, domain.NotifySplitCreated, payload)
	s.notifier.Notify(ctx, contract.OwnerID, domain.NotifySplitCreated, payload)

	return split, items, nil
}

// ProcessPaymentItem marks one installment paid with today's date, attaches
// the gateway reference, and recomputes the parent aggregate status. Receipt
// generation and notifications run after the commit; their failures never
// undo the paid transition.
func (s *SplitPaymentService) ProcessPaymentItem(ctx context.Context, itemID uuid.UUID, gatewayTransactionRef string) (*domain.SplitPayment, *domain.SplitPaymentItem, error) {
	var (
		split *domain.SplitPayment
		item  *domain.SplitPaymentItem
	)

	err := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		split, item, err = applySplitItemPaid(ctx, s.splitRepo.WithTx(tx), itemID, gatewayTransactionRef, utils.DateOnly(s.now()))
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.finishItemPaid(ctx, split, item)

	return split, item, nil
}

// finishItemPaid runs the post-commit side effects of a paid installment.
func (s *SplitPaymentService) finishItemPaid(ctx context.Context, split *domain.SplitPayment, item *domain.SplitPaymentItem) {
	contract, err := s.contractRepo.GetByID(ctx, split.ContractID)
	if err != nil {
		log.Printf("split %s: cannot load contract for notifications: %v", split.ID, err)
		return
	}

	ref := ""
	if item.TransactionRef != nil {
		ref = *item.TransactionRef
	}
	url, err := s.receipts.GenerateReceipt(ctx, &receipt.Request{
		PayableID:      item.ID,
		PayableType:    domain.PayableTypeSplitItem,
		Amount:         item.Amount,
		Currency:       s.config.Business.Currency,
		TransactionRef: ref,
		PaidDate:       *item.PaidDate,
	})
	if err != nil {
		log.Printf("split item %s: receipt generation failed, retried out of band: %v", item.ID, err)
	} else if err := s.splitRepo.SetItemReceipt(ctx, item.ID, url); err != nil {
		log.Printf("split item %s: storing receipt url failed: %v", item.ID, err)
	}

	eventType := domain.NotifySplitDepositPaid
	if item.ItemType == domain.SplitItemTypeBalance {
		eventType = domain.NotifySplitBalancePaid
	}

	payload := map[string]interface{}{
		"split_payment_id": split.ID.String(),
		"item_id":          item.ID.String(),
		"item_type":        item.ItemType,
		"amount":           item.Amount,
		"split_status":     split.Status,
	}
	s.notifier.Notify(ctx, contract.TenantID, eventType, payload)
	s.notifier.Notify(ctx, contract.OwnerID, domain.NotifyPaymentReceived, payload)
}

// InitiateItemPayment creates a gateway intent for one installment. Both
// items are independently payable in any order; due dates, not gating,
// express the deposit-first recommendation.
func (s *SplitPaymentService) InitiateItemPayment(ctx context.Context, itemID, tenantID uuid.UUID) (*domain.InitiatePaymentResponse, error) {
	item, err := s.splitRepo.GetItemByID(ctx, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapSplitPaymentNotFound(itemID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	split, err := s.splitRepo.GetByID(ctx, item.SplitPaymentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	contract, err := s.contractRepo.GetByID(ctx, split.ContractID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if contract.TenantID != tenantID {
		return nil, customError.WrapNotOwner(itemID.String())
	}

	if item.Status != domain.SplitItemStatusPending {
		return nil, customError.WrapPaymentNotPayable(itemID.String(), item.Status)
	}

	feeType := domain.PaymentTypeRent
	if item.ItemType == domain.SplitItemTypeDeposit {
		feeType = domain.PaymentTypeDeposit
	}

	fees, err := s.fees.Calculate(item.Amount, feeType)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, fees.Total, s.config.Business.Currency, map[string]string{
		"payable_type":     domain.PayableTypeSplitItem,
		"payable_id":       item.ID.String(),
		"split_payment_id": split.ID.String(),
	})
	if err != nil {
		return nil, customError.WrapGatewayError(err)
	}

	now := s.now()
	txn := &domain.GatewayTransaction{
		ID:          uuid.New(),
		ExternalID:  intent.ID,
		PayableType: domain.PayableTypeSplitItem,
		PayableID:   item.ID,
		Amount:      fees.Total,
		Currency:    s.config.Business.Currency,
		Status:      domain.TransactionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.InitiatePaymentResponse{
		TransactionID: txn.ID,
		ExternalID:    intent.ID,
		ClientSecret:  intent.ClientSecret,
		Amount:        item.Amount,
		Fees:          fees,
	}, nil
}

// CancelSplitPayment cancels every still-pending installment and the parent.
// Paid installments are left untouched; cancellation never reverses money
// already received.
func (s *SplitPaymentService) CancelSplitPayment(ctx context.Context, splitID uuid.UUID) (*domain.SplitPayment, error) {
	var split *domain.SplitPayment

	err := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		splits := s.splitRepo.WithTx(tx)

		var err error
		split, err = splits.GetByIDForUpdate(ctx, splitID)
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapSplitPaymentNotFound(splitID.String())
		}
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if split.IsTerminal() {
			return customError.WrapSplitAlreadyTerminal(splitID.String())
		}

		items, err := splits.GetItems(ctx, split.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		for _, item := range items {
			if item.Status != domain.SplitItemStatusPending {
				continue
			}
			if err := splits.UpdateItemStatus(ctx, item.ID, domain.SplitItemStatusCancelled); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		if err := splits.UpdateStatus(ctx, split.ID, domain.SplitStatusCancelled); err != nil {
			return customError.WrapDatabaseError(err)
		}
		split.Status = domain.SplitStatusCancelled

		return nil
	})
	if err != nil {
		return nil, err
	}

	if contract, err := s.contractRepo.GetByID(ctx, split.ContractID); err == nil {
		s.notifier.Notify(ctx, contract.TenantID, domain.NotifySplitCancelled, map[string]interface{}{
			"split_payment_id": split.ID.String(),
		})
	}

	return split, nil
}

// GetSplitPayment returns one split payment with its items.
func (s *SplitPaymentService) GetSplitPayment(ctx context.Context, splitID uuid.UUID) (*domain.SplitPayment, []*domain.SplitPaymentItem, error) {
	split, err := s.splitRepo.GetByID(ctx, splitID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapSplitPaymentNotFound(splitID.String())
	}
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	items, err := s.splitRepo.GetItems(ctx, splitID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	return split, items, nil
}
