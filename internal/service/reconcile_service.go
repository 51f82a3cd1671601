package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

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

// ReconcileService applies authenticated gateway webhook events to internal
// state exactly once. The gateway delivers at least once and in no particular
// order; the GatewayTransaction row is the idempotency anchor.
type ReconcileService struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
	splitRepo    repository.SplitPaymentRepository
	txnRepo      repository.TransactionRepository
	txm          repository.TxManager
	gateway      gateway.Client
	receipts     receipt.Generator
	notifier     notifier.Dispatcher
	config       *config.Config
	now          func() time.Time
}

func NewReconcileService(
	contractRepo repository.ContractRepository,
	paymentRepo repository.PaymentRepository,
	splitRepo repository.SplitPaymentRepository,
	txnRepo repository.TransactionRepository,
	txm repository.TxManager,
	gatewayClient gateway.Client,
	receipts receipt.Generator,
	dispatcher notifier.Dispatcher,
	cfg *config.Config,
) *ReconcileService {
	return &ReconcileService{
		contractRepo: contractRepo,
		paymentRepo:  paymentRepo,
		splitRepo:    splitRepo,
		txnRepo:      txnRepo,
		txm:          txm,
		gateway:      gatewayClient,
		receipts:     receipts,
		notifier:     dispatcher,
		config:       cfg,
		now:          time.Now,
	}
}

// paidEffect captures everything the post-commit side effects need about a
// first-time successful settlement.
type paidEffect struct {
	payableType string
	payment     *domain.Payment
	split       *domain.SplitPayment
	item        *domain.SplitPaymentItem
	contractID  string
}

// HandleWebhook verifies the event signature before touching any state, then
// reconciles the event. Signature failures reject outright with no state
// change.
func (s *ReconcileService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return customError.WrapInvalidSignature()
	}

	return s.Reconcile(ctx, event)
}

// Reconcile applies one verified event. The lookup, terminal check, status
// transition and payable update run as a single transaction keyed on the
// external id's row lock, so a retried delivery racing a concurrent retry
// serializes rather than double-applying. Redelivery of a terminal event is
// a no-op success; the paid side effects fire exactly once, after commit.
func (s *ReconcileService) Reconcile(ctx context.Context, event *gateway.Event) error {
	var effect *paidEffect

	err := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		txns := s.txnRepo.WithTx(tx)

		txn, err := txns.GetByExternalIDForUpdate(ctx, event.IntentID)
		if errors.Is(err, sql.ErrNoRows) {
			// Never fabricate state for intents this system did not create.
			return customError.WrapTransactionNotFound(event.IntentID)
		}
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if txn.IsTerminal() {
			return nil
		}

		switch event.Type {
		case gateway.EventPaymentSucceeded:
			effect, err = s.applySucceeded(ctx, tx, txn)
			if err != nil {
				return err
			}
			return s.updateTxn(ctx, txns, txn, domain.TransactionStatusSucceeded)

		case gateway.EventPaymentFailed:
			// The payable stays collectable; the tenant retries with a
			// fresh transaction.
			return s.updateTxn(ctx, txns, txn, domain.TransactionStatusFailed)

		case gateway.EventPaymentCanceled:
			return s.updateTxn(ctx, txns, txn, domain.TransactionStatusCancelled)

		default:
			log.Printf("reconcile: ignoring event type %s for intent %s", event.Type, event.IntentID)
			return nil
		}
	})
	if err != nil {
		return err
	}

	if effect != nil {
		s.fireSideEffects(ctx, effect)
	}

	return nil
}

func (s *ReconcileService) applySucceeded(ctx context.Context, tx *sqlx.Tx, txn *domain.GatewayTransaction) (*paidEffect, error) {
	paidAt := utils.DateOnly(s.now())

	switch txn.PayableType {
	case domain.PayableTypePayment:
		payment, err := applyPaymentPaid(ctx, s.paymentRepo.WithTx(tx), txn.PayableID, txn.ExternalID, paidAt)
		if err != nil {
			return nil, err
		}
		return &paidEffect{
			payableType: domain.PayableTypePayment,
			payment:     payment,
			contractID:  payment.ContractID.String(),
		}, nil

	case domain.PayableTypeSplitItem:
		split, item, err := applySplitItemPaid(ctx, s.splitRepo.WithTx(tx), txn.PayableID, txn.ExternalID, paidAt)
		if err != nil {
			return nil, err
		}
		return &paidEffect{
			payableType: domain.PayableTypeSplitItem,
			split:       split,
			item:        item,
			contractID:  split.ContractID.String(),
		}, nil

	default:
		return nil, customError.WrapDatabaseError(errors.New("unknown payable type " + txn.PayableType))
	}
}

func (s *ReconcileService) updateTxn(ctx context.Context, txns repository.TransactionRepository, txn *domain.GatewayTransaction, status string) error {
	if err := txns.UpdateStatus(ctx, txn.ID, status); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// fireSideEffects generates the receipt and fires the paid notifications
// after the transaction commits. Failures here are logged and retried out of
// band; they never affect the committed state.
func (s *ReconcileService) fireSideEffects(ctx context.Context, effect *paidEffect) {
	switch effect.payableType {
	case domain.PayableTypePayment:
		s.finishPaymentPaid(ctx, effect.payment)
	case domain.PayableTypeSplitItem:
		s.finishSplitItemPaid(ctx, effect.split, effect.item)
	}
}

func (s *ReconcileService) finishPaymentPaid(ctx context.Context, payment *domain.Payment) {
	contract, err := s.contractRepo.GetByID(ctx, payment.ContractID)
	if err != nil {
		log.Printf("reconcile: cannot load contract %s for notifications: %v", payment.ContractID, err)
		return
	}

	ref := ""
	if payment.TransactionRef != nil {
		ref = *payment.TransactionRef
	}
	url, err := s.receipts.GenerateReceipt(ctx, &receipt.Request{
		PayableID:      payment.ID,
		PayableType:    domain.PayableTypePayment,
		Amount:         payment.Amount,
		Currency:       s.config.Business.Currency,
		TransactionRef: ref,
		PaidDate:       *payment.PaidDate,
	})
	if err != nil {
		log.Printf("reconcile: payment %s receipt generation failed, retried out of band: %v", payment.ID, err)
	} else if err := s.paymentRepo.SetReceipt(ctx, payment.ID, url); err != nil {
		log.Printf("reconcile: payment %s storing receipt url failed: %v", payment.ID, err)
	}

	payload := map[string]interface{}{
		"payment_id":  payment.ID.String(),
		"contract_id": contract.ID.String(),
		"amount":      payment.Amount,
		"due_date":    payment.DueDate,
	}
	s.notifier.Notify(ctx, contract.TenantID, domain.NotifyPaymentConfirmed, payload)
	s.notifier.Notify(ctx, contract.OwnerID, domain.NotifyPaymentReceived, payload)
}

func (s *ReconcileService) finishSplitItemPaid(ctx context.Context, split *domain.SplitPayment, item *domain.SplitPaymentItem) {
	contract, err := s.contractRepo.GetByID(ctx, split.ContractID)
	if err != nil {
		log.Printf("reconcile: cannot load contract %s for notifications: %v", split.ContractID, err)
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
		log.Printf("reconcile: split item %s receipt generation failed, retried out of band: %v", item.ID, err)
	} else if err := s.splitRepo.SetItemReceipt(ctx, item.ID, url); err != nil {
		log.Printf("reconcile: split item %s storing receipt url failed: %v", item.ID, err)
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
