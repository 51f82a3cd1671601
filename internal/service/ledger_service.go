package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentora/billing-engine/internal/config"
	"github.com/rentora/billing-engine/internal/domain"
	"github.com/rentora/billing-engine/internal/gateway"
	"github.com/rentora/billing-engine/internal/repository"
	customError "github.com/rentora/billing-engine/pkg/errors"
	"github.com/rentora/billing-engine/pkg/utils"
)

// LedgerService owns the rent payment ledger: materializing due rows from
// contracts, the overdue sweep, and tenant-facing payment initiation.
type LedgerService struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
	txnRepo      repository.TransactionRepository
	gateway      gateway.Client
	fees         *FeeCalculator
	config       *config.Config
	now          func() time.Time
}

func NewLedgerService(
	contractRepo repository.ContractRepository,
	paymentRepo repository.PaymentRepository,
	txnRepo repository.TransactionRepository,
	gatewayClient gateway.Client,
	fees *FeeCalculator,
	cfg *config.Config,
) *LedgerService {
	return &LedgerService{
		contractRepo: contractRepo,
		paymentRepo:  paymentRepo,
		txnRepo:      txnRepo,
		gateway:      gatewayClient,
		fees:         fees,
		config:       cfg,
		now:          time.Now,
	}
}

// CreateContract persists a new contract and materializes its first billing
// horizon of due payments.
func (s *LedgerService) CreateContract(ctx context.Context, request *domain.CreateContractRequest) (*domain.Contract, []*domain.Payment, error) {
	if !request.MonthlyRent.IsPositive() {
		return nil, nil, customError.WrapInvalidAmount(request.MonthlyRent.String())
	}
	if !request.EndDate.After(request.StartDate) {
		return nil, nil, customError.NewBusinessError(
			customError.KindValidation,
			customError.ErrCodeInvalidAmount,
			"contract end date must be after start date",
			nil,
		)
	}

	now := s.now()
	contract := &domain.Contract{
		ID:            uuid.New(),
		OwnerID:       request.OwnerID,
		TenantID:      request.TenantID,
		PropertyID:    request.PropertyID,
		MonthlyRent:   request.MonthlyRent,
		DepositAmount: request.DepositAmount,
		StartDate:     utils.DateOnly(request.StartDate),
		EndDate:       utils.DateOnly(request.EndDate),
		DueDay:        request.DueDay,
		Status:        domain.ContractStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.GenerateDuePayments(ctx, contract, s.config.Business.HorizonMonths)
	if err != nil {
		return nil, nil, err
	}

	return contract, payments, nil
}

// GenerateDuePayments materializes one pending payment per billing month for
// the next horizonMonths. Idempotent: months that already carry a
// non-cancelled payment are skipped, and the partial unique index on
// (contract, due date) closes the race when two generators run concurrently.
// Due dates earlier than yesterday are never generated retroactively.
func (s *LedgerService) GenerateDuePayments(ctx context.Context, contract *domain.Contract, horizonMonths int) ([]*domain.Payment, error) {
	cutoff := utils.DateOnly(s.now()).AddDate(0, 0, -1)

	monthsFromStart := monthsBetween(contract.StartDate, s.now())
	// Step one month back: a due date in the previous calendar month can
	// still land exactly on yesterday (e.g. due day 31 seen on the 1st).
	// The cutoff check below drops anything genuinely older.
	startMonth := monthsFromStart
	if startMonth > 0 {
		startMonth--
	}

	created := make([]*domain.Payment, 0, horizonMonths)
	for i := startMonth; i < monthsFromStart+horizonMonths; i++ {
		dueDate := utils.BillingDate(contract.StartDate, i, contract.DueDay)

		if dueDate.Before(cutoff) {
			continue
		}
		if dueDate.After(contract.EndDate) {
			break
		}

		exists, err := s.paymentRepo.ExistsForDueDate(ctx, contract.ID, dueDate)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		if exists {
			continue
		}

		now := s.now()
		payment := &domain.Payment{
			ID:         uuid.New(),
			ContractID: contract.ID,
			Amount:     contract.MonthlyRent,
			DueDate:    dueDate,
			Status:     domain.PaymentStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			// A concurrent generator won the insert for this month.
			if repository.IsUniqueViolation(err) {
				continue
			}
			return nil, customError.WrapDatabaseError(err)
		}

		created = append(created, payment)
	}

	return created, nil
}

// MarkOverdueAndAccrueLateFees sweeps every unpaid payment past its due date,
// transitions it to overdue and recomputes the late fee from the due date:
// amount x monthly rate x whole 30-day months elapsed. Recomputing from the
// due date keeps the sweep idempotent; fees never compound on themselves.
func (s *LedgerService) MarkOverdueAndAccrueLateFees(ctx context.Context, asOf time.Time) (int, error) {
	payments, err := s.paymentRepo.ListUnpaidPastDue(ctx, utils.DateOnly(asOf))
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	rate := s.config.GetLateFeeMonthlyRate()

	updated := 0
	for _, payment := range payments {
		if !utils.IsDateOverdue(payment.DueDate, asOf) {
			continue
		}
		months := utils.MonthsOverdue(payment.DueDate, asOf)
		lateFee := utils.RoundMinorUnit(payment.Amount.Mul(rate).Mul(decimal.NewFromInt(int64(months))))

		if err := s.paymentRepo.MarkOverdue(ctx, payment.ID, lateFee); err != nil {
			log.Printf("late fee sweep: payment %s: %v", payment.ID, err)
			continue
		}
		updated++
	}

	return updated, nil
}

// InitiatePayment creates a gateway payment intent for one ledger row and
// records the pending transaction that anchors later webhook reconciliation.
// The charged total covers the rent, any accrued late fee, and fees.
func (s *LedgerService) InitiatePayment(ctx context.Context, paymentID, tenantID uuid.UUID) (*domain.InitiatePaymentResponse, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPaymentNotFound(paymentID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	contract, err := s.contractRepo.GetByID(ctx, payment.ContractID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if contract.TenantID != tenantID {
		return nil, customError.WrapNotOwner(paymentID.String())
	}

	if !payment.IsPayable() {
		return nil, customError.WrapPaymentNotPayable(paymentID.String(), payment.Status)
	}

	due := payment.Amount
	if payment.LateFee.Valid {
		due = due.Add(payment.LateFee.Decimal)
	}

	fees, err := s.fees.Calculate(due, domain.PaymentTypeRent)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, fees.Total, s.config.Business.Currency, map[string]string{
		"payable_type": domain.PayableTypePayment,
		"payable_id":   payment.ID.String(),
		"contract_id":  contract.ID.String(),
	})
	if err != nil {
		// Timeouts leave no local state behind; the tenant simply retries.
		return nil, customError.WrapGatewayError(err)
	}

	now := s.now()
	txn := &domain.GatewayTransaction{
		ID:          uuid.New(),
		ExternalID:  intent.ID,
		PayableType: domain.PayableTypePayment,
		PayableID:   payment.ID,
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
		Amount:        due,
		Fees:          fees,
	}, nil
}

// CancelPayment voids an unpaid ledger row. Paid rows are immutable.
func (s *LedgerService) CancelPayment(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapPaymentNotFound(paymentID.String())
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	if !payment.IsPayable() {
		return customError.WrapPaymentNotPayable(paymentID.String(), payment.Status)
	}

	if err := s.paymentRepo.UpdateStatus(ctx, paymentID, domain.PaymentStatusCancelled); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// GetTransaction returns the gateway transaction for one intent, so clients
// can poll settlement status between initiation and the webhook landing.
func (s *LedgerService) GetTransaction(ctx context.Context, externalID string) (*domain.GatewayTransaction, error) {
	txn, err := s.txnRepo.GetByExternalID(ctx, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapTransactionNotFound(externalID)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return txn, nil
}

// ListContractPayments returns the ledger for one contract.
func (s *LedgerService) ListContractPayments(ctx context.Context, contractID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.contractRepo.GetByID(ctx, contractID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapContractNotFound(contractID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.paymentRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// monthsBetween counts whole calendar months from the start month to now's
// month, clamped at zero, so regeneration always begins at the current
// billing month instead of re-walking the whole contract history.
func monthsBetween(start, now time.Time) int {
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}
