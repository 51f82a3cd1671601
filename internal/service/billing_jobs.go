package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rentora/billing-engine/internal/config"
	"github.com/rentora/billing-engine/internal/domain"
	"github.com/rentora/billing-engine/internal/notifier"
	"github.com/rentora/billing-engine/internal/repository"
	customError "github.com/rentora/billing-engine/pkg/errors"
	"github.com/rentora/billing-engine/pkg/utils"
)

// BillingJobs holds the time-triggered batch jobs. Each job is a plain
// method so tests drive it directly without a clock; cron wiring lives in
// the scheduler binary. No business rules live here beyond batch iteration
// and per-item failure isolation.
type BillingJobs struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
	splitRepo    repository.SplitPaymentRepository
	ledger       *LedgerService
	notifier     notifier.Dispatcher
	redis        *redis.Client
	config       *config.Config
	now          func() time.Time
}

func NewBillingJobs(
	contractRepo repository.ContractRepository,
	paymentRepo repository.PaymentRepository,
	splitRepo repository.SplitPaymentRepository,
	ledger *LedgerService,
	dispatcher notifier.Dispatcher,
	redisClient *redis.Client,
	cfg *config.Config,
) *BillingJobs {
	return &BillingJobs{
		contractRepo: contractRepo,
		paymentRepo:  paymentRepo,
		splitRepo:    splitRepo,
		ledger:       ledger,
		notifier:     dispatcher,
		redis:        redisClient,
		config:       cfg,
		now:          time.Now,
	}
}

// JobReport summarizes one batch run.
type JobReport struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// GenerateUpcomingPayments materializes the next billing horizon for every
// active contract. One contract's failure never aborts the batch. A short
// redis lock per contract keeps overlapping runs (two scheduler replicas,
// or a slow run meeting the next trigger) from generating concurrently;
// the unique index remains the hard guarantee.
func (j *BillingJobs) GenerateUpcomingPayments(ctx context.Context) (*JobReport, error) {
	contracts, err := j.contractRepo.ListActive(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	report := &JobReport{}
	for _, contract := range contracts {
		if !j.acquireGenerationLock(ctx, contract.ID) {
			report.Skipped++
			continue
		}

		if _, err := j.ledger.GenerateDuePayments(ctx, contract, j.config.Business.HorizonMonths); err != nil {
			log.Printf("generate job: contract %s: %v", contract.ID, err)
			report.Failed++
			continue
		}
		report.Processed++
	}

	return report, nil
}

func (j *BillingJobs) acquireGenerationLock(ctx context.Context, contractID uuid.UUID) bool {
	if j.redis == nil {
		return true
	}

	key := fmt.Sprintf("billing:generate:%s", contractID)
	ok, err := j.redis.SetNX(ctx, key, 1, j.config.GetGenerationLockTTL()).Result()
	if err != nil {
		// Redis being down must not stop billing; fall through to the
		// database constraint.
		log.Printf("generate job: lock %s: %v", key, err)
		return true
	}
	return ok
}

// SendPaymentReminders notifies tenants about rent due tomorrow and about
// split installments coming due at the configured lead time.
func (j *BillingJobs) SendPaymentReminders(ctx context.Context) (*JobReport, error) {
	report := &JobReport{}
	today := utils.DateOnly(j.now())

	payments, err := j.paymentRepo.ListDueOn(ctx, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	for _, payment := range payments {
		contract, err := j.contractRepo.GetByID(ctx, payment.ContractID)
		if err != nil {
			log.Printf("reminder job: payment %s: %v", payment.ID, err)
			report.Failed++
			continue
		}

		j.notifier.Notify(ctx, contract.TenantID, domain.NotifyPaymentReminder, map[string]interface{}{
			"payment_id": payment.ID.String(),
			"amount":     payment.Amount,
			"due_date":   payment.DueDate,
		})
		report.Processed++
	}

	items, err := j.splitRepo.ListItemsDueOn(ctx, today.AddDate(0, 0, j.config.Business.ReminderLeadDays))
	if err != nil {
		return report, customError.WrapDatabaseError(err)
	}

	for _, item := range items {
		split, err := j.splitRepo.GetByID(ctx, item.SplitPaymentID)
		if err != nil {
			log.Printf("reminder job: split item %s: %v", item.ID, err)
			report.Failed++
			continue
		}

		contract, err := j.contractRepo.GetByID(ctx, split.ContractID)
		if err != nil {
			log.Printf("reminder job: split item %s: %v", item.ID, err)
			report.Failed++
			continue
		}

		j.notifier.Notify(ctx, contract.TenantID, domain.NotifySplitItemReminder, map[string]interface{}{
			"split_payment_id": split.ID.String(),
			"item_id":          item.ID.String(),
			"item_type":        item.ItemType,
			"amount":           item.Amount,
			"due_date":         item.DueDate,
		})
		report.Processed++
	}

	return report, nil
}

// SendOverdueNotices notifies tenants about every currently overdue payment.
func (j *BillingJobs) SendOverdueNotices(ctx context.Context) (*JobReport, error) {
	payments, err := j.paymentRepo.ListUnpaidPastDue(ctx, utils.DateOnly(j.now()))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	report := &JobReport{}
	for _, payment := range payments {
		contract, err := j.contractRepo.GetByID(ctx, payment.ContractID)
		if err != nil {
			log.Printf("overdue notice job: payment %s: %v", payment.ID, err)
			report.Failed++
			continue
		}

		payload := map[string]interface{}{
			"payment_id": payment.ID.String(),
			"amount":     payment.Amount,
			"due_date":   payment.DueDate,
		}
		if payment.LateFee.Valid {
			payload["late_fee"] = payment.LateFee.Decimal
		}

		j.notifier.Notify(ctx, contract.TenantID, domain.NotifyPaymentOverdue, payload)
		report.Processed++
	}

	return report, nil
}

// AccrueLateFees runs the nightly overdue sweep.
func (j *BillingJobs) AccrueLateFees(ctx context.Context) (*JobReport, error) {
	updated, err := j.ledger.MarkOverdueAndAccrueLateFees(ctx, j.now())
	if err != nil {
		return nil, err
	}
	return &JobReport{Processed: updated}, nil
}
