package service

import (
	"github.com/shopspring/decimal"

	"github.com/rentora/billing-engine/internal/domain"
	customError "github.com/rentora/billing-engine/pkg/errors"
	"github.com/rentora/billing-engine/pkg/utils"
)

// FeeCalculator computes fee breakdowns from an injected schedule table.
// Pure: same amount and payment type always yield the same breakdown.
type FeeCalculator struct {
	schedules map[string]domain.FeeStructure
}

func NewFeeCalculator(schedules map[string]domain.FeeStructure) *FeeCalculator {
	return &FeeCalculator{schedules: schedules}
}

// Calculate returns the fee breakdown for one payable amount. Percentage
// fees are each computed on the base amount independently, never compounded,
// and rounded to the currency's minor unit. Unknown payment types use the
// rent schedule.
func (c *FeeCalculator) Calculate(amount decimal.Decimal, paymentType string) (*domain.FeeBreakdown, error) {
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(amount.String())
	}

	schedule, ok := c.schedules[paymentType]
	if !ok {
		schedule = c.schedules[domain.PaymentTypeRent]
	}

	platform := utils.RoundMinorUnit(amount.Mul(schedule.PlatformRate))
	processing := utils.RoundMinorUnit(schedule.ProcessingFixed)
	insurance := utils.RoundMinorUnit(amount.Mul(schedule.InsuranceRate))

	return &domain.FeeBreakdown{
		Base:          amount,
		PlatformFee:   platform,
		ProcessingFee: processing,
		InsuranceFee:  insurance,
		Total:         amount.Add(platform).Add(processing).Add(insurance),
	}, nil
}

// CalculateSplit simulates fees for a split payment. The deposit and balance
// sub-amounts are each run through the calculator independently; fees are
// never computed on the total and apportioned, which keeps the simulation
// consistent with what each installment is actually charged.
func (c *FeeCalculator) CalculateSplit(total decimal.Decimal, depositPercentage int) (*domain.SplitFeeQuote, error) {
	if !total.IsPositive() {
		return nil, customError.WrapInvalidAmount(total.String())
	}
	if depositPercentage < 1 || depositPercentage > 100 {
		return nil, customError.WrapInvalidPercentage(depositPercentage)
	}

	depositAmount := utils.PercentOf(total, depositPercentage)
	balanceAmount := total.Sub(depositAmount)

	deposit, err := c.Calculate(depositAmount, domain.PaymentTypeDeposit)
	if err != nil {
		return nil, err
	}

	quote := &domain.SplitFeeQuote{Deposit: deposit}
	if balanceAmount.IsPositive() {
		balance, err := c.Calculate(balanceAmount, domain.PaymentTypeRent)
		if err != nil {
			return nil, err
		}
		quote.Balance = balance
	}

	return quote, nil
}
