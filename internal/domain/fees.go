package domain

import "github.com/shopspring/decimal"

const (
	PaymentTypeRent        = "rent"
	PaymentTypeDeposit     = "deposit"
	PaymentTypeMaintenance = "maintenance"
)

// FeeStructure defines the fee schedule for one payment type: two percentage
// fees applied independently to the base amount plus one fixed fee.
type FeeStructure struct {
	PlatformRate    decimal.Decimal `json:"platform_rate"`
	ProcessingFixed decimal.Decimal `json:"processing_fixed"`
	InsuranceRate   decimal.Decimal `json:"insurance_rate"`
}

// FeeBreakdown is the result of running an amount through a fee schedule.
type FeeBreakdown struct {
	Base          decimal.Decimal `json:"base"`
	PlatformFee   decimal.Decimal `json:"platform_fee"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
	InsuranceFee  decimal.Decimal `json:"insurance_fee"`
	Total         decimal.Decimal `json:"total"`
}

type FeeQuoteRequest struct {
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	PaymentType       string          `json:"payment_type"`
	DepositPercentage int             `json:"deposit_percentage" validate:"omitempty,min=1,max=100"`
}

// SplitFeeQuote carries independently computed fees for each installment of
// a split payment. Fees are never computed on the total and apportioned.
type SplitFeeQuote struct {
	Deposit *FeeBreakdown `json:"deposit"`
	Balance *FeeBreakdown `json:"balance"`
}
