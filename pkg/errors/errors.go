package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a business error for transport mapping.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindGateway    Kind = "gateway"
	KindInternal   Kind = "internal"
)

// Domain errors
var (
	ErrContractNotFound     = errors.New("contract not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrSplitPaymentNotFound = errors.New("split payment not found")
	ErrTransactionNotFound  = errors.New("gateway transaction not found")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidPercentage    = errors.New("deposit percentage must be between 1 and 100")
	ErrPaymentNotPayable    = errors.New("payment is not in a payable state")
	ErrActiveSplitExists    = errors.New("an active split payment already exists for this contract")
	ErrNotOwner             = errors.New("payable does not belong to the caller")
	ErrInvalidSignature     = errors.New("webhook signature verification failed")
	ErrSplitAlreadyTerminal = errors.New("split payment is already completed or cancelled")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(kind Kind, code, message string, err error) *BusinessError {
	return &BusinessError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// KindOf extracts the error kind, defaulting to internal for plain errors.
func KindOf(err error) Kind {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// Error codes
const (
	ErrCodeContractNotFound     = "CONTRACT_NOT_FOUND"
	ErrCodePaymentNotFound      = "PAYMENT_NOT_FOUND"
	ErrCodeSplitNotFound        = "SPLIT_PAYMENT_NOT_FOUND"
	ErrCodeTransactionNotFound  = "TRANSACTION_NOT_FOUND"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeInvalidPercentage    = "INVALID_PERCENTAGE"
	ErrCodePaymentNotPayable    = "PAYMENT_NOT_PAYABLE"
	ErrCodeActiveSplitExists    = "ACTIVE_SPLIT_EXISTS"
	ErrCodeNotOwner             = "NOT_OWNER"
	ErrCodeInvalidSignature     = "INVALID_SIGNATURE"
	ErrCodeSplitAlreadyTerminal = "SPLIT_ALREADY_TERMINAL"
	ErrCodeGatewayError         = "GATEWAY_ERROR"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
)

// Wrap common errors with business context

func WrapContractNotFound(contractID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeContractNotFound,
		fmt.Sprintf("Contract with ID %s not found", contractID),
		ErrContractNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapSplitPaymentNotFound(splitID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeSplitNotFound,
		fmt.Sprintf("Split payment with ID %s not found", splitID),
		ErrSplitPaymentNotFound,
	)
}

func WrapTransactionNotFound(externalID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeTransactionNotFound,
		fmt.Sprintf("Gateway transaction %s not found", externalID),
		ErrTransactionNotFound,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid amount: %s", amount),
		ErrInvalidAmount,
	)
}

func WrapInvalidPercentage(pct int) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeInvalidPercentage,
		fmt.Sprintf("Invalid deposit percentage: %d", pct),
		ErrInvalidPercentage,
	)
}

func WrapPaymentNotPayable(paymentID, status string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodePaymentNotPayable,
		fmt.Sprintf("Payment %s has status %s and cannot be collected", paymentID, status),
		ErrPaymentNotPayable,
	)
}

func WrapActiveSplitExists(contractID string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeActiveSplitExists,
		fmt.Sprintf("Contract %s already has an active split payment", contractID),
		ErrActiveSplitExists,
	)
}

func WrapNotOwner(payableID string) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeNotOwner,
		fmt.Sprintf("Payable %s does not belong to the caller", payableID),
		ErrNotOwner,
	)
}

func WrapInvalidSignature() *BusinessError {
	return NewBusinessError(
		KindGateway,
		ErrCodeInvalidSignature,
		"Webhook signature verification failed",
		ErrInvalidSignature,
	)
}

func WrapSplitAlreadyTerminal(splitID string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeSplitAlreadyTerminal,
		fmt.Sprintf("Split payment %s is already completed or cancelled", splitID),
		ErrSplitAlreadyTerminal,
	)
}

func WrapGatewayError(err error) *BusinessError {
	return NewBusinessError(
		KindGateway,
		ErrCodeGatewayError,
		"Payment gateway request failed",
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		KindInternal,
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}
