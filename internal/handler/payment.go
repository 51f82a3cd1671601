package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rentora/billing-engine/internal/domain"
	"github.com/rentora/billing-engine/internal/service"
	"github.com/rentora/billing-engine/pkg/response"
)

// PaymentHandler serves the contract and rent payment endpoints.
type PaymentHandler struct {
	ledger    *service.LedgerService
	fees      *service.FeeCalculator
	validator *validator.Validate
}

func NewPaymentHandler(ledger *service.LedgerService, fees *service.FeeCalculator) *PaymentHandler {
	return &PaymentHandler{
		ledger:    ledger,
		fees:      fees,
		validator: validator.New(),
	}
}

// CreateContract registers a contract and generates its first billing horizon.
func (h *PaymentHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	contract, payments, err := h.ledger.CreateContract(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, domain.CreateContractResponse{
		Contract: contract,
		Payments: payments,
	})
}

// ListContractPayments returns the rent ledger for one contract.
func (h *PaymentHandler) ListContractPayments(w http.ResponseWriter, r *http.Request) {
	contractID, err := uuid.Parse(mux.Vars(r)["contractId"])
	if err != nil {
		response.BadRequest(w, "invalid contract id", err)
		return
	}

	payments, err := h.ledger.ListContractPayments(r.Context(), contractID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.ContractPaymentsResponse{
		ContractID: contractID,
		Payments:   payments,
	})
}

// InitiatePayment creates a gateway payment intent for one ledger row.
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	var request domain.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.ledger.InitiatePayment(r.Context(), paymentID, request.TenantID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

// CancelPayment voids an unpaid ledger row.
func (h *PaymentHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	if err := h.ledger.CancelPayment(r.Context(), paymentID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": "cancelled"})
}

// GetTransaction returns the status of one gateway transaction.
func (h *PaymentHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	externalID := mux.Vars(r)["externalId"]

	txn, err := h.ledger.GetTransaction(r.Context(), externalID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, txn)
}

// QuoteFees simulates the fee breakdown for an amount. With a deposit
// percentage it quotes each split installment independently.
func (h *PaymentHandler) QuoteFees(w http.ResponseWriter, r *http.Request) {
	var request domain.FeeQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	if request.DepositPercentage > 0 {
		quote, err := h.fees.CalculateSplit(request.Amount, request.DepositPercentage)
		if err != nil {
			response.FromError(w, err)
			return
		}
		response.Success(w, quote)
		return
	}

	breakdown, err := h.fees.Calculate(request.Amount, request.PaymentType)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, breakdown)
}
