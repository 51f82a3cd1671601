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

// SplitHandler serves the split payment endpoints.
type SplitHandler struct {
	splits    *service.SplitPaymentService
	validator *validator.Validate
}

func NewSplitHandler(splits *service.SplitPaymentService) *SplitHandler {
	return &SplitHandler{
		splits:    splits,
		validator: validator.New(),
	}
}

// CreateSplitPayment divides a payable total into deposit and balance
// installments for a contract.
func (h *SplitHandler) CreateSplitPayment(w http.ResponseWriter, r *http.Request) {
	contractID, err := uuid.Parse(mux.Vars(r)["contractId"])
	if err != nil {
		response.BadRequest(w, "invalid contract id", err)
		return
	}

	var request domain.CreateSplitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	split, items, err := h.splits.CreateSplitPayment(r.Context(), contractID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, domain.SplitPaymentResponse{
		SplitPayment: split,
		Items:        items,
	})
}

// GetSplitPayment returns one split payment with its items.
func (h *SplitHandler) GetSplitPayment(w http.ResponseWriter, r *http.Request) {
	splitID, err := uuid.Parse(mux.Vars(r)["splitId"])
	if err != nil {
		response.BadRequest(w, "invalid split payment id", err)
		return
	}

	split, items, err := h.splits.GetSplitPayment(r.Context(), splitID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.SplitPaymentResponse{
		SplitPayment: split,
		Items:        items,
	})
}

// InitiateItemPayment creates a gateway payment intent for one installment.
func (h *SplitHandler) InitiateItemPayment(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		response.BadRequest(w, "invalid item id", err)
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

	result, err := h.splits.InitiateItemPayment(r.Context(), itemID, request.TenantID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

// ProcessItemPayment settles one installment against a known gateway
// reference. The normal path is the webhook; this covers manual
// reconciliation when the gateway confirms a payment out of band.
func (h *SplitHandler) ProcessItemPayment(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		response.BadRequest(w, "invalid item id", err)
		return
	}

	var request domain.ProcessSplitItemRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	split, item, err := h.splits.ProcessPaymentItem(r.Context(), itemID, request.TransactionRef)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.SplitPaymentResponse{
		SplitPayment: split,
		Items:        []*domain.SplitPaymentItem{item},
	})
}

// CancelSplitPayment cancels the pending installments of a split payment.
func (h *SplitHandler) CancelSplitPayment(w http.ResponseWriter, r *http.Request) {
	splitID, err := uuid.Parse(mux.Vars(r)["splitId"])
	if err != nil {
		response.BadRequest(w, "invalid split payment id", err)
		return
	}

	split, err := h.splits.CancelSplitPayment(r.Context(), splitID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, split)
}
