package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/rentora/billing-engine/internal/gateway"
	"github.com/rentora/billing-engine/internal/service"
	customError "github.com/rentora/billing-engine/pkg/errors"
	"github.com/rentora/billing-engine/pkg/response"
)

// maxWebhookBody bounds the payload read; gateway events are small.
const maxWebhookBody = 1 << 20

// WebhookHandler receives asynchronous payment events from the gateway.
type WebhookHandler struct {
	reconciler *service.ReconcileService
}

func NewWebhookHandler(reconciler *service.ReconcileService) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// HandleGatewayWebhook answers 200 for processed-or-replayed events, 400 for
// unauthenticated or malformed payloads, 404 for unknown transactions and
// 500 otherwise; the gateway retries anything non-2xx.
func (h *WebhookHandler) HandleGatewayWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "cannot read payload", err)
		return
	}

	signature := r.Header.Get(gateway.SignatureHeader)
	if signature == "" {
		response.BadRequest(w, "missing signature header", customError.ErrInvalidSignature)
		return
	}

	if err := h.reconciler.HandleWebhook(r.Context(), payload, signature); err != nil {
		switch {
		case errors.Is(err, customError.ErrInvalidSignature):
			response.BadRequest(w, "signature verification failed", err)
		case customError.KindOf(err) == customError.KindNotFound:
			response.FromError(w, err)
		default:
			response.InternalServerError(w, "webhook processing failed", err)
		}
		return
	}

	response.Success(w, map[string]string{"status": "processed"})
}
