package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// SignatureHeader carries the webhook signature on inbound requests.
const SignatureHeader = "X-Gateway-Signature"

var ErrSignatureMismatch = errors.New("signature does not match payload")

// Sign computes the hex-encoded HMAC-SHA256 of the payload. Exposed so tests
// and outbound tooling produce the same signatures the verifier expects.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the payload against its signature header using a
// constant-time comparison.
func VerifySignature(payload []byte, signature, secret string) error {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), expected) {
		return ErrSignatureMismatch
	}

	return nil
}

// webhookEnvelope is the provider's wire format: an event type wrapping the
// payment intent object it refers to.
type webhookEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string          `json:"id"`
			Amount   decimal.Decimal `json:"amount"`
			Currency string          `json:"currency"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes a webhook envelope into an Event.
func ParseEvent(payload []byte) (*Event, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}

	if envelope.Type == "" || envelope.Data.Object.ID == "" {
		return nil, errors.New("webhook payload missing type or payment intent id")
	}

	return &Event{
		ID:       envelope.ID,
		Type:     envelope.Type,
		IntentID: envelope.Data.Object.ID,
		Amount:   envelope.Data.Object.Amount,
		Currency: envelope.Data.Object.Currency,
	}, nil
}
