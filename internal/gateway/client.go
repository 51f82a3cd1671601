package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Webhook event types delivered by the payment provider.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventPaymentCanceled  = "payment_intent.canceled"
)

// Intent is the provider-side payment intent handed back to the client app.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Event is the verified webhook envelope: an event type plus the embedded
// payment intent it refers to.
type Event struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	IntentID string          `json:"intent_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Client is the boundary to the external payment gateway.
type Client interface {
	// CreatePaymentIntent registers a payable amount with the gateway and
	// returns the intent plus the secret the paying client needs.
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*Intent, error)

	// VerifyWebhookSignature authenticates a raw webhook payload against its
	// signature header and decodes the event. It must not touch any state.
	VerifyWebhookSignature(payload []byte, signature string) (*Event, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	secret  string
	client  *http.Client
}

// NewHTTPClient builds a gateway client with a bounded request timeout, so a
// slow provider can never hold a caller longer than the configured limit.
func NewHTTPClient(baseURL, apiKey, webhookSecret string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		secret:  webhookSecret,
		client:  &http.Client{Timeout: timeout},
	}
}

type createIntentRequest struct {
	Amount   decimal.Decimal   `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (c *httpClient) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*Intent, error) {
	body, err := json.Marshal(createIntentRequest{
		Amount:   amount,
		Currency: currency,
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, raw)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}

	return &intent, nil
}

func (c *httpClient) VerifyWebhookSignature(payload []byte, signature string) (*Event, error) {
	if err := VerifySignature(payload, signature, c.secret); err != nil {
		return nil, err
	}

	return ParseEvent(payload)
}
