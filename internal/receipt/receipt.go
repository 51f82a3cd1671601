package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request describes one settled payable for the receipt renderer.
type Request struct {
	PayableID      uuid.UUID       `json:"payable_id"`
	PayableType    string          `json:"payable_type"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	TransactionRef string          `json:"transaction_ref"`
	PaidDate       time.Time       `json:"paid_date"`
}

// Generator is the boundary to the external receipt rendering service.
// Callers treat failures as log-only: a missing receipt never rolls back a
// paid transition.
type Generator interface {
	GenerateReceipt(ctx context.Context, req *Request) (string, error)
}

type httpGenerator struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGenerator(baseURL string, timeout time.Duration) Generator {
	return &httpGenerator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *httpGenerator) GenerateReceipt(ctx context.Context, req *Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/receipts", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("receipt service returned %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		ReceiptURL string `json:"receipt_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	return out.ReceiptURL, nil
}
