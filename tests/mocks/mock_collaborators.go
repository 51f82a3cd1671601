package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/rentora/billing-engine/internal/gateway"
	"github.com/rentora/billing-engine/internal/receipt"
)

type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*gateway.Intent, error) {
	args := m.Called(ctx, amount, currency, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Intent), args.Error(1)
}

func (m *MockGatewayClient) VerifyWebhookSignature(payload []byte, signature string) (*gateway.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Event), args.Error(1)
}

type MockReceiptGenerator struct {
	mock.Mock
}

func (m *MockReceiptGenerator) GenerateReceipt(ctx context.Context, req *receipt.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) {
	m.Called(ctx, userID, eventType, payload)
}
