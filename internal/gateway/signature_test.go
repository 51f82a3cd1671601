package gateway

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	secret := "whsec_test"

	t.Run("valid signature passes", func(t *testing.T) {
		assert.NoError(t, VerifySignature(payload, Sign(payload, secret), secret))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		assert.ErrorIs(t, VerifySignature(payload, Sign(payload, "other"), secret), ErrSignatureMismatch)
	})

	t.Run("tampered payload fails", func(t *testing.T) {
		sig := Sign(payload, secret)
		assert.ErrorIs(t, VerifySignature([]byte(`{"type":"x"}`), sig, secret), ErrSignatureMismatch)
	})

	t.Run("non-hex signature fails", func(t *testing.T) {
		assert.ErrorIs(t, VerifySignature(payload, "not-hex!", secret), ErrSignatureMismatch)
	})
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "amount": "1072.50", "currency": "usd"}}
	}`)

	event, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.IntentID)
	assert.True(t, event.Amount.Equal(decimal.NewFromFloat(1072.50)))
	assert.Equal(t, "usd", event.Currency)
}

func TestParseEvent_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{`},
		{"missing type", `{"data":{"object":{"id":"pi_1"}}}`},
		{"missing intent id", `{"type":"payment_intent.succeeded","data":{"object":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}
