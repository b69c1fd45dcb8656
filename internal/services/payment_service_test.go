package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerify_ValidSignature(t *testing.T) {
	service := NewPaymentService("key", "secret", "whsec_test", "https://pay.example.com")
	payload := []byte(`{"id":"evt_1","event":"payment.succeeded","data":{"reference":"abc","plan_id":"pro"},"created":1756380000}`)

	event, err := service.WebhookVerify(payload, signPayload("whsec_test", payload))

	assert.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, WebhookPaymentSucceeded, event.Event)
	assert.Equal(t, "pro", event.Data["plan_id"])
}

func TestWebhookVerify_WrongSecret(t *testing.T) {
	service := NewPaymentService("key", "secret", "whsec_test", "https://pay.example.com")
	payload := []byte(`{"id":"evt_1","event":"payment.succeeded"}`)

	event, err := service.WebhookVerify(payload, signPayload("whsec_other", payload))

	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestWebhookVerify_TamperedPayload(t *testing.T) {
	service := NewPaymentService("key", "secret", "whsec_test", "https://pay.example.com")
	payload := []byte(`{"id":"evt_1","event":"payment.succeeded"}`)
	signature := signPayload("whsec_test", payload)
	tampered := []byte(`{"id":"evt_1","event":"subscription.canceled"}`)

	event, err := service.WebhookVerify(tampered, signature)

	assert.Error(t, err)
	assert.Nil(t, event)
}
