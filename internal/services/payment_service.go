package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// PaymentService talks to the hosted-checkout payment provider. The
// provider redirects the payer to a checkout page and notifies us of the
// outcome through signed webhooks.
type PaymentService interface {
	CreateCheckout(ctx context.Context, churchID uuid.UUID, planID, customerEmail string, amount float64) (*CheckoutSession, error)
	CancelSubscription(ctx context.Context, providerSubscriptionID string) error
	WebhookVerify(rawData []byte, signature string) (*WebhookEvent, error)
}

type paymentService struct {
	apiKey        string
	apiSecret     string
	webhookSecret string
	baseURL       string
	http          *http.Client
}

// CheckoutSession is the provider's hosted checkout handle.
type CheckoutSession struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
	Status      string `json:"status"`
	ExpiresAt   int64  `json:"expires_at"`
}

// WebhookEvent is a verified provider notification.
type WebhookEvent struct {
	ID      string                 `json:"id"`
	Event   string                 `json:"event"`
	Data    map[string]interface{} `json:"data"`
	Created int64                  `json:"created"`
}

// Webhook event names the billing service reacts to.
const (
	WebhookPaymentSucceeded     = "payment.succeeded"
	WebhookSubscriptionCanceled = "subscription.canceled"
)

func NewPaymentService(apiKey, apiSecret, webhookSecret, baseURL string) PaymentService {
	return &paymentService{
		apiKey:        apiKey,
		apiSecret:     apiSecret,
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
		http:          &http.Client{},
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, churchID uuid.UUID, planID, customerEmail string, amount float64) (*CheckoutSession, error) {
	payload := map[string]interface{}{
		"plan_id":        planID,
		"customer_email": customerEmail,
		"amount":         amount,
		"currency":       "BRL",
		"reference":      churchID.String(),
	}

	body, err := s.makeRequest(ctx, http.MethodPost, "/checkout/sessions", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout response: %w", err)
	}
	return &session, nil
}

func (s *paymentService) CancelSubscription(ctx context.Context, providerSubscriptionID string) error {
	path := fmt.Sprintf("/subscriptions/%s/cancel", providerSubscriptionID)
	if _, err := s.makeRequest(ctx, http.MethodPost, path, nil); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

// WebhookVerify checks the HMAC-SHA256 signature before trusting the
// payload. A webhook that fails verification is discarded, never retried.
func (s *paymentService) WebhookVerify(rawData []byte, signature string) (*WebhookEvent, error) {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(rawData)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("webhook signature mismatch")
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawData, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook data: %w", err)
	}
	return &event, nil
}

func (s *paymentService) makeRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewBuffer(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.apiKey, s.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, respBody)
	}
	return respBody, nil
}
