package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"intellilearn-backend/internal/domain"

	"github.com/go-resty/resty/v2"
)

// restGateway talks to the external payment provider over its REST API and
// verifies the HMAC signature the provider attaches to webhook calls.
type restGateway struct {
	client        *resty.Client
	webhookSecret []byte
}

func NewPaymentGateway() domain.PaymentGateway {
	client := resty.New().
		SetBaseURL(envOr("PAYMENT_GATEWAY_URL", "https://api.payment-gateway.example.com")).
		SetAuthToken(os.Getenv("PAYMENT_GATEWAY_KEY")).
		SetHeader("Content-Type", "application/json")

	return &restGateway{
		client:        client,
		webhookSecret: []byte(os.Getenv("PAYMENT_WEBHOOK_SECRET")),
	}
}

func (g *restGateway) CreateIntent(ctx context.Context, amount float64, currency, reference string) (*domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"amount":    amount,
			"currency":  currency,
			"reference": reference,
		}).
		SetResult(&intent).
		Post("/v1/payment-intents")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment gateway responded %d: %s", resp.StatusCode(), resp.String())
	}
	return &intent, nil
}

// VerifySignature checks the hex HMAC-SHA256 of the raw webhook body.
func (g *restGateway) VerifySignature(payload []byte, signature string) bool {
	if len(g.webhookSecret) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, g.webhookSecret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
