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
	"time"

	"go.uber.org/zap"

	"github.com/example/kcx/internal/logger"
)

const gatewayBaseURL = "https://api.razorpay.com/v1"

// GatewayService talks to the payment gateway's REST API and verifies
// the signatures it produces.
type GatewayService struct {
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// NewGatewayService constructs a gateway client with the merchant keys.
func NewGatewayService(keyID, keySecret string) *GatewayService {
	if keyID == "" || keySecret == "" {
		logger.L().Warn("payment gateway credentials are not fully configured")
	}

	return &GatewayService{
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// KeyID returns the public gateway key handed to the checkout frontend.
func (g *GatewayService) KeyID() string {
	return g.keyID
}

// GatewayOrder is the gateway's record of a payment intent.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder registers a payment intent with the gateway. Amount is in
// minor currency units.
func (g *GatewayService) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	log := logger.L().With(
		zap.String("receipt", receipt),
		zap.Int64("amount_minor", amountMinor),
	)

	body := map[string]interface{}{
		"amount":          amountMinor,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayBaseURL+"/orders", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	log.Info("creating gateway order")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("gateway request failed", zap.Error(err))
		return nil, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("gateway returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBody),
		)
		return nil, &GatewayError{Status: resp.StatusCode, Detail: string(respBody)}
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		log.Error("failed decoding gateway response", zap.Error(err))
		return nil, &GatewayError{Err: err}
	}

	log.Info("gateway order created", zap.String("gateway_order_id", order.ID))

	return &order, nil
}

// VerifyPaymentSignature checks the client-side checkout signature: an
// HMAC-SHA256 of "<gateway_order_id>|<gateway_payment_id>" keyed with the
// merchant secret, hex encoded. Comparison is constant time.
func (g *GatewayService) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the HMAC-SHA256 of the raw webhook body
// against the signature header, keyed with the webhook secret.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
