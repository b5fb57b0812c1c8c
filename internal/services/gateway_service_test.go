package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestGatewayService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	gw := NewGatewayService("key_id", "key_secret")

	t.Run("Success", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "POST", req.Method)
			assert.Equal(t, "https://api.razorpay.com/v1/orders", req.URL.String())

			user, pass, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key_id", user)
			assert.Equal(t, "key_secret", pass)

			var payload map[string]interface{}
			body, _ := io.ReadAll(req.Body)
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, float64(50000), payload["amount"])
			assert.Equal(t, "INR", payload["currency"])
			assert.Equal(t, "order_abc", payload["receipt"])
			assert.Equal(t, float64(1), payload["payment_capture"])

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`{"id":"order_G123","amount":50000,"currency":"INR","receipt":"order_abc","status":"created"}`)),
				Header:     make(http.Header),
			}
		})

		order, err := gw.CreateOrder(ctx, 50000, "INR", "order_abc")
		require.NoError(t, err)
		assert.Equal(t, "order_G123", order.ID)
		assert.Equal(t, int64(50000), order.Amount)
		assert.Equal(t, "created", order.Status)
	})

	t.Run("APIError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(bytes.NewBufferString(`{"error":{"description":"bad key"}}`)),
				Header:     make(http.Header),
			}
		})

		_, err := gw.CreateOrder(ctx, 50000, "INR", "order_abc")
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, http.StatusUnauthorized, gwErr.Status)
		assert.Contains(t, gwErr.Detail, "bad key")
	})

	t.Run("NetworkError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		_, err := gw.CreateOrder(ctx, 50000, "INR", "order_abc")
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("InvalidJSONResponse", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`{invalid`)),
				Header:     make(http.Header),
			}
		})

		_, err := gw.CreateOrder(ctx, 50000, "INR", "order_abc")
		assert.Error(t, err)
	})
}

func TestGatewayService_VerifyPaymentSignature(t *testing.T) {
	gw := NewGatewayService("key_id", "key_secret")

	valid := checkoutSignature("key_secret", "order_G123", "pay_P456")

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, gw.VerifyPaymentSignature("order_G123", "pay_P456", valid))
	})

	t.Run("WrongSignature", func(t *testing.T) {
		assert.False(t, gw.VerifyPaymentSignature("order_G123", "pay_P456", "deadbeef"))
	})

	t.Run("SwappedIDs", func(t *testing.T) {
		assert.False(t, gw.VerifyPaymentSignature("pay_P456", "order_G123", valid))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewGatewayService("key_id", "other_secret")
		assert.False(t, other.VerifyPaymentSignature("order_G123", "pay_P456", valid))
	})
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	valid := webhookSignature("whsec", body)

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, VerifyWebhookSignature("whsec", body, valid))
	})

	t.Run("TamperedBody", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature("whsec", []byte(`{"event":"payment.failed"}`), valid))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature("other", body, valid))
	})

	t.Run("EmptySignature", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature("whsec", body, ""))
	})
}
