package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRazorpayCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)

		var req razorpayOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(149950), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(razorpayOrderResponse{
			ID:       "order_xyz",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewRazorpayClient("key_test", "secret_test", srv.URL)
	intent, err := client.CreateIntent(context.Background(), 149950, "INR", "rcpt_1")
	require.NoError(t, err)

	assert.Equal(t, "order_xyz", intent.ID)
	assert.Equal(t, int64(149950), intent.Amount)
	assert.Equal(t, "rcpt_1", intent.Receipt)
}

func TestRazorpayCreateIntentRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewRazorpayClient("key_test", "secret_test", srv.URL)
	_, err := client.CreateIntent(context.Background(), 0, "INR", "rcpt_2")
	assert.ErrorIs(t, err, ErrGatewayRejected)
}

func TestRazorpayCreateIntentUnreachable(t *testing.T) {
	client := NewRazorpayClient("key_test", "secret_test", "http://127.0.0.1:1")
	_, err := client.CreateIntent(context.Background(), 1000, "INR", "rcpt_3")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestRazorpayRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/pay_123/refund", r.URL.Path)

		var req razorpayRefundRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(90000), req.Amount)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"rfnd_1","status":"processed"}`))
	}))
	defer srv.Close()

	client := NewRazorpayClient("key_test", "secret_test", srv.URL)
	err := client.Refund(context.Background(), "pay_123", 90000)
	assert.NoError(t, err)
}

func TestRazorpayRefundRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewRazorpayClient("key_test", "secret_test", srv.URL)
	err := client.Refund(context.Background(), "pay_123", 90000)
	assert.ErrorIs(t, err, ErrGatewayRejected)
}
